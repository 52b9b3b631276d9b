package normalize

import (
	"strings"

	"github.com/cloudweave/cloudweave/pkg/resource"
)

// The producers disagree on field naming, so every canonical field resolves
// through an ordered candidate list instead of scattered conditionals. First
// non-empty candidate wins. Extending support for a new producer means adding
// keys here, not adding branches.

// idKeys lists the per-kind identifier properties, highest priority first.
var idKeys = map[resource.Kind][]string{
	resource.KindVPC:             {"VpcId", "vpc_id"},
	resource.KindSubnet:          {"SubnetId", "subnet_id"},
	resource.KindEC2:             {"InstanceId", "instance_id"},
	resource.KindSecurityGroup:   {"GroupId", "group_id"},
	resource.KindRDS:             {"DBInstanceIdentifier", "DbiResourceId", "db_instance_identifier"},
	resource.KindLoadBalancer:    {"LoadBalancerArn", "LoadBalancerName", "load_balancer_arn"},
	resource.KindTargetGroup:     {"TargetGroupArn", "TargetGroupName", "target_group_arn"},
	resource.KindVPCEndpoint:     {"VpcEndpointId", "vpc_endpoint_id"},
	resource.KindRouteTable:      {"RouteTableId", "route_table_id"},
	resource.KindInternetGateway: {"InternetGatewayId", "internet_gateway_id"},
	resource.KindNATGateway:      {"NatGatewayId", "nat_gateway_id"},
	resource.KindS3:              {"Name", "BucketName", "bucket_name"},
	resource.KindLambda:          {"FunctionName", "FunctionArn", "function_name"},
}

// genericIDKeys are tried for every kind, after the kind-specific keys.
var genericIDKeys = []string{"id", "Id", "ID", "Arn", "arn", "ResourceId", "resource_id"}

// nameKeys lists per-kind display-name properties tried before the generic
// Name tag lookup.
var nameKeys = map[resource.Kind][]string{
	resource.KindRDS:          {"DBInstanceIdentifier"},
	resource.KindLoadBalancer: {"LoadBalancerName"},
	resource.KindTargetGroup:  {"TargetGroupName"},
	resource.KindS3:           {"Name", "BucketName"},
	resource.KindLambda:       {"FunctionName"},
	resource.KindSecurityGroup: {
		"GroupName",
	},
}

// envelopeIDKeys are the record-envelope identifier keys, tried before any
// property lookup.
var envelopeIDKeys = []string{"cloud_resource_id", "resource_id", "id"}

// envelopeNameKeys are the record-envelope name keys.
var envelopeNameKeys = []string{"resource_name", "name"}

// envelopeTypeKeys are the record-envelope type keys.
var envelopeTypeKeys = []string{"resource_type", "type", "Type"}

// envelopePropertyKeys hold the nested property object in tagged records.
var envelopePropertyKeys = []string{"resource_property", "resource_properties", "properties"}

// regionKeys are the property keys carrying an explicit region.
var regionKeys = []string{"Region", "region"}

// azKeys carry an availability zone a region can be derived from.
var azKeys = []string{"AvailabilityZone", "availability_zone"}

// resolveID extracts the raw provider identifier for a record of the given
// kind. Envelope keys win over properties; kind-specific property keys win
// over generic ones. Empty means no identifier was found and the caller
// should mint one.
func resolveID(kind resource.Kind, envelope, props map[string]any) string {
	if envelope != nil {
		if id := resource.StringProp(envelope, envelopeIDKeys...); id != "" {
			return id
		}
	}
	if keys, ok := idKeys[kind]; ok {
		if id := resource.StringProp(props, keys...); id != "" {
			return id
		}
	}
	return resource.StringProp(props, genericIDKeys...)
}

// resolveName extracts the display name. Priority: envelope name, Name tag,
// kind-specific property, then the raw id so every node has a label.
func resolveName(kind resource.Kind, envelope, props map[string]any, rawID string) string {
	if envelope != nil {
		if name := resource.StringProp(envelope, envelopeNameKeys...); name != "" {
			return name
		}
	}
	if name := resource.TagValue(props, "Name", ""); name != "" {
		return name
	}
	if keys, ok := nameKeys[kind]; ok {
		if name := resource.StringProp(props, keys...); name != "" {
			return name
		}
	}
	return rawID
}

// resolveRegion extracts the region. The wrapper-supplied region wins, then
// explicit region properties, then the availability zone with its trailing
// zone letters stripped, then the configured default.
func resolveRegion(wrapperRegion string, props map[string]any, defaultRegion string) string {
	if wrapperRegion != "" {
		return wrapperRegion
	}
	if region := resource.StringProp(props, regionKeys...); region != "" {
		return region
	}
	if az := resource.StringProp(props, azKeys...); az != "" {
		if region := azToRegion(az); region != "" {
			return region
		}
	}
	return defaultRegion
}

// azToRegion derives "us-east-1" from "us-east-1a". Zone suffixes are one
// or more trailing letters after the numeric part; anything that does not
// end in a digit after stripping was not an availability zone.
func azToRegion(az string) string {
	trimmed := strings.TrimRight(az, "abcdefghijklmnopqrstuvwxyz")
	if trimmed == "" {
		return ""
	}
	if last := trimmed[len(trimmed)-1]; last < '0' || last > '9' {
		return ""
	}
	return trimmed
}

// resolveType extracts the declared resource type string from a tagged
// record envelope. Empty when the record carries none.
func resolveType(envelope map[string]any) string {
	return resource.StringProp(envelope, envelopeTypeKeys...)
}

// resolveProperties returns the nested property object of a tagged record,
// or the record itself when the producer inlined the properties.
func resolveProperties(envelope map[string]any) map[string]any {
	for _, key := range envelopePropertyKeys {
		if props, ok := envelope[key].(map[string]any); ok {
			return props
		}
	}
	return envelope
}
