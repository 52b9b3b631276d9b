package infer

import (
	"strings"

	"github.com/cloudweave/cloudweave/pkg/resource"
)

// explicitParentKeys are checked first for every resource. A record that
// names its parent outright overrides every kind-specific rule.
var explicitParentKeys = []string{"parentId", "ParentId", "parent_id"}

// assignParents fills ParentID on every resource. Priority per resource:
// explicit parent reference, then the kind-specific containment field, then
// the synthetic region container. References are resolved through the
// provider-id index; a reference to a resource that was not imported falls
// through to the next rule.
func assignParents(resources []resource.Resource, idx map[string]int) {
	resolve := func(ref string) string {
		if ref == "" {
			return ""
		}
		if i, ok := idx[ref]; ok {
			return resources[i].ID
		}
		return ""
	}

	for i := range resources {
		res := &resources[i]

		if ref := resource.StringProp(res.Properties, explicitParentKeys...); ref != "" {
			if id := resolve(ref); id != "" {
				res.ParentID = id
				continue
			}
			// An explicit reference may already be a final node id.
			res.ParentID = ref
			continue
		}

		if id := resolve(kindParentRef(res)); id != "" {
			res.ParentID = id
			continue
		}

		switch res.Kind {
		case resource.KindInternet:
			// The internet pseudo node floats outside every container.
		default:
			res.ParentID = RegionParentID(res.Region)
		}
	}
}

// kindParentRef extracts the raw provider id of the natural container for
// the resource's kind. Empty when the properties carry no usable reference.
func kindParentRef(res *resource.Resource) string {
	props := res.Properties

	switch res.Kind {
	case resource.KindSubnet:
		return resource.StringProp(props, "VpcId", "vpc_id")

	case resource.KindEC2:
		if ref := resource.StringProp(props, "SubnetId", "subnet_id"); ref != "" {
			return ref
		}
		return resource.StringProp(props, "VpcId", "vpc_id")

	case resource.KindRDS:
		if group := resource.MapProp(props, "DBSubnetGroup"); group != nil {
			for _, el := range resource.SliceProp(group, "Subnets") {
				if sub, ok := el.(map[string]any); ok {
					if ref := resource.StringProp(sub, "SubnetIdentifier"); ref != "" {
						return ref
					}
				}
			}
			if ref := resource.StringProp(group, "VpcId"); ref != "" {
				return ref
			}
		}
		if ref := resource.StringProp(props, "SubnetId", "subnet_id"); ref != "" {
			return ref
		}
		return resource.StringProp(props, "VpcId", "vpc_id", "DBSubnetGroupVpcId")

	case resource.KindInternetGateway:
		for _, el := range resource.SliceProp(props, "Attachments") {
			if att, ok := el.(map[string]any); ok {
				if ref := resource.StringProp(att, "VpcId"); ref != "" {
					return ref
				}
			}
		}
		return resource.StringProp(props, "VpcId", "vpc_id")

	case resource.KindNATGateway,
		resource.KindRouteTable,
		resource.KindSecurityGroup,
		resource.KindVPCEndpoint,
		resource.KindLoadBalancer,
		resource.KindTargetGroup:
		return resource.StringProp(props, "VpcId", "vpc_id")

	case resource.KindLambda:
		if cfg := resource.MapProp(props, "VpcConfig"); cfg != nil {
			return resource.StringProp(cfg, "VpcId")
		}
		return ""

	default:
		// VPCs, buckets, generics and the rest sit directly in their
		// region.
		return ""
	}
}

// classifySubnetTiers labels each subnet public or private. Priority: a
// Type tag, then MapPublicIpOnLaunch, then a name substring. Subnets
// matching none of the rules keep an empty tier and still render inside
// their VPC.
func classifySubnetTiers(resources []resource.Resource) {
	for i := range resources {
		res := &resources[i]
		if res.Kind != resource.KindSubnet {
			continue
		}
		res.Tier = subnetTier(res)
	}
}

func subnetTier(res *resource.Resource) string {
	switch strings.ToLower(resource.TagValue(res.Properties, "Type", "")) {
	case "public":
		return TierPublic
	case "private":
		return TierPrivate
	}

	if public, ok := resource.BoolProp(res.Properties, "MapPublicIpOnLaunch", "map_public_ip_on_launch"); ok {
		if public {
			return TierPublic
		}
		return TierPrivate
	}

	name := strings.ToLower(res.Name)
	switch {
	case strings.Contains(name, "public"):
		return TierPublic
	case strings.Contains(name, "private"):
		return TierPrivate
	}

	return ""
}
