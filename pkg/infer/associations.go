package infer

import (
	"strings"

	"github.com/cloudweave/cloudweave/pkg/resource"
)

// refRule declares one property path that may reference other resources.
// Rules are declarative for the same reason the normalizer's field table
// is: producers embed references at several well-known places, and adding
// support for a new one should be a table entry, not a new code branch.
type refRule struct {
	kind     resource.Kind
	path     []string
	category Category

	// flip emits target -> source, for relationships conventionally drawn
	// from the referenced side (a security group points at its instance).
	flip bool
}

var refRules = []refRule{
	// Instance and database memberships in security groups.
	{kind: resource.KindEC2, path: []string{"SecurityGroups", "GroupId"}, category: CategorySecurity, flip: true},
	{kind: resource.KindEC2, path: []string{"NetworkInterfaces", "Groups", "GroupId"}, category: CategorySecurity, flip: true},
	{kind: resource.KindRDS, path: []string{"VpcSecurityGroups", "VpcSecurityGroupId"}, category: CategorySecurity, flip: true},
	{kind: resource.KindLoadBalancer, path: []string{"SecurityGroups"}, category: CategorySecurity, flip: true},

	// Load balancer to target group, from whichever side carries the
	// reference.
	{kind: resource.KindLoadBalancer, path: []string{"Listeners", "DefaultActions", "TargetGroupArn"}, category: CategoryLoadBalancing},
	{kind: resource.KindLoadBalancer, path: []string{"TargetGroups", "TargetGroupArn"}, category: CategoryLoadBalancing},
	{kind: resource.KindTargetGroup, path: []string{"LoadBalancerArns"}, category: CategoryLoadBalancing, flip: true},

	// Target group members.
	{kind: resource.KindTargetGroup, path: []string{"TargetHealthDescriptions", "Target", "Id"}, category: CategoryLoadBalancing},
	{kind: resource.KindTargetGroup, path: []string{"Targets", "Id"}, category: CategoryLoadBalancing},

	// Workload to database.
	{kind: resource.KindEC2, path: []string{"RelatedDatabases", "DBInstanceIdentifier"}, category: CategoryDatabase},
	{kind: resource.KindRDS, path: []string{"RelatedInstances", "InstanceId"}, category: CategoryDatabase, flip: true},
	{kind: resource.KindRDS, path: []string{"related_instances"}, category: CategoryDatabase, flip: true},
}

// addAssociations applies the reference rules to every resource. A
// reference matching nothing in the index produces no edge.
func (r *Result) addAssociations(idx map[string]int) {
	for i := range r.Resources {
		res := &r.Resources[i]

		for _, rule := range refRules {
			if rule.kind != res.Kind {
				continue
			}
			for _, ref := range collectStrings(res.Properties, rule.path...) {
				j, ok := idx[ref]
				if !ok || r.Resources[j].ID == res.ID {
					continue
				}
				source, target := res.ID, r.Resources[j].ID
				if rule.flip {
					source, target = target, source
				}
				r.add(source, target, rule.category)
			}
		}

		if res.Kind == resource.KindVPCEndpoint {
			r.addEndpointService(res, idx)
		}
	}
}

// addEndpointService maps a VPC endpoint to the service it fronts by
// substring match on the service identifier. Only S3 and API Gateway are
// distinguished today; other services produce no edge.
func (r *Result) addEndpointService(res *resource.Resource, idx map[string]int) {
	service := strings.ToLower(resource.StringProp(res.Properties, "ServiceName", "service_name"))
	if service == "" {
		return
	}

	switch {
	case strings.Contains(service, "s3"):
		r.add(res.ID, r.firstOfKind(resource.KindS3, TokenS3Service), CategoryVPCEndpoint)
	case strings.Contains(service, "execute-api"), strings.Contains(service, "apigateway"):
		r.add(res.ID, r.firstOfKind(resource.KindAPIGateway, TokenAPIGatewayService), CategoryVPCEndpoint)
	}
}

// firstOfKind returns the id of the first resource of the given kind, or
// the fallback token for the builder to resolve or synthesize.
func (r *Result) firstOfKind(kind resource.Kind, fallback string) string {
	for i := range r.Resources {
		if r.Resources[i].Kind == kind {
			return r.Resources[i].ID
		}
	}
	return fallback
}

// collectStrings walks a property path through nested maps and slices and
// returns every string found at the end of it. Intermediate slices are
// traversed element-wise, so one path covers both single objects and
// arrays of objects. An empty remaining path collects the value itself
// (strings, or every string element of a slice).
func collectStrings(v any, path ...string) []string {
	if len(path) == 0 {
		switch t := v.(type) {
		case string:
			if t != "" {
				return []string{t}
			}
		case []any:
			var out []string
			for _, el := range t {
				if s, ok := el.(string); ok && s != "" {
					out = append(out, s)
				}
			}
			return out
		}
		return nil
	}

	switch t := v.(type) {
	case map[string]any:
		if next, ok := t[path[0]]; ok {
			return collectStrings(next, path[1:]...)
		}
	case []any:
		var out []string
		for _, el := range t {
			out = append(out, collectStrings(el, path...)...)
		}
		return out
	}
	return nil
}
