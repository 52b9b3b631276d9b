// Package infer derives structure from the canonical resource list.
//
// The normalizer hands over flat resources; this package decides two
// things about them:
//
//   - Containment: which resource sits inside which. Explicit parent
//     references win, then kind-specific cross-reference fields (a subnet's
//     VpcId, an instance's SubnetId), then the region. Subnets additionally
//     get a public/private tier.
//   - Relationships: the association and traffic-flow edges between
//     resources, derived by scanning properties for identifiers that match
//     other resources. A reference that matches nothing produces no edge,
//     never an error.
//
// Traffic-flow relationships may name symbolic endpoints (TokenInternet and
// friends) instead of concrete ids. The graph builder resolves those tokens
// against the built node set; an unresolved token drops that single edge.
package infer

import (
	"github.com/cloudweave/cloudweave/pkg/resource"
)

// Category classifies a relationship for presentation. Categories pick the
// edge style and weight the force layout's attraction; they never affect
// layout correctness.
type Category string

// Relationship categories.
const (
	CategoryContainment   Category = "containment"
	CategoryInternet      Category = "internet"
	CategoryLoadBalancing Category = "load-balancing"
	CategoryRouting       Category = "routing"
	CategoryDatabase      Category = "database"
	CategorySecurity      Category = "security"
	CategoryVPCEndpoint   Category = "vpc-endpoint"
	CategoryDefault       Category = "default"
)

// Symbolic endpoint tokens. Traffic-flow relationships use these where the
// concrete resource is not known at inference time; the builder resolves
// them to node ids, or drops the edge when nothing matches.
const (
	TokenInternet        = "internet"
	TokenInternetGateway = "internet_gateway"
	TokenPublicSubnet    = "public_subnet"
	TokenPrivateSubnet   = "private_subnet"

	// Service endpoints a VPC endpoint may front. The builder synthesizes
	// a service node when the inventory contains no matching resource.
	TokenS3Service         = "s3_service"
	TokenAPIGatewayService = "api_gateway_service"
)

// Subnet tier labels assigned by classification.
const (
	TierPublic  = "public"
	TierPrivate = "private"
)

// Relationship is a directed association between two resources. Source and
// Target are resource ids, or symbolic tokens for traffic-flow edges.
type Relationship struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Category Category `json:"category"`
}

// Result carries the inference output. Resources is a copy of the input
// with ParentID and Tier assigned; the input slice is never mutated.
type Result struct {
	Resources     []resource.Resource `json:"resources"`
	Relationships []Relationship      `json:"relationships"`
}

// Infer assigns parents and derives relationships. It never fails: missing
// cross-references simply produce fewer edges.
func Infer(resources []resource.Resource) *Result {
	res := &Result{Resources: make([]resource.Resource, len(resources))}
	copy(res.Resources, resources)

	idx := indexBySourceID(res.Resources)

	assignParents(res.Resources, idx)
	classifySubnetTiers(res.Resources)

	res.addContainment()
	res.addRouteTableEdges(idx)
	res.addAssociations(idx)
	res.addTrafficFlow()

	return res
}

// add appends a relationship unless the same (source, target, category)
// triple was already emitted.
func (r *Result) add(source, target string, category Category) {
	if source == "" || target == "" || source == target {
		return
	}
	for _, rel := range r.Relationships {
		if rel.Source == source && rel.Target == target && rel.Category == category {
			return
		}
	}
	r.Relationships = append(r.Relationships, Relationship{Source: source, Target: target, Category: category})
}

// indexBySourceID maps raw provider identifiers to their position in the
// resource slice. First occurrence wins, matching the builder's
// deduplication rule.
func indexBySourceID(resources []resource.Resource) map[string]int {
	idx := make(map[string]int, len(resources))
	for i, r := range resources {
		if r.SourceID == "" {
			continue
		}
		if _, seen := idx[r.SourceID]; !seen {
			idx[r.SourceID] = i
		}
	}
	return idx
}

// addContainment emits the containment edges the diagram draws: VPC to
// subnet and subnet to workload (instance or database). Region and VPC
// level parents are expressed by nesting alone.
func (r *Result) addContainment() {
	byID := make(map[string]*resource.Resource, len(r.Resources))
	for i := range r.Resources {
		byID[r.Resources[i].ID] = &r.Resources[i]
	}

	for i := range r.Resources {
		res := &r.Resources[i]
		parent, ok := byID[res.ParentID]
		if !ok {
			continue
		}
		switch {
		case parent.Kind == resource.KindVPC && res.Kind == resource.KindSubnet:
			r.add(parent.ID, res.ID, CategoryContainment)
		case parent.Kind == resource.KindSubnet && (res.Kind == resource.KindEC2 || res.Kind == resource.KindRDS):
			r.add(parent.ID, res.ID, CategoryContainment)
		}
	}
}

// RegionParentID returns the synthetic region container id for a region
// name, shared with the graph builder so parent references line up.
func RegionParentID(region string) string {
	if region == "" {
		return ""
	}
	return resource.SpecFor(resource.KindRegion).IDPrefix + "-" + region
}
