package diagram

import (
	"github.com/cloudweave/cloudweave/pkg/errors"
	"github.com/cloudweave/cloudweave/pkg/idgen"
	"github.com/cloudweave/cloudweave/pkg/infer"
	"github.com/cloudweave/cloudweave/pkg/resource"
)

// Pseudo node ids minted for endpoints that exist in the story but not in
// the inventory.
const (
	internetNodeID   = "internet"
	s3ServiceNodeID  = "s3-service"
	apiServiceNodeID = "apigw-service"
)

// Build assembles the final graph from inferred resources and
// relationships.
//
// Region containers are synthesized from the distinct region tags in first
// appearance order. Duplicate resource ids keep the first occurrence;
// relationships whose endpoints cannot be resolved are dropped, with a
// warning when the endpoint was a concrete id (a symbolic token matching
// nothing drops silently, those edges are speculative by nature).
func Build(resources []resource.Resource, rels []infer.Relationship) (*Graph, []errors.Warning) {
	b := &builder{graph: &Graph{}, index: make(map[string]int)}

	b.addRegions(resources)
	b.addResources(resources)
	b.addEdges(rels)

	return b.graph, b.warnings
}

type builder struct {
	graph    *Graph
	index    map[string]int // node id -> position in graph.Nodes
	warnings []errors.Warning
}

func (b *builder) addNode(n Node) {
	if _, dup := b.index[n.ID]; dup {
		return
	}
	b.index[n.ID] = len(b.graph.Nodes)
	b.graph.Nodes = append(b.graph.Nodes, n)
}

func (b *builder) node(id string) *Node {
	if i, ok := b.index[id]; ok {
		return &b.graph.Nodes[i]
	}
	return nil
}

// addRegions synthesizes one container per distinct region tag.
func (b *builder) addRegions(resources []resource.Resource) {
	spec := resource.SpecFor(resource.KindRegion)
	for _, r := range resources {
		if r.Region == "" {
			continue
		}
		b.addNode(Node{
			ID:        infer.RegionParentID(r.Region),
			Kind:      resource.KindRegion,
			Label:     r.Region,
			Container: true,
			Region:    r.Region,
			Width:     spec.Width,
			Height:    spec.Height,
		})
	}
}

// addResources converts each resource to a node, keeping the first
// occurrence of a duplicated id.
func (b *builder) addResources(resources []resource.Resource) {
	for _, r := range resources {
		if b.node(r.ID) != nil {
			continue
		}
		spec := resource.SpecFor(r.Kind)
		b.addNode(Node{
			ID:        r.ID,
			Kind:      r.Kind,
			Label:     r.DisplayName(),
			ParentID:  r.ParentID,
			Container: spec.Container,
			Tier:      r.Tier,
			Region:    r.Region,
			Width:     spec.Width,
			Height:    spec.Height,
			Data:      r.Properties,
		})
	}

	// Parents must exist in the node set. A reference to a node that was
	// never built falls back to the region container, then to the root.
	for i := range b.graph.Nodes {
		n := &b.graph.Nodes[i]
		if n.ParentID == "" || b.node(n.ParentID) != nil {
			continue
		}
		regionID := infer.RegionParentID(n.Region)
		if b.node(regionID) != nil {
			n.ParentID = regionID
		} else {
			n.ParentID = ""
		}
	}

	// A node other nodes nest under renders as a box regardless of kind.
	for i := range b.graph.Nodes {
		if b.graph.Nodes[i].ParentID == "" {
			continue
		}
		if p := b.node(b.graph.Nodes[i].ParentID); p != nil {
			p.Container = true
		}
	}
}

// addEdges resolves endpoints and materializes the surviving
// relationships.
func (b *builder) addEdges(rels []infer.Relationship) {
	seen := make(map[string]bool)

	for _, rel := range rels {
		source, ok := b.resolveEndpoint(rel.Source, rel.Target)
		if !ok {
			continue
		}
		target, ok := b.resolveEndpoint(rel.Target, rel.Source)
		if !ok || source == target {
			continue
		}

		id := idgen.EdgeID(string(rel.Category), source, target)
		if seen[id] {
			continue
		}
		seen[id] = true

		sourceKind := resource.KindGeneric
		if n := b.node(source); n != nil {
			sourceKind = n.Kind
		}

		b.graph.Edges = append(b.graph.Edges, Edge{
			ID:       id,
			Source:   source,
			Target:   target,
			Category: rel.Category,
			Shape:    DefaultEdgeShape,
			Animated: true,
			Style:    styleFor(rel.Category, sourceKind),
		})
	}
}

// resolveEndpoint turns a relationship endpoint into a node id. Symbolic
// tokens resolve to the first matching node; the synthesizable ones
// (internet, service endpoints) are created on demand, but only when the
// partner endpoint names something real, so speculative edges cannot leave
// orphan pseudo nodes behind. A concrete id that matches no node drops the
// edge with a dangling-edge warning.
func (b *builder) resolveEndpoint(endpoint, partner string) (string, bool) {
	switch endpoint {
	case infer.TokenInternet:
		return b.synthesize(partner, Node{
			ID:    internetNodeID,
			Kind:  resource.KindInternet,
			Label: "Internet",
		})

	case infer.TokenInternetGateway:
		return b.firstOfKind(resource.KindInternetGateway)

	case infer.TokenPublicSubnet:
		return b.firstSubnet(infer.TierPublic)

	case infer.TokenPrivateSubnet:
		return b.firstSubnet(infer.TierPrivate)

	case infer.TokenS3Service:
		if id, ok := b.firstOfKind(resource.KindS3); ok {
			return id, true
		}
		return b.synthesize(partner, Node{
			ID:    s3ServiceNodeID,
			Kind:  resource.KindS3,
			Label: "S3",
		})

	case infer.TokenAPIGatewayService:
		if id, ok := b.firstOfKind(resource.KindAPIGateway); ok {
			return id, true
		}
		return b.synthesize(partner, Node{
			ID:    apiServiceNodeID,
			Kind:  resource.KindAPIGateway,
			Label: "API Gateway",
		})
	}

	if b.node(endpoint) != nil {
		return endpoint, true
	}
	b.warnings = append(b.warnings, errors.NewWarning(
		errors.WarnDanglingEdge, endpoint,
		"edge endpoint %q matches no node, edge dropped", endpoint))
	return "", false
}

// synthesize adds a pseudo node if the partner endpoint refers to a real
// node, then returns the pseudo node's id.
func (b *builder) synthesize(partner string, n Node) (string, bool) {
	if existing := b.node(n.ID); existing != nil {
		return n.ID, true
	}
	if !b.endpointExists(partner) {
		return "", false
	}
	spec := resource.SpecFor(n.Kind)
	n.Width = spec.Width
	n.Height = spec.Height
	b.addNode(n)
	return n.ID, true
}

// endpointExists reports whether the partner endpoint will resolve to an
// already-built node, without synthesizing anything.
func (b *builder) endpointExists(endpoint string) bool {
	switch endpoint {
	case infer.TokenInternet:
		return b.node(internetNodeID) != nil
	case infer.TokenInternetGateway:
		_, ok := b.firstOfKind(resource.KindInternetGateway)
		return ok
	case infer.TokenPublicSubnet:
		_, ok := b.firstSubnet(infer.TierPublic)
		return ok
	case infer.TokenPrivateSubnet:
		_, ok := b.firstSubnet(infer.TierPrivate)
		return ok
	case infer.TokenS3Service:
		_, ok := b.firstOfKind(resource.KindS3)
		return ok
	case infer.TokenAPIGatewayService:
		_, ok := b.firstOfKind(resource.KindAPIGateway)
		return ok
	}
	return b.node(endpoint) != nil
}

// firstOfKind returns the first node of the given kind in insertion order.
func (b *builder) firstOfKind(kind resource.Kind) (string, bool) {
	for i := range b.graph.Nodes {
		if b.graph.Nodes[i].Kind == kind {
			return b.graph.Nodes[i].ID, true
		}
	}
	return "", false
}

// firstSubnet returns the first subnet of the given tier.
func (b *builder) firstSubnet(tier string) (string, bool) {
	for i := range b.graph.Nodes {
		n := &b.graph.Nodes[i]
		if n.Kind == resource.KindSubnet && n.Tier == tier {
			return n.ID, true
		}
	}
	return "", false
}
