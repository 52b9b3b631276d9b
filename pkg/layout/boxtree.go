package layout

import (
	"github.com/cloudweave/cloudweave/pkg/diagram"
	"github.com/cloudweave/cloudweave/pkg/infer"
	"github.com/cloudweave/cloudweave/pkg/layout/layered"
	"github.com/cloudweave/cloudweave/pkg/resource"
)

// buildBoxTree converts the diagram's containment hierarchy into the nested
// box model the layered solver consumes. The synthetic root box has an
// empty id and never corresponds to a diagram node. Subnet children stack
// downward; every other container flows rightward.
func buildBoxTree(g *diagram.Graph) (*layered.Box, []layered.BoxEdge) {
	children := childIndex(g)

	var build func(parentID string, n *diagram.Node) *layered.Box
	build = func(parentID string, n *diagram.Node) *layered.Box {
		b := &layered.Box{
			ID:        n.ID,
			Width:     n.Width,
			Height:    n.Height,
			Direction: flowDirection(n),
			Tier:      n.Tier,
		}
		for _, c := range children[n.ID] {
			b.Children = append(b.Children, build(n.ID, c))
		}
		return b
	}

	root := &layered.Box{ID: "", Direction: layered.DirRight}
	for _, n := range children[""] {
		root.Children = append(root.Children, build("", n))
	}

	edges := make([]layered.BoxEdge, 0, len(g.Edges))
	for _, e := range g.Edges {
		edges = append(edges, layered.BoxEdge{
			Source: e.Source,
			Target: e.Target,
			Weight: categoryWeight(e.Category),
		})
	}
	return root, edges
}

// childIndex groups node pointers by parent id, preserving node order.
func childIndex(g *diagram.Graph) map[string][]*diagram.Node {
	idx := make(map[string][]*diagram.Node)
	for i := range g.Nodes {
		n := &g.Nodes[i]
		idx[n.ParentID] = append(idx[n.ParentID], n)
	}
	return idx
}

func flowDirection(n *diagram.Node) layered.Direction {
	if n.Kind == resource.KindSubnet {
		return layered.DirDown
	}
	return layered.DirRight
}

// categoryWeight biases placement toward keeping strongly related nodes
// close: the layered solver straightens heavier edges, the force strategy
// scales spring attraction by the same weights.
func categoryWeight(c infer.Category) float64 {
	switch c {
	case infer.CategoryLoadBalancing:
		return 3
	case infer.CategoryRouting, infer.CategoryInternet, infer.CategoryDatabase:
		return 2
	default:
		return 1
	}
}
