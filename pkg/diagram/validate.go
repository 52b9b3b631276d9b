package diagram

import (
	"github.com/cloudweave/cloudweave/pkg/errors"
)

// Validate checks the structural invariants a built graph must hold:
// unique non-empty node ids, parent references that exist and do not
// cycle, and edges whose endpoints exist. Graphs produced by Build always
// pass; imported documents may not.
func Validate(g *Graph) error {
	if g == nil {
		return errors.New(errors.ErrCodeInvalidGraph, "graph is nil")
	}

	ids := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidGraph, "node with empty id")
		}
		if ids[n.ID] {
			return errors.New(errors.ErrCodeInvalidGraph, "duplicate node id %q", n.ID)
		}
		ids[n.ID] = true
	}

	for _, n := range g.Nodes {
		if n.ParentID == "" {
			continue
		}
		if !ids[n.ParentID] {
			return errors.New(errors.ErrCodeInvalidGraph,
				"node %q references missing parent %q", n.ID, n.ParentID)
		}
		if err := checkParentChain(g, n.ID); err != nil {
			return err
		}
	}

	for _, e := range g.Edges {
		if !ids[e.Source] || !ids[e.Target] {
			return errors.New(errors.ErrCodeInvalidGraph,
				"edge %q references missing node", e.ID)
		}
	}

	return nil
}

// checkParentChain walks up from the node and fails on a containment
// cycle. The chain length is bounded by the node count.
func checkParentChain(g *Graph, id string) error {
	seen := map[string]bool{}
	for cur := g.Node(id); cur != nil && cur.ParentID != ""; cur = g.Node(cur.ParentID) {
		if seen[cur.ID] {
			return errors.New(errors.ErrCodeInvalidGraph,
				"containment cycle through node %q", cur.ID)
		}
		seen[cur.ID] = true
	}
	return nil
}
