package layered

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// GraphvizSolver solves each nesting level as an independent dot digraph,
// bottom-up, so container sizes are known before their parents are placed.
// Graphviz has no per-cluster rank direction, which is why levels are
// solved separately instead of as one clustered graph; dot itself is
// deterministic, so repeated solves of the same tree return identical
// positions.
type GraphvizSolver struct{}

// NewGraphvizSolver returns the default solver.
func NewGraphvizSolver() *GraphvizSolver {
	return &GraphvizSolver{}
}

// Solve implements [Solver].
func (s *GraphvizSolver) Solve(ctx context.Context, root *Box, edges []BoxEdge, opts SolveOptions) (Positions, error) {
	if root == nil {
		return nil, fmt.Errorf("nil box tree")
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	st := &solveState{
		gv:     gv,
		opts:   opts,
		parent: make(map[string]string),
		rel:    make(map[string]Rect),
		size:   make(map[string]dims),
	}
	st.index(root)

	if err := st.solveLevel(ctx, root, edges); err != nil {
		return nil, err
	}

	pos := make(Positions, len(st.size))
	st.compose(root, 0, 0, pos)
	return pos, nil
}

type dims struct {
	w, h float64
}

type solveState struct {
	gv   *graphviz.Graphviz
	opts SolveOptions

	parent map[string]string // box id -> parent box id
	rel    map[string]Rect   // box id -> parent-relative placement
	size   map[string]dims   // box id -> solved size
}

func (st *solveState) index(b *Box) {
	for _, child := range b.Children {
		st.parent[child.ID] = b.ID
		st.index(child)
	}
}

// solveLevel recurses into container children first, then lays out this
// container's direct children as one digraph.
func (st *solveState) solveLevel(ctx context.Context, c *Box, edges []BoxEdge) error {
	if c.Leaf() {
		st.size[c.ID] = dims{c.Width, c.Height}
		return nil
	}

	for _, child := range c.Children {
		if err := st.solveLevel(ctx, child, edges); err != nil {
			return err
		}
	}

	// Children with solved sizes; containers may have outgrown their
	// defaults.
	eff := make([]*Box, len(c.Children))
	for i, child := range c.Children {
		sz := st.size[child.ID]
		eff[i] = &Box{ID: child.ID, Width: sz.w, Height: sz.h, Tier: child.Tier}
	}

	levelEdges := st.projectEdges(c, edges)
	levelEdges = append(levelEdges, orderingBias(c.Children)...)

	xdot, err := st.render(ctx, levelDOT(c.Direction, eff, levelEdges, st.opts))
	if err != nil {
		return fmt.Errorf("solve level %q: %w", c.ID, err)
	}
	rects, w, h, err := parseLevel(xdot, eff)
	if err != nil {
		return fmt.Errorf("solve level %q: %w", c.ID, err)
	}

	pad := st.opts.Padding
	for id, r := range rects {
		r.X += pad
		r.Y += pad
		st.rel[id] = r
	}
	st.size[c.ID] = dims{w + 2*pad, h + 2*pad}
	return nil
}

// projectEdges lifts each global edge onto this level: an edge counts when
// its endpoints live in the subtrees of two distinct direct children.
// Parallel projections merge, accumulating weight.
func (st *solveState) projectEdges(c *Box, edges []BoxEdge) []levelEdge {
	var out []levelEdge
	seen := make(map[[2]string]int)

	for _, e := range edges {
		a := st.lift(e.Source, c.ID)
		b := st.lift(e.Target, c.ID)
		if a == "" || b == "" || a == b {
			continue
		}
		key := [2]string{a, b}
		if i, ok := seen[key]; ok {
			out[i].weight += e.Weight
			continue
		}
		weight := e.Weight
		if weight <= 0 {
			weight = 1
		}
		seen[key] = len(out)
		out = append(out, levelEdge{source: a, target: b, weight: weight})
	}
	return out
}

// lift walks up from id to the direct child of the given scope that
// contains it, or returns empty when id is outside the scope.
func (st *solveState) lift(id, scopeID string) string {
	cur := id
	for cur != "" {
		p, ok := st.parent[cur]
		if !ok {
			return ""
		}
		if p == scopeID {
			return cur
		}
		cur = p
	}
	return ""
}

// orderingBias emits invisible edges from public to private siblings so
// public tiers rank first. Invisible edges influence ranking only; dot
// remains free to place either side where crossings demand it.
func orderingBias(children []*Box) []levelEdge {
	var publics, privates []string
	for _, c := range children {
		switch c.Tier {
		case "public":
			publics = append(publics, c.ID)
		case "private":
			privates = append(privates, c.ID)
		}
	}
	if len(publics) == 0 || len(privates) == 0 {
		return nil
	}

	var out []levelEdge
	for _, p := range publics {
		for _, q := range privates {
			out = append(out, levelEdge{source: p, target: q, ordering: true})
		}
	}
	return out
}

func (st *solveState) render(ctx context.Context, dot string) ([]byte, error) {
	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := st.gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// compose turns parent-relative placements into absolute positions.
func (st *solveState) compose(b *Box, x, y float64, out Positions) {
	sz := st.size[b.ID]
	out[b.ID] = Rect{X: x, Y: y, Width: sz.w, Height: sz.h}
	for _, child := range b.Children {
		rel := st.rel[child.ID]
		st.compose(child, x+rel.X, y+rel.Y, out)
	}
}
