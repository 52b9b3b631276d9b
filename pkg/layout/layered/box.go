// Package layered places nested box models with an external constraint
// solver.
//
// The layout engine converts a diagram's containment tree into a [Box]
// tree and hands it to a [Solver] together with the inter-node edges. The
// solver is the pipeline's single asynchronous boundary: the caller blocks
// on Solve and resumes with absolute positions for every box at every
// nesting depth. Keeping the interface this narrow (box tree in, positions
// out) makes the solver swappable; the default implementation drives
// Graphviz dot, one invocation per nesting level.
package layered

import (
	"context"
)

// Direction is the flow of a container's children.
type Direction string

// Flow directions. VPC-level children flow rightward; subnet children
// stack downward.
const (
	DirRight Direction = "right"
	DirDown  Direction = "down"
)

// Box is one node in the nested box model. Leaves carry their fixed size;
// container sizes are computed by the solver from their solved content.
type Box struct {
	ID     string
	Width  float64
	Height float64

	// Direction orders this box's children. Ignored for leaves.
	Direction Direction

	// Tier is the ordering hint: within one parent, "public" boxes are
	// biased before "private" ones.
	Tier string

	Children []*Box
}

// Leaf reports whether the box has no children.
func (b *Box) Leaf() bool { return len(b.Children) == 0 }

// BoxEdge is a directed edge between two box ids, at any nesting depth.
// The solver projects edges onto each level it solves.
type BoxEdge struct {
	Source string
	Target string
	Weight float64
}

// Rect is an absolute box placement: top-left corner plus size, y growing
// downward.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Positions maps box ids to their absolute placement.
type Positions map[string]Rect

// SolveOptions tunes the solver.
type SolveOptions struct {
	// NodeSpacing separates siblings within one layer, in pixels.
	NodeSpacing float64

	// LayerSpacing separates consecutive layers, in pixels.
	LayerSpacing float64

	// Padding is the inset between a container's border and its content.
	Padding float64
}

// Solver computes absolute positions for a nested box model. Solve must
// return a position for every box in the tree, including the container
// sizes it derived; it must not add or remove boxes.
type Solver interface {
	Solve(ctx context.Context, root *Box, edges []BoxEdge, opts SolveOptions) (Positions, error)
}
