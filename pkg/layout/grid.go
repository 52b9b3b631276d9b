package layout

import (
	"github.com/cloudweave/cloudweave/pkg/diagram"
)

// applyGrid places every node row-major at a fixed cell pitch, in node
// order, ignoring edges and containment. Positions are parent-local, so a
// child's cell is measured inside its container; the resize pass afterwards
// grows containers around whatever cells their children landed in. Purely
// index-driven, so repeated runs are identical byte for byte.
func applyGrid(g *diagram.Graph, opts Options) {
	for i := range g.Nodes {
		col := i % opts.Columns
		row := i / opts.Columns
		g.Nodes[i].Position = diagram.Point{
			X: float64(col) * opts.CellWidth,
			Y: float64(row) * opts.CellHeight,
		}
	}
}
