package layout

import (
	"math"

	"github.com/cloudweave/cloudweave/pkg/diagram"
)

// resizeContainers grows every container to enclose its children plus
// padding, deepest containers first. Children shift into the padded
// interior and the container's own position absorbs the shift, keeping
// absolute placements stable. Children already at the padding offset (the
// layered solver's output) pass through unchanged, so applying the pass
// twice changes nothing.
func resizeContainers(g *diagram.Graph, padding float64) {
	children := childIndex(g)

	var fit func(n *diagram.Node)
	fit = func(n *diagram.Node) {
		kids := children[n.ID]
		for _, c := range kids {
			fit(c)
		}
		if !n.Container || len(kids) == 0 {
			return
		}

		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, c := range kids {
			minX = math.Min(minX, c.Position.X)
			minY = math.Min(minY, c.Position.Y)
			maxX = math.Max(maxX, c.Position.X+c.Width)
			maxY = math.Max(maxY, c.Position.Y+c.Height)
		}

		n.Width = maxX - minX + 2*padding
		n.Height = maxY - minY + 2*padding

		dx, dy := minX-padding, minY-padding
		if dx == 0 && dy == 0 {
			return
		}
		for _, c := range kids {
			c.Position.X -= dx
			c.Position.Y -= dy
		}
		n.Position.X += dx
		n.Position.Y += dy
	}

	for _, n := range children[""] {
		fit(n)
	}
}
