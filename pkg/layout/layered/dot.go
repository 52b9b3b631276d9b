package layered

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
)

// Graphviz measures node sizes in inches and positions in points.
const pointsPerInch = 72.0

// levelEdge is one edge projected onto a single nesting level.
type levelEdge struct {
	source   string
	target   string
	weight   float64
	ordering bool // invisible ordering bias, not a real connection
}

// levelDOT renders one nesting level as a standalone digraph. Children are
// fixed-size boxes; the container's direction picks the rank direction.
func levelDOT(dir Direction, children []*Box, edges []levelEdge, opts SolveOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir(dir))
	fmt.Fprintf(&buf, "  nodesep=%.4f;\n", opts.NodeSpacing/pointsPerInch)
	fmt.Fprintf(&buf, "  ranksep=%.4f;\n", opts.LayerSpacing/pointsPerInch)
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")
	buf.WriteString("\n")

	for _, c := range children {
		fmt.Fprintf(&buf, "  %q [width=%.4f, height=%.4f];\n",
			c.ID, c.Width/pointsPerInch, c.Height/pointsPerInch)
	}

	buf.WriteString("\n")
	for _, e := range edges {
		if e.ordering {
			fmt.Fprintf(&buf, "  %q -> %q [style=invis];\n", e.source, e.target)
			continue
		}
		weight := int(e.weight)
		if weight < 1 {
			weight = 1
		}
		fmt.Fprintf(&buf, "  %q -> %q [weight=%d];\n", e.source, e.target, weight)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func rankdir(dir Direction) string {
	if dir == DirDown {
		return "TB"
	}
	return "LR"
}

var (
	bbRe  = regexp.MustCompile(`\bbb="([-0-9.]+),([-0-9.]+),([-0-9.]+),([-0-9.]+)"`)
	posRe = regexp.MustCompile(`\bpos="([-0-9.eE+]+),([-0-9.eE+]+)"`)
)

// nodeStmtRe matches one node statement in xdot output. Node statements
// start at the beginning of a line; edge statements never do for their
// target, and their source is followed by "->" rather than an attribute
// list. Graphviz quotes ids only when it must, so the quotes are optional.
func nodeStmtRe(id string) *regexp.Regexp {
	return regexp.MustCompile(`(?ms)^\s*"?` + regexp.QuoteMeta(id) + `"?\s*\[([^\]]*)\]`)
}

// parseLevel extracts each child's top-left position from xdot output.
// Graphviz reports node centers in points with y growing upward from the
// drawing's bottom-left corner; the result is converted to top-left
// origin, y growing downward, using the known box sizes rather than the
// rounded sizes graphviz echoes back.
func parseLevel(xdot []byte, children []*Box) (map[string]Rect, float64, float64, error) {
	bb := bbRe.FindSubmatch(xdot)
	if bb == nil {
		return nil, 0, 0, fmt.Errorf("no bounding box in solver output")
	}
	bbX0 := parseFloat(bb[1])
	bbY0 := parseFloat(bb[2])
	width := parseFloat(bb[3]) - bbX0
	height := parseFloat(bb[4]) - bbY0

	rects := make(map[string]Rect, len(children))
	for _, c := range children {
		stmt := nodeStmtRe(c.ID).FindSubmatch(xdot)
		if stmt == nil {
			return nil, 0, 0, fmt.Errorf("node %q missing from solver output", c.ID)
		}
		pos := posRe.FindSubmatch(stmt[1])
		if pos == nil {
			return nil, 0, 0, fmt.Errorf("node %q has no position in solver output", c.ID)
		}
		cx := parseFloat(pos[1]) - bbX0
		cy := parseFloat(pos[2]) - bbY0

		rects[c.ID] = Rect{
			X:      cx - c.Width/2,
			Y:      (height - cy) - c.Height/2,
			Width:  c.Width,
			Height: c.Height,
		}
	}

	return rects, width, height, nil
}

func parseFloat(b []byte) float64 {
	f, _ := strconv.ParseFloat(string(b), 64)
	return f
}
