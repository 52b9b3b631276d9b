package layered

import (
	"math"
	"strings"
	"testing"
)

func testSolveOptions() SolveOptions {
	return SolveOptions{NodeSpacing: 60, LayerSpacing: 80, Padding: 40}
}

func TestLevelDOT(t *testing.T) {
	children := []*Box{
		{ID: "subnet-a", Width: 120, Height: 88},
		{ID: "subnet-b", Width: 120, Height: 88},
	}
	edges := []levelEdge{
		{source: "subnet-a", target: "subnet-b", weight: 3},
		{source: "subnet-a", target: "subnet-b", ordering: true},
	}

	dot := levelDOT(DirRight, children, edges, testSolveOptions())

	if !strings.HasPrefix(dot, "digraph G {") {
		t.Error("levelDOT() should start with 'digraph G {'")
	}
	expected := []string{
		"rankdir=LR",
		"nodesep=0.8333",
		"ranksep=1.1111",
		"node [shape=box, fixedsize=true, label=\"\"]",
		`"subnet-a" [width=1.6667, height=1.2222]`,
		`"subnet-a" -> "subnet-b" [weight=3]`,
		`"subnet-a" -> "subnet-b" [style=invis]`,
	}
	for _, exp := range expected {
		if !strings.Contains(dot, exp) {
			t.Errorf("levelDOT() missing %q", exp)
		}
	}
}

func TestLevelDOTDirection(t *testing.T) {
	children := []*Box{{ID: "a", Width: 120, Height: 88}}

	if dot := levelDOT(DirDown, children, nil, testSolveOptions()); !strings.Contains(dot, "rankdir=TB") {
		t.Error("levelDOT(DirDown) should set rankdir=TB")
	}
	if dot := levelDOT(DirRight, children, nil, testSolveOptions()); !strings.Contains(dot, "rankdir=LR") {
		t.Error("levelDOT(DirRight) should set rankdir=LR")
	}
}

func TestLevelDOTWeightFloor(t *testing.T) {
	children := []*Box{
		{ID: "a", Width: 120, Height: 88},
		{ID: "b", Width: 120, Height: 88},
	}
	edges := []levelEdge{{source: "a", target: "b", weight: 0.4}}

	dot := levelDOT(DirRight, children, edges, testSolveOptions())

	if !strings.Contains(dot, `"a" -> "b" [weight=1]`) {
		t.Error("levelDOT() should floor fractional weights at 1")
	}
}

// xdot output in the shape graphviz actually emits: multi-line attribute
// lists, ids quoted only when needed, edges after nodes.
const sampleXDOT = `digraph G {
	graph [bb="0,0,304,214",
		nodesep=0.8333,
		rankdir=LR,
		ranksep=1.1111,
		xdotversion=1.7
	];
	node [fixedsize=true,
		label="",
		shape=box
	];
	"subnet-a"	[height=1.2222,
		pos="60,170",
		width=1.6667];
	b	[height=0.5,
		pos="244,44",
		width=0.8333];
	"subnet-a" -> b	[pos="e,214,57.2 120,149 148,136 183,71.6 205,61.4",
		weight=3];
}
`

func TestParseLevel(t *testing.T) {
	children := []*Box{
		{ID: "subnet-a", Width: 120, Height: 88},
		{ID: "b", Width: 60, Height: 36},
	}

	rects, w, h, err := parseLevel([]byte(sampleXDOT), children)
	if err != nil {
		t.Fatalf("parseLevel() error = %v", err)
	}

	if w != 304 || h != 214 {
		t.Errorf("content size = %vx%v, want 304x214", w, h)
	}

	want := map[string]Rect{
		"subnet-a": {X: 0, Y: 0, Width: 120, Height: 88},
		"b":        {X: 214, Y: 152, Width: 60, Height: 36},
	}
	for id, wr := range want {
		got, ok := rects[id]
		if !ok {
			t.Fatalf("parseLevel() missing node %q", id)
		}
		if !rectEq(got, wr) {
			t.Errorf("rect[%q] = %+v, want %+v", id, got, wr)
		}
	}
}

func TestParseLevelErrors(t *testing.T) {
	tests := []struct {
		name     string
		xdot     string
		children []*Box
		wantErr  string
	}{
		{
			name:     "no bounding box",
			xdot:     "digraph G {\n}\n",
			children: []*Box{{ID: "a", Width: 10, Height: 10}},
			wantErr:  "bounding box",
		},
		{
			name:     "missing node",
			xdot:     sampleXDOT,
			children: []*Box{{ID: "ghost", Width: 10, Height: 10}},
			wantErr:  `"ghost"`,
		},
		{
			name:     "node without position",
			xdot:     "digraph G {\n\tgraph [bb=\"0,0,10,10\"];\n\ta\t[width=0.5];\n}\n",
			children: []*Box{{ID: "a", Width: 10, Height: 10}},
			wantErr:  "no position",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := parseLevel([]byte(tt.xdot), tt.children)
			if err == nil {
				t.Fatal("parseLevel() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("parseLevel() error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

// Node ids can be suffixes of other ids; the statement regex must anchor
// on whole lines so "net" never matches inside "subnet-1".
func TestNodeStmtReAnchoring(t *testing.T) {
	xdot := "digraph G {\n\tgraph [bb=\"0,0,100,100\"];\n\t\"subnet-1\"\t[pos=\"10,20\", width=0.5, height=0.5];\n\tnet\t[pos=\"70,80\", width=0.5, height=0.5];\n}\n"

	stmt := nodeStmtRe("net").FindStringSubmatch(xdot)
	if stmt == nil {
		t.Fatal("nodeStmtRe(net) found no statement")
	}
	if !strings.Contains(stmt[1], `pos="70,80"`) {
		t.Errorf("nodeStmtRe(net) matched attrs %q, want the net node's own position", stmt[1])
	}
}

func rectEq(a, b Rect) bool {
	const eps = 1e-6
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps &&
		math.Abs(a.Width-b.Width) < eps && math.Abs(a.Height-b.Height) < eps
}
