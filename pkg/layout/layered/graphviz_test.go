package layered

import (
	"testing"
)

// testTree builds the canonical two-level fixture:
//
//	root
//	├── vpc-1
//	│   ├── sub-a (public)  ── inst-1
//	│   └── sub-b (private) ── inst-2
//	└── igw-1
func testTree() *Box {
	instance1 := &Box{ID: "inst-1", Width: 120, Height: 88}
	instance2 := &Box{ID: "inst-2", Width: 120, Height: 88}
	subnetA := &Box{ID: "sub-a", Direction: DirDown, Tier: "public", Children: []*Box{instance1}}
	subnetB := &Box{ID: "sub-b", Direction: DirDown, Tier: "private", Children: []*Box{instance2}}
	vpc := &Box{ID: "vpc-1", Direction: DirRight, Children: []*Box{subnetA, subnetB}}
	igw := &Box{ID: "igw-1", Width: 90, Height: 60}
	return &Box{ID: "", Direction: DirRight, Children: []*Box{vpc, igw}}
}

func newTestState(root *Box) *solveState {
	st := &solveState{
		opts:   testSolveOptions(),
		parent: make(map[string]string),
		rel:    make(map[string]Rect),
		size:   make(map[string]dims),
	}
	st.index(root)
	return st
}

func TestLift(t *testing.T) {
	st := newTestState(testTree())

	tests := []struct {
		id    string
		scope string
		want  string
	}{
		{"inst-1", "", "vpc-1"},
		{"inst-1", "vpc-1", "sub-a"},
		{"inst-1", "sub-a", "inst-1"},
		{"igw-1", "", "igw-1"},
		{"igw-1", "vpc-1", ""},
		{"ghost", "", ""},
	}
	for _, tt := range tests {
		if got := st.lift(tt.id, tt.scope); got != tt.want {
			t.Errorf("lift(%q, %q) = %q, want %q", tt.id, tt.scope, got, tt.want)
		}
	}
}

func TestProjectEdges(t *testing.T) {
	root := testTree()
	st := newTestState(root)
	edges := []BoxEdge{
		{Source: "inst-1", Target: "igw-1", Weight: 1},
		{Source: "inst-1", Target: "inst-2", Weight: 2},
		{Source: "igw-1", Target: "inst-1", Weight: 1},
	}

	t.Run("root level", func(t *testing.T) {
		got := st.projectEdges(root, edges)
		want := []levelEdge{
			{source: "vpc-1", target: "igw-1", weight: 1},
			{source: "igw-1", target: "vpc-1", weight: 1},
		}
		if len(got) != len(want) {
			t.Fatalf("projectEdges() returned %d edges, want %d: %+v", len(got), len(want), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("edge[%d] = %+v, want %+v", i, got[i], want[i])
			}
		}
	})

	t.Run("vpc level", func(t *testing.T) {
		vpc := root.Children[0]
		got := st.projectEdges(vpc, edges)
		want := []levelEdge{{source: "sub-a", target: "sub-b", weight: 2}}
		if len(got) != 1 || got[0] != want[0] {
			t.Errorf("projectEdges() = %+v, want %+v", got, want)
		}
	})
}

func TestProjectEdgesMergesParallel(t *testing.T) {
	root := testTree()
	st := newTestState(root)
	edges := []BoxEdge{
		{Source: "inst-1", Target: "inst-2", Weight: 2},
		{Source: "sub-a", Target: "sub-b", Weight: 3},
	}

	got := st.projectEdges(root.Children[0], edges)
	if len(got) != 1 {
		t.Fatalf("projectEdges() returned %d edges, want 1 merged edge", len(got))
	}
	if got[0].weight != 5 {
		t.Errorf("merged weight = %v, want 5", got[0].weight)
	}
}

func TestOrderingBias(t *testing.T) {
	children := []*Box{
		{ID: "pub-1", Tier: "public"},
		{ID: "priv-1", Tier: "private"},
		{ID: "priv-2", Tier: "private"},
		{ID: "plain"},
	}

	got := orderingBias(children)
	if len(got) != 2 {
		t.Fatalf("orderingBias() returned %d edges, want 2", len(got))
	}
	for _, e := range got {
		if !e.ordering {
			t.Errorf("edge %+v should be an ordering edge", e)
		}
		if e.source != "pub-1" {
			t.Errorf("edge source = %q, want pub-1", e.source)
		}
	}
}

func TestOrderingBiasNeedsBothTiers(t *testing.T) {
	onlyPublic := []*Box{{ID: "a", Tier: "public"}, {ID: "b"}}
	if got := orderingBias(onlyPublic); got != nil {
		t.Errorf("orderingBias() = %+v, want nil without private siblings", got)
	}
}

func TestCompose(t *testing.T) {
	root := testTree()
	st := newTestState(root)

	// Hand-solved placements: sizes for every box, parent-relative rects
	// for every non-root box.
	st.size[""] = dims{800, 600}
	st.size["vpc-1"] = dims{500, 400}
	st.size["igw-1"] = dims{90, 60}
	st.size["sub-a"] = dims{200, 168}
	st.size["sub-b"] = dims{200, 168}
	st.size["inst-1"] = dims{120, 88}
	st.size["inst-2"] = dims{120, 88}
	st.rel["vpc-1"] = Rect{X: 40, Y: 40}
	st.rel["igw-1"] = Rect{X: 640, Y: 40}
	st.rel["sub-a"] = Rect{X: 40, Y: 40}
	st.rel["sub-b"] = Rect{X: 260, Y: 40}
	st.rel["inst-1"] = Rect{X: 40, Y: 40}
	st.rel["inst-2"] = Rect{X: 40, Y: 40}

	pos := make(Positions)
	st.compose(root, 0, 0, pos)

	tests := []struct {
		id   string
		want Rect
	}{
		{"", Rect{0, 0, 800, 600}},
		{"vpc-1", Rect{40, 40, 500, 400}},
		{"igw-1", Rect{640, 40, 90, 60}},
		{"sub-a", Rect{80, 80, 200, 168}},
		{"inst-1", Rect{120, 120, 120, 88}},
		{"inst-2", Rect{340, 120, 120, 88}},
	}
	for _, tt := range tests {
		got, ok := pos[tt.id]
		if !ok {
			t.Fatalf("compose() missing box %q", tt.id)
		}
		if !rectEq(got, tt.want) {
			t.Errorf("pos[%q] = %+v, want %+v", tt.id, got, tt.want)
		}
	}
}
