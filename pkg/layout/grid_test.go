package layout

import (
	"fmt"
	"testing"

	"github.com/cloudweave/cloudweave/pkg/diagram"
	"github.com/cloudweave/cloudweave/pkg/resource"
)

func TestApplyGrid(t *testing.T) {
	g := &diagram.Graph{}
	for i := 0; i < 9; i++ {
		g.Nodes = append(g.Nodes, diagram.Node{
			ID:   fmt.Sprintf("n%d", i),
			Kind: resource.KindEC2, Width: 120, Height: 88,
		})
	}
	opts := Options{Strategy: StrategyGrid}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("options: %v", err)
	}

	applyGrid(g, opts)

	// Row-major cells at the default 4-column pitch: node i lands at
	// column i%4, row i/4.
	for i := range g.Nodes {
		wantX := float64(i%4) * DefaultCellWidth
		wantY := float64(i/4) * DefaultCellHeight
		got := g.Nodes[i].Position
		if got.X != wantX || got.Y != wantY {
			t.Errorf("node %d at (%v,%v), want (%v,%v)", i, got.X, got.Y, wantX, wantY)
		}
	}
}

func TestApplyGridIgnoresHierarchy(t *testing.T) {
	// Containment plays no part in cell assignment: a child occupies the
	// cell its node index dictates, measured in its parent's local space.
	g := &diagram.Graph{
		Nodes: []diagram.Node{
			{ID: "vpc-1", Kind: resource.KindVPC, Container: true, Width: 1200, Height: 700},
			{ID: "inst-1", Kind: resource.KindEC2, ParentID: "vpc-1", Width: 120, Height: 88},
			{ID: "inst-2", Kind: resource.KindEC2, ParentID: "vpc-1", Width: 120, Height: 88},
		},
	}
	opts := Options{Strategy: StrategyGrid, Columns: 2, CellWidth: 100, CellHeight: 50}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("options: %v", err)
	}

	applyGrid(g, opts)

	want := []diagram.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 0, Y: 50}}
	for i, w := range want {
		if g.Nodes[i].Position != w {
			t.Errorf("node %d position = %+v, want %+v", i, g.Nodes[i].Position, w)
		}
	}
}
