package layout

import (
	"testing"

	"github.com/cloudweave/cloudweave/pkg/infer"
	"github.com/cloudweave/cloudweave/pkg/layout/layered"
)

func TestBuildBoxTree(t *testing.T) {
	root, edges := buildBoxTree(testGraph())

	if root.ID != "" {
		t.Errorf("root id = %q, want synthetic empty id", root.ID)
	}
	if len(root.Children) != 1 || root.Children[0].ID != "region-us-east-1" {
		t.Fatalf("root children = %+v, want the region", root.Children)
	}

	region := root.Children[0]
	if len(region.Children) != 1 {
		t.Fatalf("region has %d children, want 1", len(region.Children))
	}
	vpc := region.Children[0]
	if len(vpc.Children) != 3 {
		t.Fatalf("vpc has %d children, want 3", len(vpc.Children))
	}

	if vpc.Direction != layered.DirRight {
		t.Errorf("vpc direction = %q, want right", vpc.Direction)
	}
	subnet := vpc.Children[0]
	if subnet.ID != "subnet-a" || subnet.Direction != layered.DirDown {
		t.Errorf("subnet box = %+v, want subnet-a flowing down", subnet)
	}
	if subnet.Tier != "public" {
		t.Errorf("subnet tier = %q, want public", subnet.Tier)
	}
	if len(subnet.Children) != 1 || !subnet.Children[0].Leaf() {
		t.Errorf("subnet children = %+v, want one leaf instance", subnet.Children)
	}

	if len(edges) != 3 {
		t.Fatalf("got %d box edges, want 3", len(edges))
	}
}

func TestCategoryWeight(t *testing.T) {
	tests := []struct {
		category infer.Category
		want     float64
	}{
		{infer.CategoryLoadBalancing, 3},
		{infer.CategoryRouting, 2},
		{infer.CategoryInternet, 2},
		{infer.CategoryDatabase, 2},
		{infer.CategorySecurity, 1},
		{infer.CategoryContainment, 1},
		{infer.CategoryDefault, 1},
	}
	for _, tt := range tests {
		if got := categoryWeight(tt.category); got != tt.want {
			t.Errorf("categoryWeight(%q) = %v, want %v", tt.category, got, tt.want)
		}
	}
}
