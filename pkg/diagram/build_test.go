package diagram

import (
	"encoding/json"
	"testing"

	"github.com/cloudweave/cloudweave/pkg/errors"
	"github.com/cloudweave/cloudweave/pkg/infer"
	"github.com/cloudweave/cloudweave/pkg/resource"
)

func mk(kind resource.Kind, sourceID string, props map[string]any) resource.Resource {
	if props == nil {
		props = map[string]any{}
	}
	return resource.Resource{
		ID:         resource.SpecFor(kind).IDPrefix + "-" + sourceID,
		SourceID:   sourceID,
		Kind:       kind,
		Name:       sourceID,
		Region:     "us-east-1",
		Properties: props,
	}
}

// buildFixture infers and builds a small two-subnet VPC.
func buildFixture(t *testing.T) (*Graph, []errors.Warning) {
	t.Helper()
	resources := []resource.Resource{
		mk(resource.KindVPC, "vpc-1", nil),
		mk(resource.KindSubnet, "subnet-pub", map[string]any{"VpcId": "vpc-1", "MapPublicIpOnLaunch": true}),
		mk(resource.KindSubnet, "subnet-priv", map[string]any{"VpcId": "vpc-1", "MapPublicIpOnLaunch": false}),
		mk(resource.KindEC2, "i-1", map[string]any{
			"SubnetId":       "subnet-pub",
			"SecurityGroups": []any{map[string]any{"GroupId": "sg-1"}},
		}),
		mk(resource.KindRDS, "db-1", map[string]any{"SubnetId": "subnet-priv"}),
		mk(resource.KindSecurityGroup, "sg-1", map[string]any{"VpcId": "vpc-1"}),
	}
	res := infer.Infer(resources)
	return Build(res.Resources, res.Relationships)
}

func findEdge(g *Graph, source, target string) *Edge {
	for i := range g.Edges {
		if g.Edges[i].Source == source && g.Edges[i].Target == target {
			return &g.Edges[i]
		}
	}
	return nil
}

func TestBuildContainers(t *testing.T) {
	g, warnings := buildFixture(t)

	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	region := g.Node("region-us-east-1")
	if region == nil || !region.Container {
		t.Fatalf("region container = %+v, want synthesized container", region)
	}
	if g.Nodes[0].ID != "region-us-east-1" {
		t.Errorf("first node = %q, want the region container", g.Nodes[0].ID)
	}

	vpc := g.Node("vpc-vpc-1")
	if vpc == nil || !vpc.Container || vpc.ParentID != "region-us-east-1" {
		t.Fatalf("vpc node = %+v", vpc)
	}
	if vpc.Width != 1200 || vpc.Height != 700 {
		t.Errorf("vpc default size = %gx%g, want 1200x700", vpc.Width, vpc.Height)
	}

	sub := g.Node("subnet-subnet-pub")
	if sub == nil || sub.Tier != infer.TierPublic || sub.ParentID != "vpc-vpc-1" {
		t.Fatalf("public subnet node = %+v", sub)
	}

	inst := g.Node("instance-i-1")
	if inst == nil || inst.Container || inst.ParentID != "subnet-subnet-pub" {
		t.Fatalf("instance node = %+v", inst)
	}
	if inst.Width != 120 || inst.Height != 88 {
		t.Errorf("leaf default size = %gx%g, want 120x88", inst.Width, inst.Height)
	}
}

func TestBuildEdges(t *testing.T) {
	g, _ := buildFixture(t)

	if e := findEdge(g, "vpc-vpc-1", "subnet-subnet-pub"); e == nil {
		t.Error("missing vpc to public subnet containment edge")
	} else {
		if e.Style.Stroke != "#8C4FFF" || e.Style.StrokeWidth != 2 {
			t.Errorf("vpc containment style = %+v", e.Style)
		}
		if !e.Animated || e.Shape != DefaultEdgeShape {
			t.Errorf("edge presentation = %+v", e)
		}
	}
	if e := findEdge(g, "subnet-subnet-priv", "rds-db-1"); e == nil {
		t.Error("missing private subnet to database containment edge")
	} else if e.Style.Stroke != "#FF9900" {
		t.Errorf("subnet containment stroke = %q, want #FF9900", e.Style.Stroke)
	}
	if e := findEdge(g, "sg-sg-1", "instance-i-1"); e == nil {
		t.Error("missing security edge")
	} else {
		if e.Category != infer.CategorySecurity {
			t.Errorf("category = %q, want security", e.Category)
		}
		if e.Style.DashArray != "5,5" || e.Style.StrokeWidth != 1 {
			t.Errorf("security style = %+v", e.Style)
		}
	}
	if e := findEdge(g, "region-us-east-1", "vpc-vpc-1"); e != nil {
		t.Errorf("unexpected region containment edge %+v", e)
	}
}

func TestBuildDeduplicates(t *testing.T) {
	first := mk(resource.KindVPC, "vpc-1", nil)
	first.Name = "first"
	dup := mk(resource.KindVPC, "vpc-1", nil)
	dup.Name = "second"
	dup.Region = "eu-west-1"

	res := infer.Infer([]resource.Resource{first, dup})
	g, _ := Build(res.Resources, res.Relationships)

	var vpcs []*Node
	for i := range g.Nodes {
		if g.Nodes[i].Kind == resource.KindVPC {
			vpcs = append(vpcs, &g.Nodes[i])
		}
	}
	if len(vpcs) != 1 {
		t.Fatalf("vpc nodes = %d, want 1", len(vpcs))
	}
	if vpcs[0].Label != "first" {
		t.Errorf("kept label = %q, want the first occurrence", vpcs[0].Label)
	}
}

func TestBuildDanglingEdge(t *testing.T) {
	resources := []resource.Resource{mk(resource.KindVPC, "vpc-1", nil)}
	res := infer.Infer(resources)
	rels := append(res.Relationships, infer.Relationship{
		Source:   "vpc-vpc-1",
		Target:   "instance-gone",
		Category: infer.CategoryDefault,
	})

	g, warnings := Build(res.Resources, rels)

	if e := findEdge(g, "vpc-vpc-1", "instance-gone"); e != nil {
		t.Errorf("dangling edge survived: %+v", e)
	}
	var dangling int
	for _, w := range warnings {
		if w.Kind == errors.WarnDanglingEdge {
			dangling++
		}
	}
	if dangling != 1 {
		t.Errorf("dangling warnings = %d, want 1", dangling)
	}
}

func TestBuildTokenResolution(t *testing.T) {
	t.Run("internet synthesized when gateway exists", func(t *testing.T) {
		resources := []resource.Resource{
			mk(resource.KindVPC, "vpc-1", nil),
			mk(resource.KindInternetGateway, "igw-1", map[string]any{
				"Attachments": []any{map[string]any{"VpcId": "vpc-1"}},
			}),
		}
		res := infer.Infer(resources)
		g, warnings := Build(res.Resources, res.Relationships)

		inet := g.Node("internet")
		if inet == nil || inet.Kind != resource.KindInternet || inet.ParentID != "" {
			t.Fatalf("internet node = %+v", inet)
		}
		if e := findEdge(g, "internet", "igw-igw-1"); e == nil {
			t.Error("missing internet ingress edge")
		} else if e.Category != infer.CategoryInternet {
			t.Errorf("category = %q, want internet", e.Category)
		}
		for _, w := range warnings {
			if w.Kind == errors.WarnDanglingEdge {
				t.Errorf("unexpected dangling warning %v", w)
			}
		}
	})

	t.Run("no gateway drops edge silently without synthesis", func(t *testing.T) {
		resources := []resource.Resource{mk(resource.KindVPC, "vpc-1", nil)}
		res := infer.Infer(resources)
		g, warnings := Build(res.Resources, res.Relationships)

		if n := g.Node("internet"); n != nil {
			t.Errorf("internet node synthesized with nothing to connect: %+v", n)
		}
		if len(warnings) != 0 {
			t.Errorf("token drops must be silent, got %v", warnings)
		}
	})
}

// TestBuildUnknownResource checks the unknown-type path end to end: one
// generic node, no edges beyond it.
func TestBuildUnknownResource(t *testing.T) {
	generic := resource.Resource{
		ID:       "generic-qw-1",
		SourceID: "qw-1",
		Kind:     resource.KindGeneric,
		Name:     "qw-1",
	}
	res := infer.Infer([]resource.Resource{generic})
	g, _ := Build(res.Resources, res.Relationships)

	if len(g.Nodes) != 1 {
		t.Fatalf("len(Nodes) = %d, want exactly the generic node", len(g.Nodes))
	}
	if g.Nodes[0].Kind != resource.KindGeneric {
		t.Errorf("kind = %v, want generic", g.Nodes[0].Kind)
	}
	if len(g.Edges) != 0 {
		t.Errorf("len(Edges) = %d, want 0", len(g.Edges))
	}
}

func TestBuildParentFallback(t *testing.T) {
	orphan := mk(resource.KindEC2, "i-1", nil)
	orphan.ParentID = "subnet-not-imported"

	g, _ := Build([]resource.Resource{orphan}, nil)

	n := g.Node("instance-i-1")
	if n == nil {
		t.Fatal("instance node missing")
	}
	if n.ParentID != "region-us-east-1" {
		t.Errorf("ParentID = %q, want fallback to the region container", n.ParentID)
	}
}

func TestValidate(t *testing.T) {
	valid, _ := buildFixture(t)

	tests := []struct {
		name    string
		mutate  func(*Graph)
		wantErr bool
	}{
		{
			name:   "built graph passes",
			mutate: func(*Graph) {},
		},
		{
			name: "duplicate node id",
			mutate: func(g *Graph) {
				g.Nodes = append(g.Nodes, g.Nodes[0])
			},
			wantErr: true,
		},
		{
			name: "missing parent",
			mutate: func(g *Graph) {
				g.Nodes[1].ParentID = "nope"
			},
			wantErr: true,
		},
		{
			name: "containment cycle",
			mutate: func(g *Graph) {
				g.Nodes[0].ParentID = g.Nodes[1].ID
				g.Nodes[1].ParentID = g.Nodes[0].ID
			},
			wantErr: true,
		},
		{
			name: "edge endpoint missing",
			mutate: func(g *Graph) {
				g.Edges[0].Target = "nope"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := valid.Clone()
			tt.mutate(g)
			err := Validate(g)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidGraph) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidGraph)
			}
		})
	}
}

func TestValidateDocument(t *testing.T) {
	g, _ := buildFixture(t)
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if err := ValidateDocument(data); err != nil {
		t.Errorf("ValidateDocument() on built graph = %v", err)
	}

	bad := []byte(`{"nodes": [{"kind": "vpc"}], "edges": []}`)
	if err := ValidateDocument(bad); err == nil {
		t.Error("ValidateDocument() accepted a node without id")
	} else if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidFormat)
	}
}
