package infer

import (
	"testing"

	"github.com/cloudweave/cloudweave/pkg/resource"
)

// mk builds a resource the way the normalizer would, with the id derived
// from the kind prefix and the provider id.
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

func findRel(rels []Relationship, source, target string) *Relationship {
	for i := range rels {
		if rels[i].Source == source && rels[i].Target == target {
			return &rels[i]
		}
	}
	return nil
}

func TestAssignParents(t *testing.T) {
	resources := []resource.Resource{
		mk(resource.KindVPC, "vpc-1", nil),
		mk(resource.KindSubnet, "subnet-1", map[string]any{"VpcId": "vpc-1"}),
		mk(resource.KindEC2, "i-1", map[string]any{"SubnetId": "subnet-1", "VpcId": "vpc-1"}),
		mk(resource.KindEC2, "i-2", map[string]any{"VpcId": "vpc-1"}),
		mk(resource.KindEC2, "i-3", nil),
		mk(resource.KindEC2, "i-4", map[string]any{"parentId": "subnet-1"}),
		mk(resource.KindRDS, "db-1", map[string]any{
			"DBSubnetGroup": map[string]any{
				"VpcId":   "vpc-1",
				"Subnets": []any{map[string]any{"SubnetIdentifier": "subnet-1"}},
			},
		}),
		mk(resource.KindInternetGateway, "igw-1", map[string]any{
			"Attachments": []any{map[string]any{"VpcId": "vpc-1", "State": "available"}},
		}),
		mk(resource.KindSecurityGroup, "sg-1", map[string]any{"VpcId": "vpc-1"}),
		mk(resource.KindSubnet, "subnet-9", map[string]any{"VpcId": "vpc-gone"}),
		mk(resource.KindS3, "bucket", nil),
	}

	res := Infer(resources)

	want := map[string]string{
		"vpc-vpc-1":       "region-us-east-1",
		"subnet-subnet-1": "vpc-vpc-1",
		"instance-i-1":    "subnet-subnet-1",
		"instance-i-2":    "vpc-vpc-1",
		"instance-i-3":    "region-us-east-1",
		"instance-i-4":    "subnet-subnet-1",
		"rds-db-1":        "subnet-subnet-1",
		"igw-igw-1":       "vpc-vpc-1",
		"sg-sg-1":         "vpc-vpc-1",
		"subnet-subnet-9": "region-us-east-1",
		"s3-bucket":       "region-us-east-1",
	}

	for _, got := range res.Resources {
		if got.ParentID != want[got.ID] {
			t.Errorf("%s ParentID = %q, want %q", got.ID, got.ParentID, want[got.ID])
		}
	}
}

func TestInferDoesNotMutateInput(t *testing.T) {
	resources := []resource.Resource{
		mk(resource.KindSubnet, "subnet-1", map[string]any{"VpcId": "vpc-1", "MapPublicIpOnLaunch": true}),
	}

	Infer(resources)

	if resources[0].ParentID != "" {
		t.Errorf("input ParentID mutated to %q", resources[0].ParentID)
	}
	if resources[0].Tier != "" {
		t.Errorf("input Tier mutated to %q", resources[0].Tier)
	}
}

func TestSubnetTiers(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]any
		label string
		want  string
	}{
		{
			name: "Type tag wins over MapPublicIpOnLaunch",
			props: map[string]any{
				"Tags":                []any{map[string]any{"Key": "Type", "Value": "private"}},
				"MapPublicIpOnLaunch": true,
			},
			want: TierPrivate,
		},
		{
			name:  "MapPublicIpOnLaunch true",
			props: map[string]any{"MapPublicIpOnLaunch": true},
			want:  TierPublic,
		},
		{
			name:  "MapPublicIpOnLaunch false",
			props: map[string]any{"MapPublicIpOnLaunch": false},
			want:  TierPrivate,
		},
		{
			name:  "name substring",
			label: "app-public-a",
			want:  TierPublic,
		},
		{
			name:  "private name substring",
			label: "db-private-b",
			want:  TierPrivate,
		},
		{
			name: "undefined stays empty",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := mk(resource.KindSubnet, "subnet-1", tt.props)
			if tt.label != "" {
				sub.Name = tt.label
			}
			res := Infer([]resource.Resource{sub})
			if got := res.Resources[0].Tier; got != tt.want {
				t.Errorf("Tier = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRouteTableClassification(t *testing.T) {
	igwRoute := map[string]any{"Routes": []any{
		map[string]any{"DestinationCidrBlock": "0.0.0.0/0", "GatewayId": "igw-1"},
	}}
	natRoute := map[string]any{"Routes": []any{
		map[string]any{"DestinationCidrBlock": "0.0.0.0/0", "NatGatewayId": "nat-1"},
	}}

	if got := classifyRouteTable(igwRoute); got != TierPublic {
		t.Errorf("igw route class = %q, want %q", got, TierPublic)
	}
	if got := classifyRouteTable(natRoute); got != TierPrivate {
		t.Errorf("nat route class = %q, want %q", got, TierPrivate)
	}
	if got := classifyRouteTable(map[string]any{}); got != "" {
		t.Errorf("empty route table class = %q, want empty", got)
	}
}

// TestRouteTableRepresentatives checks that only the first public and
// first private table per VPC contribute edges, even when more exist.
func TestRouteTableRepresentatives(t *testing.T) {
	rtProps := func(gatewayID, subnetID string) map[string]any {
		return map[string]any{
			"VpcId":        "vpc-1",
			"Routes":       []any{map[string]any{"GatewayId": gatewayID}},
			"Associations": []any{map[string]any{"SubnetId": subnetID}},
		}
	}

	resources := []resource.Resource{
		mk(resource.KindVPC, "vpc-1", nil),
		mk(resource.KindSubnet, "subnet-a", map[string]any{"VpcId": "vpc-1"}),
		mk(resource.KindSubnet, "subnet-b", map[string]any{"VpcId": "vpc-1"}),
		mk(resource.KindRouteTable, "rtb-1", rtProps("igw-1", "subnet-a")),
		mk(resource.KindRouteTable, "rtb-2", rtProps("igw-1", "subnet-b")),
	}

	res := Infer(resources)

	if rel := findRel(res.Relationships, "rt-rtb-1", "subnet-subnet-a"); rel == nil {
		t.Error("missing edge from first public route table")
	} else if rel.Category != CategoryRouting {
		t.Errorf("category = %q, want %q", rel.Category, CategoryRouting)
	}
	if rel := findRel(res.Relationships, "rt-rtb-2", "subnet-subnet-b"); rel != nil {
		t.Error("second public route table should not contribute edges")
	}
}

func TestContainmentEdges(t *testing.T) {
	resources := []resource.Resource{
		mk(resource.KindVPC, "vpc-1", nil),
		mk(resource.KindSubnet, "subnet-1", map[string]any{"VpcId": "vpc-1"}),
		mk(resource.KindEC2, "i-1", map[string]any{"SubnetId": "subnet-1"}),
		mk(resource.KindSecurityGroup, "sg-1", map[string]any{"VpcId": "vpc-1"}),
	}

	res := Infer(resources)

	if rel := findRel(res.Relationships, "vpc-vpc-1", "subnet-subnet-1"); rel == nil || rel.Category != CategoryContainment {
		t.Errorf("vpc to subnet containment edge = %+v", rel)
	}
	if rel := findRel(res.Relationships, "subnet-subnet-1", "instance-i-1"); rel == nil || rel.Category != CategoryContainment {
		t.Errorf("subnet to instance containment edge = %+v", rel)
	}
	// Security groups nest in the VPC without a containment edge.
	if rel := findRel(res.Relationships, "vpc-vpc-1", "sg-sg-1"); rel != nil {
		t.Errorf("unexpected containment edge to security group: %+v", rel)
	}
}

func TestSecurityGroupAssociations(t *testing.T) {
	resources := []resource.Resource{
		mk(resource.KindSecurityGroup, "sg-1", map[string]any{"VpcId": "vpc-1"}),
		mk(resource.KindEC2, "i-1", map[string]any{
			"SecurityGroups": []any{map[string]any{"GroupId": "sg-1", "GroupName": "web"}},
		}),
		mk(resource.KindEC2, "i-2", map[string]any{
			"SecurityGroups": []any{map[string]any{"GroupId": "sg-missing"}},
		}),
		mk(resource.KindLoadBalancer, "alb-1", map[string]any{
			"LoadBalancerArn": "arn:alb-1",
			"SecurityGroups":  []any{"sg-1"},
		}),
	}

	res := Infer(resources)

	if rel := findRel(res.Relationships, "sg-sg-1", "instance-i-1"); rel == nil || rel.Category != CategorySecurity {
		t.Errorf("security group to instance edge = %+v", rel)
	}
	if rel := findRel(res.Relationships, "sg-sg-1", "alb-alb-1"); rel == nil {
		t.Error("missing security edge from plain string group list")
	}
	for _, rel := range res.Relationships {
		if rel.Target == "instance-i-2" && rel.Category == CategorySecurity {
			t.Errorf("dangling group reference produced edge %+v", rel)
		}
	}
}

func TestLoadBalancerChain(t *testing.T) {
	resources := []resource.Resource{
		mk(resource.KindLoadBalancer, "alb-1", map[string]any{"LoadBalancerArn": "arn:alb-1"}),
		mk(resource.KindTargetGroup, "tg-1", map[string]any{
			"TargetGroupArn":   "arn:tg-1",
			"LoadBalancerArns": []any{"arn:alb-1"},
			"TargetHealthDescriptions": []any{
				map[string]any{"Target": map[string]any{"Id": "i-1"}},
			},
		}),
		mk(resource.KindEC2, "i-1", nil),
	}
	// Index matches on provider ids, so register the ARNs as source ids.
	resources[0].SourceID = "arn:alb-1"
	resources[1].SourceID = "arn:tg-1"

	res := Infer(resources)

	if rel := findRel(res.Relationships, "alb-alb-1", "tg-tg-1"); rel == nil || rel.Category != CategoryLoadBalancing {
		t.Errorf("load balancer to target group edge = %+v", rel)
	}
	if rel := findRel(res.Relationships, "tg-tg-1", "instance-i-1"); rel == nil || rel.Category != CategoryLoadBalancing {
		t.Errorf("target group to instance edge = %+v", rel)
	}
}

func TestEndpointService(t *testing.T) {
	t.Run("resolves to existing bucket", func(t *testing.T) {
		resources := []resource.Resource{
			mk(resource.KindVPCEndpoint, "vpce-1", map[string]any{"ServiceName": "com.amazonaws.us-east-1.s3"}),
			mk(resource.KindS3, "assets", nil),
		}
		res := Infer(resources)
		if rel := findRel(res.Relationships, "vpce-vpce-1", "s3-assets"); rel == nil || rel.Category != CategoryVPCEndpoint {
			t.Errorf("endpoint to bucket edge = %+v", rel)
		}
	})

	t.Run("falls back to service token", func(t *testing.T) {
		resources := []resource.Resource{
			mk(resource.KindVPCEndpoint, "vpce-1", map[string]any{"ServiceName": "com.amazonaws.us-east-1.execute-api"}),
		}
		res := Infer(resources)
		if rel := findRel(res.Relationships, "vpce-vpce-1", TokenAPIGatewayService); rel == nil {
			t.Error("missing endpoint edge to api gateway token")
		}
	})
}

func TestTrafficFlow(t *testing.T) {
	t.Run("gateway and nat story", func(t *testing.T) {
		resources := []resource.Resource{
			mk(resource.KindNATGateway, "nat-1", map[string]any{"VpcId": "vpc-1"}),
		}
		res := Infer(resources)

		if rel := findRel(res.Relationships, TokenInternet, TokenInternetGateway); rel == nil || rel.Category != CategoryInternet {
			t.Errorf("internet ingress edge = %+v", rel)
		}
		if rel := findRel(res.Relationships, TokenPrivateSubnet, "nat-nat-1"); rel == nil || rel.Category != CategoryRouting {
			t.Errorf("private subnet to nat edge = %+v", rel)
		}
		if rel := findRel(res.Relationships, "nat-nat-1", TokenInternetGateway); rel == nil {
			t.Error("missing nat to gateway edge")
		}
	})

	t.Run("load balancer replaces public subnet ingress", func(t *testing.T) {
		resources := []resource.Resource{
			mk(resource.KindLoadBalancer, "alb-1", map[string]any{"Scheme": "internet-facing"}),
		}
		res := Infer(resources)

		if rel := findRel(res.Relationships, TokenInternetGateway, "alb-alb-1"); rel == nil {
			t.Error("missing gateway to load balancer edge")
		}
		if rel := findRel(res.Relationships, TokenInternetGateway, TokenPublicSubnet); rel != nil {
			t.Error("public subnet ingress should be skipped when a balancer exists")
		}
	})

	t.Run("internal balancer keeps subnet ingress", func(t *testing.T) {
		resources := []resource.Resource{
			mk(resource.KindLoadBalancer, "alb-1", map[string]any{"Scheme": "internal"}),
		}
		res := Infer(resources)

		if rel := findRel(res.Relationships, TokenInternetGateway, "alb-alb-1"); rel != nil {
			t.Error("internal balancer should not receive internet traffic")
		}
		if rel := findRel(res.Relationships, TokenInternetGateway, TokenPublicSubnet); rel == nil {
			t.Error("missing public subnet ingress fallback")
		}
	})
}

func TestCollectStrings(t *testing.T) {
	props := map[string]any{
		"SecurityGroups": []any{
			map[string]any{"GroupId": "sg-1"},
			map[string]any{"GroupId": "sg-2"},
		},
		"Plain": []any{"a", "b"},
		"Nested": map[string]any{
			"Inner": []any{map[string]any{"Id": "x"}},
		},
	}

	tests := []struct {
		name string
		path []string
		want []string
	}{
		{"through object array", []string{"SecurityGroups", "GroupId"}, []string{"sg-1", "sg-2"}},
		{"plain string array", []string{"Plain"}, []string{"a", "b"}},
		{"nested path", []string{"Nested", "Inner", "Id"}, []string{"x"}},
		{"missing key", []string{"Nope"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collectStrings(props, tt.path...)
			if len(got) != len(tt.want) {
				t.Fatalf("collectStrings() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("collectStrings()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
