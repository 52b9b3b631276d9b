package infer

import (
	"strings"

	"github.com/cloudweave/cloudweave/pkg/resource"
)

// addRouteTableEdges classifies route tables and connects the
// representative ones to their associated subnets.
//
// A route table is public when any route targets an internet gateway and
// private when any route targets a NAT gateway. Each VPC keeps at most one
// representative of each class, chosen by first match in input order; extra
// route tables of the same class still render as nodes but contribute no
// edges. Keeping a single representative per class is intentional, it keeps
// the routing picture readable on VPCs with many near-identical tables.
func (r *Result) addRouteTableEdges(idx map[string]int) {
	type reps struct {
		public  int
		private int
	}
	byVPC := make(map[string]*reps)

	vpcOf := func(res *resource.Resource) string {
		return resource.StringProp(res.Properties, "VpcId", "vpc_id")
	}

	for i := range r.Resources {
		res := &r.Resources[i]
		if res.Kind != resource.KindRouteTable {
			continue
		}

		vpc := vpcOf(res)
		rep, ok := byVPC[vpc]
		if !ok {
			rep = &reps{public: -1, private: -1}
			byVPC[vpc] = rep
		}

		switch classifyRouteTable(res.Properties) {
		case TierPublic:
			if rep.public < 0 {
				rep.public = i
			}
		case TierPrivate:
			if rep.private < 0 {
				rep.private = i
			}
		}
	}

	// Connect representatives in input order so edge output is stable.
	representative := make(map[int]bool)
	for _, rep := range byVPC {
		if rep.public >= 0 {
			representative[rep.public] = true
		}
		if rep.private >= 0 {
			representative[rep.private] = true
		}
	}
	for i := range r.Resources {
		if representative[i] {
			r.connectRouteTable(&r.Resources[i], idx)
		}
	}
}

// connectRouteTable emits routing edges from a route table to every subnet
// its associations name.
func (r *Result) connectRouteTable(rt *resource.Resource, idx map[string]int) {
	for _, el := range resource.SliceProp(rt.Properties, "Associations") {
		assoc, ok := el.(map[string]any)
		if !ok {
			continue
		}
		subnetRef := resource.StringProp(assoc, "SubnetId", "subnet_id")
		if subnetRef == "" {
			continue
		}
		if i, ok := idx[subnetRef]; ok && r.Resources[i].Kind == resource.KindSubnet {
			r.add(rt.ID, r.Resources[i].ID, CategoryRouting)
		}
	}
}

// classifyRouteTable inspects the Routes list. Public beats private when a
// table somehow carries both an internet gateway and a NAT route.
func classifyRouteTable(props map[string]any) string {
	private := false
	for _, el := range resource.SliceProp(props, "Routes") {
		route, ok := el.(map[string]any)
		if !ok {
			continue
		}
		if gw := resource.StringProp(route, "GatewayId", "gateway_id"); strings.HasPrefix(gw, "igw-") {
			return TierPublic
		}
		if nat := resource.StringProp(route, "NatGatewayId", "nat_gateway_id"); nat != "" {
			private = true
		}
	}
	if private {
		return TierPrivate
	}
	return ""
}
