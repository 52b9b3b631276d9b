package infer

import (
	"strings"

	"github.com/cloudweave/cloudweave/pkg/resource"
)

// addTrafficFlow synthesizes the ingress and egress story edges:
//
//	internet -> internet gateway -> load balancer (or public subnet)
//	private subnet -> NAT gateway -> internet gateway
//
// Endpoints the inferencer cannot name concretely stay symbolic tokens;
// the builder resolves each token to the first matching node and silently
// drops any edge whose token matches nothing. Emitting optimistically here
// keeps this pass free of node bookkeeping.
func (r *Result) addTrafficFlow() {
	r.add(TokenInternet, TokenInternetGateway, CategoryInternet)

	balancers := false
	for i := range r.Resources {
		res := &r.Resources[i]

		switch res.Kind {
		case resource.KindLoadBalancer:
			if internetFacing(res) {
				r.add(TokenInternetGateway, res.ID, CategoryInternet)
				balancers = true
			}

		case resource.KindNATGateway:
			r.add(TokenPrivateSubnet, res.ID, CategoryRouting)
			r.add(res.ID, TokenInternetGateway, CategoryRouting)
		}
	}

	// Without a load balancer the ingress path runs straight into the
	// public subnet.
	if !balancers {
		r.add(TokenInternetGateway, TokenPublicSubnet, CategoryInternet)
	}
}

// internetFacing reports whether a load balancer accepts traffic from the
// internet. Balancers that do not declare a scheme are assumed to.
func internetFacing(res *resource.Resource) bool {
	scheme := resource.StringProp(res.Properties, "Scheme", "scheme")
	return scheme == "" || strings.EqualFold(scheme, "internet-facing")
}
