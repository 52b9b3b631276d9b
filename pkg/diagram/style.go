package diagram

import (
	"github.com/cloudweave/cloudweave/pkg/infer"
	"github.com/cloudweave/cloudweave/pkg/resource"
)

// categoryStyles maps relationship categories to their stroke presentation.
// Colors follow the node palette: purple for VPC structure, orange for
// compute paths, red for security, magenta for database traffic.
var categoryStyles = map[infer.Category]EdgeStyle{
	infer.CategoryInternet:      {Stroke: "#FF9900", StrokeWidth: 2},
	infer.CategoryLoadBalancing: {Stroke: "#8C4FFF", StrokeWidth: 2},
	infer.CategoryRouting:       {Stroke: "#FFA000", StrokeWidth: 2, DashArray: "4,4"},
	infer.CategoryDatabase:      {Stroke: "#C925D1", StrokeWidth: 1, DashArray: "5,5"},
	infer.CategorySecurity:      {Stroke: "#DD344C", StrokeWidth: 1, DashArray: "5,5"},
	infer.CategoryVPCEndpoint:   {Stroke: "#7AA116", StrokeWidth: 1, DashArray: "4,4"},
}

// containmentStyles differentiate containment edges by the containing side:
// VPC boxes connect to subnets in purple, subnets to their workloads in
// orange.
var containmentStyles = map[resource.Kind]EdgeStyle{
	resource.KindVPC:    {Stroke: "#8C4FFF", StrokeWidth: 2},
	resource.KindSubnet: {Stroke: "#FF9900", StrokeWidth: 2},
}

// defaultEdgeStyle covers the default category and anything unmapped.
var defaultEdgeStyle = EdgeStyle{Stroke: "#999999", StrokeWidth: 1}

// styleFor picks the stroke for an edge from its category and, for
// containment, the kind of the containing node.
func styleFor(category infer.Category, sourceKind resource.Kind) EdgeStyle {
	if category == infer.CategoryContainment {
		if s, ok := containmentStyles[sourceKind]; ok {
			return s
		}
		return defaultEdgeStyle
	}
	if s, ok := categoryStyles[category]; ok {
		return s
	}
	return defaultEdgeStyle
}
