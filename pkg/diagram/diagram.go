// Package diagram assembles resources and relationships into the typed
// node/edge graph the layout engine and the diagram surface consume.
//
// The builder synthesizes the container nodes that have no raw-resource
// equivalent (region boxes, the internet pseudo node), deduplicates repeated
// resource ids keeping the first occurrence, resolves the inferencer's
// symbolic endpoint tokens, and drops edges whose endpoints do not exist in
// the built node set. Node order is insertion order of first appearance;
// repeated builds over the same input produce the same graph.
package diagram

import (
	"github.com/cloudweave/cloudweave/pkg/infer"
	"github.com/cloudweave/cloudweave/pkg/resource"
)

// DefaultEdgeShape is the connector style the diagram surface renders.
const DefaultEdgeShape = "smoothstep"

// Point is a position in the parent's local coordinate space. Root nodes
// use the global space.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Node is one diagram element, either a leaf resource or a container box.
type Node struct {
	ID        string        `json:"id" bson:"id"`
	Kind      resource.Kind `json:"kind" bson:"kind"`
	Label     string        `json:"label" bson:"label"`
	ParentID  string        `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	Container bool          `json:"container" bson:"container"`

	// Tier carries the subnet classification for layout ordering and
	// token resolution. Empty for non-subnets.
	Tier string `json:"tier,omitempty" bson:"tier,omitempty"`

	Region string `json:"region,omitempty" bson:"region,omitempty"`

	// Position is parent-relative. The builder leaves it zero; the layout
	// engine assigns it.
	Position Point   `json:"position" bson:"position"`
	Width    float64 `json:"width" bson:"width"`
	Height   float64 `json:"height" bson:"height"`

	// Data holds the provider properties verbatim for display.
	Data map[string]any `json:"data,omitempty" bson:"data,omitempty"`
}

// EdgeStyle is the stroke presentation picked by the edge's category.
type EdgeStyle struct {
	Stroke      string  `json:"stroke" bson:"stroke"`
	StrokeWidth float64 `json:"stroke_width" bson:"stroke_width"`
	DashArray   string  `json:"dash_array,omitempty" bson:"dash_array,omitempty"`
}

// Edge is a directed connection between two node ids.
type Edge struct {
	ID       string         `json:"id" bson:"id"`
	Source   string         `json:"source" bson:"source"`
	Target   string         `json:"target" bson:"target"`
	Category infer.Category `json:"category" bson:"category"`
	Shape    string         `json:"type" bson:"type"`
	Animated bool           `json:"animated" bson:"animated"`
	Style    EdgeStyle      `json:"style" bson:"style"`
}

// Graph is the buildable, layoutable diagram.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// Children returns the direct children of the given parent id, in node
// order. An empty parent id returns the root nodes.
func (g *Graph) Children(parentID string) []*Node {
	var out []*Node
	for i := range g.Nodes {
		if g.Nodes[i].ParentID == parentID {
			out = append(out, &g.Nodes[i])
		}
	}
	return out
}

// Clone copies the graph deeply enough for layout: node and edge slices are
// fresh, so positions and sizes can be overwritten without touching the
// source. Data maps are shared because layout never writes into them.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	copy(c.Nodes, g.Nodes)
	copy(c.Edges, g.Edges)
	return c
}
