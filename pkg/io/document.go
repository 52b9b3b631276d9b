package io

import (
	"time"

	"github.com/cloudweave/cloudweave/pkg/diagram"
)

// DocumentVersion is the current document format version. Readers accept
// documents up to this version and reject newer ones.
const DocumentVersion = 1

// Document is a diagram serialized for files and HTTP responses. The graph
// embeds at the top level so a document doubles as a bare node/edge object.
type Document struct {
	Version   int       `json:"version" bson:"version"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	Strategy  string    `json:"strategy,omitempty" bson:"strategy,omitempty"`

	diagram.Graph `bson:",inline"`
}

// NewDocument wraps a graph in a current-version envelope. The creation
// time is truncated to UTC wall time so documents round-trip exactly.
func NewDocument(g *diagram.Graph, name, strategy string) *Document {
	return &Document{
		Version:   DocumentVersion,
		Name:      name,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Strategy:  strategy,
		Graph:     *g,
	}
}
