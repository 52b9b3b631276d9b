package io

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cloudweave/cloudweave/pkg/infer"
)

// WriteDOT renders a document's graph in Graphviz DOT form for inspection
// with standard tooling. The output is flat: containment is drawn as dashed
// edges rather than clusters, so relationship edges may reference container
// nodes directly (a load balancer pointing at a subnet, for example).
func WriteDOT(doc *Document, w io.Writer) error {
	var b strings.Builder
	b.WriteString("digraph cloudweave {\n")
	b.WriteString("  rankdir=TB;\n")
	b.WriteString("  node [shape=box, fontname=\"Helvetica\"];\n")
	b.WriteString("\n")

	for _, n := range doc.Nodes {
		// %q turns the literal newline into the \n escape DOT expects.
		label := n.Label
		if n.Kind != "" {
			label = fmt.Sprintf("%s\n(%s)", n.Label, n.Kind)
		}
		if n.Container {
			fmt.Fprintf(&b, "  %q [label=%q, penwidth=2];\n", n.ID, label)
		} else {
			fmt.Fprintf(&b, "  %q [label=%q];\n", n.ID, label)
		}
	}

	b.WriteString("\n")
	for _, n := range doc.Nodes {
		if n.ParentID == "" {
			continue
		}
		fmt.Fprintf(&b, "  %q -> %q [style=dashed, color=gray, arrowhead=none];\n", n.ParentID, n.ID)
	}

	for _, e := range doc.Edges {
		if e.Category == infer.CategoryContainment {
			continue // already drawn from the parent pointers
		}
		fmt.Fprintf(&b, "  %q -> %q [label=%q];\n", e.Source, e.Target, e.Category)
	}

	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// ExportDOTFile writes a document's graph to a DOT file at path.
func ExportDOTFile(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDOT(doc, f)
}
