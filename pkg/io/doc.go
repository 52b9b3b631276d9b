// Package io provides JSON import and export for diagram documents.
//
// # Overview
//
// A diagram document is the serialized form of a laid-out diagram: the node
// and edge collections plus a small envelope (format version, optional
// name, creation time, the layout strategy that produced the positions).
// The format is designed for:
//
//   - Handing diagrams to the rendering surface and re-importing its edits
//   - Re-layout workflows: export, change the strategy, lay out again
//   - Caching of built graphs for faster re-layout
//   - Round-trip preservation: import, transform, export, re-import identically
//
// # JSON Format
//
// The graph is embedded at the top level, so a document is also a valid
// bare graph for consumers that only know nodes and edges:
//
//	{
//	  "version": 1,
//	  "name": "prod-us-east",
//	  "created_at": "2024-09-12T08:30:00Z",
//	  "strategy": "layered",
//	  "nodes": [
//	    {"id": "vpc-vpc-1", "kind": "VPC", "label": "main", "container": true,
//	     "position": {"x": 40, "y": 40}, "width": 1200, "height": 700}
//	  ],
//	  "edges": []
//	}
//
// The envelope fields are optional on import; a bare {"nodes": [], "edges": []}
// object decodes as a version-0 document.
//
// # Import
//
// Use [ImportFile] to read a document from a file path, or [Read] to read
// from any io.Reader:
//
//	doc, err := io.ImportFile("diagram.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Import validates twice: first against the embedded JSON schema (field
// types, required properties), then structurally (duplicate ids, unknown
// parents, containment cycles, dangling edges). Both report coded errors
// that map to a 400 on the HTTP surface.
//
// # Export
//
// Use [ExportFile] to write a document to a file, or [Write] to write to
// any io.Writer. Output is indented for hand inspection and diff-friendly
// version control.
package io
