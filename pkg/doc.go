// Package pkg provides the core libraries for Cloudweave architecture
// diagramming.
//
// # Overview
//
// Cloudweave turns raw cloud inventory exports into positioned architecture
// diagrams. The pkg directory is organized by pipeline stage plus shared
// infrastructure:
//
//  1. [normalize] - Input-shape detection and canonical resource decoding
//  2. [infer] - Containment and relationship inference
//  3. [diagram] - Typed node/edge graph assembly and validation
//  4. [layout] - Position and container-size computation (layered, grid, force)
//  5. [pipeline] - Orchestration and caching of the four stages
//  6. [cache], [errors], [idgen], [io], [observability], [resource] - Shared
//     infrastructure
//
// # Architecture
//
// The typical data flow through Cloudweave:
//
//	Inventory document (one of three accepted shapes)
//	         ↓
//	    [normalize] package (canonical resources)
//	         ↓
//	    [infer] package (parents + relationship edges)
//	         ↓
//	    [diagram] package (typed node/edge graph)
//	         ↓
//	    [layout] package (positions + container sizes)
//	         ↓
//	    Diagram document (JSON, consumed by the canvas surface)
//
// # Quick Start
//
// Build and lay out a diagram from an inventory export:
//
//	import (
//	    "context"
//	    "os"
//	    "github.com/cloudweave/cloudweave/pkg/io"
//	    "github.com/cloudweave/cloudweave/pkg/pipeline"
//	)
//
//	input, _ := os.ReadFile("inventory.json")
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(context.Background(), input, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//
//	doc := io.NewDocument(result.Graph, "prod", string(pipeline.DefaultStrategy))
//	_ = io.ExportFile(doc, "prod.diagram.json")
//
// [normalize]: github.com/cloudweave/cloudweave/pkg/normalize
// [infer]: github.com/cloudweave/cloudweave/pkg/infer
// [diagram]: github.com/cloudweave/cloudweave/pkg/diagram
// [layout]: github.com/cloudweave/cloudweave/pkg/layout
// [pipeline]: github.com/cloudweave/cloudweave/pkg/pipeline
package pkg
