package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Write encodes a document as indented JSON and writes it to w.
// The output can be re-imported with [Read] for round-trip processing.
func Write(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportFile writes a document to a JSON file at path.
// This is a convenience wrapper around [Write] for file-based output.
func ExportFile(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(doc, f)
}
