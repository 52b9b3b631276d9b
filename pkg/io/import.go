package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cloudweave/cloudweave/pkg/diagram"
	"github.com/cloudweave/cloudweave/pkg/errors"
)

// Decode parses and validates a diagram document. Validation runs in two
// passes: the embedded JSON schema catches shape defects (wrong types,
// missing required fields), then [diagram.Validate] catches structural ones
// (duplicate ids, unknown parents, containment cycles, dangling edges).
func Decode(data []byte) (*Document, error) {
	if err := diagram.ValidateDocument(data); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode diagram document")
	}
	if doc.Version > DocumentVersion {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"document version %d is newer than supported version %d", doc.Version, DocumentVersion)
	}
	if err := diagram.Validate(&doc.Graph); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Read decodes a diagram document from r. Read does not close r.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Decode(data)
}

// ImportFile reads a diagram document from a JSON file at path.
//
// ImportFile opens the file, decodes it using [Read], and closes the file.
// It returns the same validation errors as [Decode] for malformed
// documents, wrapped with the file path for context.
func ImportFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
