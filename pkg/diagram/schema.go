package diagram

import (
	_ "embed"
	"sync"

	"github.com/kaptinlin/jsonschema"

	"github.com/cloudweave/cloudweave/pkg/errors"
)

//go:embed diagram.schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		schema, schemaErr = compiler.Compile(schemaJSON)
	})
	return schema, schemaErr
}

// ValidateDocument checks a serialized graph against the embedded document
// schema. Import paths call this before decoding so a hand-edited document
// fails with the schema violation instead of decoding into a half-empty
// graph.
func ValidateDocument(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "compile diagram schema")
	}
	result := s.ValidateJSON(data)
	if !result.IsValid() {
		return errors.New(errors.ErrCodeInvalidFormat,
			"diagram document failed schema validation: %v", result.Errors)
	}
	return nil
}
