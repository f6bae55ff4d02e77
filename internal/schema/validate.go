// Package schema validates structure records against the embedded output
// JSON Schema.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed outline.schema.json
var outlineSchema []byte

const schemaName = "outline.schema.json"

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var (
	compileOnce sync.Once
	compiled    *gojsonschema.Schema
	compileErr  error
)

// outline compiles the embedded schema once. The raw bytes are only read.
func outline() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(outlineSchema))
		if compileErr != nil {
			compileErr = &SchemaLoadError{Path: schemaName, Message: "invalid embedded schema", Cause: compileErr}
		}
	})
	return compiled, compileErr
}

// Document returns a copy of the embedded schema.
func Document() []byte {
	out := make([]byte, len(outlineSchema))
	copy(out, outlineSchema)
	return out
}

// ValidateBytes checks JSON content against the output schema.
func ValidateBytes(data []byte) error {
	s, err := outline()
	if err != nil {
		return err
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

// ValidateStructure checks the JSON form of s.
func ValidateStructure(s doctree.Structure) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal structure: %w", err)
	}
	return ValidateBytes(data)
}

// ValidateFile checks a result file on disk.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return ValidateBytes(data)
}
