package backend

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "https://todo.local/schema/tasks.json"

const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "tasks"],
  "additionalProperties": false,
  "properties": {
    "version": {"const": 1},
    "tasks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "completed", "priority"],
        "properties": {
          "id": {"type": "string"},
          "name": {"type": "string"},
          "completed": {"type": "boolean"},
          "priority": {"type": "string"}
        }
      }
    }
  }
}`

// DocumentError describes a schema violation in a persisted document.
type DocumentError struct {
	Path    string // slash-separated location, e.g. /tasks/0/name
	Message string
}

func (e *DocumentError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invalid task document at %s: %s", e.Path, e.Message)
	}
	return "invalid task document: " + e.Message
}

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(documentSchema)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
})

// validateDocument checks a decoded JSON value against the document schema.
func validateDocument(raw interface{}) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(raw); err != nil {
		return toDocumentError(err)
	}
	return nil
}

func toDocumentError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &DocumentError{Message: err.Error()}
	}
	if leaf := firstLeaf(ve); leaf != nil {
		return &DocumentError{Path: leaf.InstanceLocation, Message: leaf.Message}
	}
	return &DocumentError{Message: ve.Message}
}

// firstLeaf returns the deepest first cause, which names the offending field.
func firstLeaf(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}
