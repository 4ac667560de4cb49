// Package backend defines the persistence interface for the task list and
// the document format shared by the file and Redis backends.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"todo/internal/task"
)

// DocumentVersion is the current version of the persisted document.
const DocumentVersion = 1

// ErrNotExist is returned by Load when nothing has been persisted yet.
// The store treats it as an empty list.
var ErrNotExist = errors.New("storage does not exist")

// Backend persists the whole ordered task sequence.
// Save fully replaces previously saved content.
type Backend interface {
	// Load returns the persisted sequence in order.
	// Returns ErrNotExist if nothing was saved before.
	Load(ctx context.Context) ([]task.Task, error)

	// Save overwrites the persisted sequence with tasks.
	Save(ctx context.Context, tasks []task.Task) error

	// Close releases connections or handles held by the backend.
	Close() error
}

// Document is the serialized form of the task list.
type Document struct {
	Version int         `json:"version" yaml:"version"`
	Tasks   []task.Task `json:"tasks" yaml:"tasks"`
}

func newDocument(tasks []task.Task) Document {
	if tasks == nil {
		tasks = []task.Task{}
	}
	return Document{Version: DocumentVersion, Tasks: tasks}
}

// EncodeJSON serializes tasks as an indented JSON document with a trailing newline.
func EncodeJSON(tasks []task.Task) ([]byte, error) {
	data, err := json.MarshalIndent(newDocument(tasks), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal task document: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeJSON validates data against the document schema and returns its tasks.
func DecodeJSON(data []byte) ([]task.Task, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse task document: %w", err)
	}
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse task document: %w", err)
	}
	if doc.Tasks == nil {
		doc.Tasks = []task.Task{}
	}
	return doc.Tasks, nil
}

// EncodeYAML serializes tasks as a YAML document.
func EncodeYAML(tasks []task.Task) ([]byte, error) {
	data, err := yaml.Marshal(newDocument(tasks))
	if err != nil {
		return nil, fmt.Errorf("marshal task document: %w", err)
	}
	return data, nil
}

// DecodeYAML parses a YAML document. It is converted to JSON first so both
// formats go through the same schema validation.
func DecodeYAML(data []byte) ([]task.Task, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse task document: %w", err)
	}
	converted, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("parse task document: %w", err)
	}
	return DecodeJSON(converted)
}
