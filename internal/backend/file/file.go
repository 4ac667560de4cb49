// Package file stores the task list in a single local file.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"todo/internal/backend"
	"todo/internal/task"
)

// Format selects the on-disk encoding.
type Format int

const (
	JSON Format = iota
	YAML
)

// FormatForPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Backend persists tasks to a file, rewriting it wholesale on every save.
type Backend struct {
	path   string
	format Format
	log    logrus.FieldLogger
}

// New creates a file backend for path. The format follows the extension.
func New(path string, log logrus.FieldLogger) *Backend {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Backend{
		path:   path,
		format: FormatForPath(path),
		log:    log.WithFields(logrus.Fields{"backend": "file", "path": path}),
	}
}

// Path returns the storage location.
func (b *Backend) Path() string {
	return b.path
}

// Load reads and validates the whole file.
func (b *Backend) Load(ctx context.Context) ([]task.Task, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, backend.ErrNotExist
		}
		return nil, fmt.Errorf("read task file: %w", err)
	}

	var tasks []task.Task
	switch b.format {
	case YAML:
		tasks, err = backend.DecodeYAML(data)
	default:
		tasks, err = backend.DecodeJSON(data)
	}
	if err != nil {
		return nil, err
	}

	b.log.WithField("count", len(tasks)).Debug("loaded tasks")
	return tasks, nil
}

// Save writes tasks to a temporary file beside the target and renames it
// into place, so readers never observe a partial file.
func (b *Backend) Save(ctx context.Context, tasks []task.Task) error {
	var (
		data []byte
		err  error
	)
	switch b.format {
	case YAML:
		data, err = backend.EncodeYAML(tasks)
	default:
		data, err = backend.EncodeJSON(tasks)
	}
	if err != nil {
		return err
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create task file dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write task file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write task file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write task file: %w", err)
	}
	if err := os.Rename(tmpPath, b.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace task file: %w", err)
	}

	b.log.WithField("count", len(tasks)).Debug("saved tasks")
	return nil
}

// Close is a no-op; the file is not held open between calls.
func (b *Backend) Close() error {
	return nil
}
