// Package memory implements an in-process backend with no durable storage.
package memory

import (
	"context"
	"sync"

	"todo/internal/backend"
	"todo/internal/task"
)

// Backend keeps the last saved sequence in memory.
type Backend struct {
	mu    sync.RWMutex
	tasks []task.Task
	saved bool
}

// New creates an empty memory backend. Load reports ErrNotExist until the
// first Save.
func New() *Backend {
	return &Backend{}
}

// NewWithTasks creates a memory backend that already holds tasks.
func NewWithTasks(tasks []task.Task) *Backend {
	return &Backend{tasks: clone(tasks), saved: true}
}

// Load implements backend.Backend.
func (b *Backend) Load(ctx context.Context) ([]task.Task, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.saved {
		return nil, backend.ErrNotExist
	}
	return clone(b.tasks), nil
}

// Save implements backend.Backend.
func (b *Backend) Save(ctx context.Context, tasks []task.Task) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tasks = clone(tasks)
	b.saved = true
	return nil
}

// Close implements backend.Backend.
func (b *Backend) Close() error {
	return nil
}

// Tasks returns a copy of the saved sequence.
func (b *Backend) Tasks() []task.Task {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return clone(b.tasks)
}

func clone(tasks []task.Task) []task.Task {
	out := make([]task.Task, len(tasks))
	copy(out, tasks)
	return out
}
