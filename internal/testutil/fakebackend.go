// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"todo/internal/backend"
	"todo/internal/task"
)

// ErrInjected is a generic failure for error-injection tests.
var ErrInjected = errors.New("injected failure")

// FakeBackend is an in-memory backend.Backend with error injection and
// call counting.
type FakeBackend struct {
	mu    sync.Mutex
	tasks []task.Task
	saved bool

	// Error injection for testing
	LoadErr  error
	SaveErr  error
	CloseErr error

	Loads  int
	Saves  int
	Closed bool
}

var _ backend.Backend = (*FakeBackend)(nil)

// NewFakeBackend creates an empty FakeBackend. Load reports
// backend.ErrNotExist until something is saved or seeded.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{}
}

// Seed stores tasks as if they had been saved earlier.
func (f *FakeBackend) Seed(tasks ...task.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append([]task.Task(nil), tasks...)
	f.saved = true
}

// Tasks returns the last saved sequence.
func (f *FakeBackend) Tasks() []task.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]task.Task(nil), f.tasks...)
}

// Load implements backend.Backend.
func (f *FakeBackend) Load(ctx context.Context) ([]task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Loads++
	if f.LoadErr != nil {
		return nil, f.LoadErr
	}
	if !f.saved {
		return nil, backend.ErrNotExist
	}
	return append([]task.Task(nil), f.tasks...), nil
}

// Save implements backend.Backend.
func (f *FakeBackend) Save(ctx context.Context, tasks []task.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Saves++
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.tasks = append([]task.Task(nil), tasks...)
	f.saved = true
	return nil
}

// Close implements backend.Backend.
func (f *FakeBackend) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return f.CloseErr
}

// SequentialIDs returns a generator producing "t1", "t2", ...
func SequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return "t" + strconv.Itoa(n)
	}
}
