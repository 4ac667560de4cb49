package testutil

import (
	"context"
	"testing"

	"todo/internal/logging"
	"todo/internal/service"
	"todo/internal/task"
)

// NewStore returns a loaded service.Store over a FakeBackend seeded with
// the given tasks. New tasks get IDs "t1", "t2", ...
func NewStore(t testing.TB, seed ...task.Task) (*service.Store, *FakeBackend) {
	t.Helper()
	fb := NewFakeBackend()
	if len(seed) > 0 {
		fb.Seed(seed...)
	}
	s := service.NewStore(fb,
		service.WithLogger(logging.Discard()),
		service.WithIDGenerator(SequentialIDs()),
	)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return s, fb
}

// Tasks builds open High-priority tasks with IDs "a", "b", ... for seeding.
func Tasks(names ...string) []task.Task {
	result := make([]task.Task, len(names))
	for i, name := range names {
		result[i] = task.Task{ID: string(rune('a' + i)), Name: name, Priority: task.High}
	}
	return result
}
