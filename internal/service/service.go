// Package service defines the task list operations exposed to shells and
// the Store that implements them.
package service

import (
	"context"
	"errors"

	"todo/internal/task"
)

var (
	// ErrNotFound is returned when no task has the given ID.
	// Nothing was changed.
	ErrNotFound = errors.New("task not found")

	// ErrEmptyName is returned when a name is empty after trimming.
	// Nothing was changed.
	ErrEmptyName = errors.New("task name required")

	// ErrNotPersisted marks a mutation that was applied in memory but could
	// not be saved. The next successful save writes it out.
	ErrNotPersisted = errors.New("changes not saved")
)

// Service defines the operations a shell can perform on the task list.
// Shells resolve their own selection (row number, cursor) to a task ID
// before calling; the service has no notion of selection.
type Service interface {
	// List returns the tasks in display order.
	List(ctx context.Context) ([]task.Task, error)

	// Get returns the task with the given ID.
	Get(ctx context.Context, id string) (task.Task, error)

	// Add appends a new open task. Fails with ErrEmptyName for blank names.
	Add(ctx context.Context, name string, priority task.Priority) (task.Task, error)

	// Complete marks a task completed.
	Complete(ctx context.Context, id string) error

	// Reopen clears the completed flag.
	Reopen(ctx context.Context, id string) error

	// SetPriority overwrites a task's priority.
	SetPriority(ctx context.Context, id string, priority task.Priority) error

	// Rename changes a task's name. Fails with ErrEmptyName for blank names.
	Rename(ctx context.Context, id, name string) error

	// Delete removes a task; later tasks move up one position.
	Delete(ctx context.Context, id string) error
}
