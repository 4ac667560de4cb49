package commands

import (
	"context"
	"fmt"

	"todo/internal/service"
	"todo/internal/task"
)

// taskLookup resolves references against one snapshot of the list, so that
// row numbers keep meaning what `todo list` printed while several refs are
// applied in turn.
type taskLookup struct {
	tasks []task.Task
}

func newTaskLookup(ctx context.Context, svc service.Service) (*taskLookup, error) {
	tasks, err := svc.List(ctx)
	if err != nil {
		return nil, err
	}
	return &taskLookup{tasks: tasks}, nil
}

// find returns the task for ref.
func (l *taskLookup) find(ref TaskRef) (task.Task, error) {
	if ref.ID != "" {
		for _, t := range l.tasks {
			if t.ID == ref.ID {
				return t, nil
			}
		}
		return task.Task{}, fmt.Errorf("%w: %s", service.ErrNotFound, ref.ID)
	}

	if ref.Num < 1 || ref.Num > len(l.tasks) {
		return task.Task{}, fmt.Errorf("%w: %d", ErrOutOfRange, ref.Num)
	}
	return l.tasks[ref.Num-1], nil
}

// resolveTasks parses and resolves every arg. Nothing is returned unless
// all refs resolve.
func resolveTasks(ctx context.Context, svc service.Service, args []string) ([]task.Task, error) {
	if len(args) == 0 {
		return nil, ErrTaskRefRequired
	}

	refs := make([]TaskRef, 0, len(args))
	for _, arg := range args {
		ref, err := ParseTaskRef(arg)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	lookup, err := newTaskLookup(ctx, svc)
	if err != nil {
		return nil, err
	}

	result := make([]task.Task, 0, len(refs))
	seen := make(map[string]bool)
	for _, ref := range refs {
		t, err := lookup.find(ref)
		if err != nil {
			return nil, err
		}
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		result = append(result, t)
	}
	return result, nil
}

// resolveTask resolves a single reference.
func resolveTask(ctx context.Context, svc service.Service, arg string) (task.Task, error) {
	tasks, err := resolveTasks(ctx, svc, []string{arg})
	if err != nil {
		return task.Task{}, err
	}
	return tasks[0], nil
}
