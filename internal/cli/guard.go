package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"todo/internal/service"
	"todo/internal/task"
)

// ErrStorageUnreadable is returned for changes attempted after the stored
// tasks failed to load. Saving would replace them with the empty list.
var ErrStorageUnreadable = errors.New("stored tasks could not be read, refusing to overwrite them")

// guardedStore refuses writes while the last load failed. Reads see the
// empty fallback list.
type guardedStore struct {
	*service.Store

	mu      sync.Mutex
	loadErr error
}

func newGuardedStore(s *service.Store) *guardedStore {
	return &guardedStore{Store: s}
}

// Load re-reads storage. A successful load lifts the guard.
func (g *guardedStore) Load(ctx context.Context) error {
	err := g.Store.Load(ctx)
	g.mu.Lock()
	g.loadErr = err
	g.mu.Unlock()
	return err
}

func (g *guardedStore) check() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.loadErr != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnreadable, g.loadErr)
	}
	return nil
}

func (g *guardedStore) Save(ctx context.Context) error {
	if err := g.check(); err != nil {
		return err
	}
	return g.Store.Save(ctx)
}

func (g *guardedStore) Add(ctx context.Context, name string, priority task.Priority) (task.Task, error) {
	if err := g.check(); err != nil {
		return task.Task{}, err
	}
	return g.Store.Add(ctx, name, priority)
}

func (g *guardedStore) Complete(ctx context.Context, id string) error {
	if err := g.check(); err != nil {
		return err
	}
	return g.Store.Complete(ctx, id)
}

func (g *guardedStore) Reopen(ctx context.Context, id string) error {
	if err := g.check(); err != nil {
		return err
	}
	return g.Store.Reopen(ctx, id)
}

func (g *guardedStore) SetPriority(ctx context.Context, id string, priority task.Priority) error {
	if err := g.check(); err != nil {
		return err
	}
	return g.Store.SetPriority(ctx, id, priority)
}

func (g *guardedStore) Rename(ctx context.Context, id, name string) error {
	if err := g.check(); err != nil {
		return err
	}
	return g.Store.Rename(ctx, id, name)
}

func (g *guardedStore) Delete(ctx context.Context, id string) error {
	if err := g.check(); err != nil {
		return err
	}
	return g.Store.Delete(ctx, id)
}
