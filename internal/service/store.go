package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"todo/internal/backend"
	"todo/internal/task"
)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for load and save failures.
func WithLogger(log logrus.FieldLogger) StoreOption {
	return func(s *Store) {
		s.log = log
	}
}

// WithIDGenerator replaces the UUID generator, mainly for tests.
func WithIDGenerator(gen func() string) StoreOption {
	return func(s *Store) {
		s.newID = gen
	}
}

// Store owns the in-memory task sequence and writes the whole sequence to
// its backend after every mutation.
type Store struct {
	mu      sync.Mutex
	tasks   []task.Task
	backend backend.Backend
	log     logrus.FieldLogger
	newID   func() string
}

var _ Service = (*Store)(nil)

// NewStore creates an empty store over b. Call Load to read persisted tasks.
func NewStore(b backend.Backend, opts ...StoreOption) *Store {
	if b == nil {
		panic("service.NewStore: backend is nil")
	}
	s := &Store{
		tasks:   []task.Task{},
		backend: b,
		log:     logrus.StandardLogger(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory sequence with the persisted one.
// Missing storage yields an empty list and no error. Any other failure is
// logged, leaves the list empty, and is returned so the caller can report
// it; it is never fatal to the store.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.backend.Load(ctx)
	if errors.Is(err, backend.ErrNotExist) {
		s.tasks = []task.Task{}
		return nil
	}
	if err != nil {
		s.log.WithError(err).Warn("could not load tasks, starting with an empty list")
		s.tasks = []task.Task{}
		return fmt.Errorf("load tasks: %w", err)
	}

	// Older files and remote lists may carry tasks without our IDs.
	for i := range tasks {
		if tasks[i].ID == "" {
			tasks[i].ID = s.newID()
		}
	}
	s.tasks = tasks
	return nil
}

// Save writes the whole in-memory sequence to the backend.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx)
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// List implements Service.
func (s *Store) List(ctx context.Context) ([]task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

// Get implements Service.
func (s *Store) Get(ctx context.Context, id string) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return task.Task{}, ErrNotFound
	}
	return s.tasks[i], nil
}

// Add implements Service.
func (s *Store) Add(ctx context.Context, name string, priority task.Priority) (task.Task, error) {
	name = cleanName(name)
	if name == "" {
		return task.Task{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := task.Task{
		ID:       s.newID(),
		Name:     name,
		Priority: priority,
	}
	s.tasks = append(s.tasks, t)
	return t, s.persistLocked(ctx)
}

// Complete implements Service.
func (s *Store) Complete(ctx context.Context, id string) error {
	return s.update(ctx, id, func(t *task.Task) {
		t.Completed = true
	})
}

// Reopen implements Service.
func (s *Store) Reopen(ctx context.Context, id string) error {
	return s.update(ctx, id, func(t *task.Task) {
		t.Completed = false
	})
}

// SetPriority implements Service.
func (s *Store) SetPriority(ctx context.Context, id string, priority task.Priority) error {
	return s.update(ctx, id, func(t *task.Task) {
		t.Priority = priority
	})
}

// Rename implements Service.
func (s *Store) Rename(ctx context.Context, id, name string) error {
	name = cleanName(name)
	if name == "" {
		return ErrEmptyName
	}
	return s.update(ctx, id, func(t *task.Task) {
		t.Name = name
	})
}

// Delete implements Service.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return s.persistLocked(ctx)
}

// cleanName trims the name and replaces invalid UTF-8 the way the JSON and
// YAML encoders would, so the stored name reloads unchanged.
func cleanName(name string) string {
	return strings.TrimSpace(strings.ToValidUTF8(name, "\uFFFD"))
}

func (s *Store) update(ctx context.Context, id string, apply func(*task.Task)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	apply(&s.tasks[i])
	return s.persistLocked(ctx)
}

func (s *Store) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// persistLocked saves the full sequence. On failure the in-memory state is
// kept and the error is wrapped with ErrNotPersisted.
func (s *Store) persistLocked(ctx context.Context) error {
	snapshot := make([]task.Task, len(s.tasks))
	copy(snapshot, s.tasks)

	if err := s.backend.Save(ctx, snapshot); err != nil {
		s.log.WithError(err).WithField("count", len(snapshot)).Error("could not save tasks")
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	return nil
}
