package redisstore

import (
	"context"
	"errors"
	"reflect"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"todo/internal/backend"
	"todo/internal/task"
)

func newTestBackend(t *testing.T, key string) (*Backend, *miniredis.Miniredis) {
	t.Helper()
	m, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(m.Close)

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	b := New(client, key, nil)
	t.Cleanup(func() {
		if cerr := b.Close(); cerr != nil {
			t.Logf("redis close: %v", cerr)
		}
	})
	return b, m
}

func TestLoad_MissingKey(t *testing.T) {
	b, _ := newTestBackend(t, "")

	_, err := b.Load(context.Background())
	if !errors.Is(err, backend.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	b, m := newTestBackend(t, "test:tasks")
	ctx := context.Background()

	want := []task.Task{
		{ID: "1", Name: "Buy milk", Priority: task.High},
		{ID: "2", Name: "Call bank", Completed: true, Priority: task.Low},
	}
	if err := b.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !m.Exists("test:tasks") {
		t.Fatal("expected key test:tasks to be set")
	}

	got, err := b.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestLoad_CorruptValue(t *testing.T) {
	b, m := newTestBackend(t, "")
	if err := m.Set(DefaultKey, "garbage"); err != nil {
		t.Fatalf("miniredis set: %v", err)
	}

	_, err := b.Load(context.Background())
	if err == nil || errors.Is(err, backend.ErrNotExist) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestOpen_URL(t *testing.T) {
	m, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(m.Close)

	b, err := Open(context.Background(), "redis://"+m.Addr()+"/0", "", nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer b.Close()

	if err := b.Save(context.Background(), nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !m.Exists(DefaultKey) {
		t.Errorf("expected default key %s to be set", DefaultKey)
	}
}
