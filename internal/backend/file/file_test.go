package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"todo/internal/backend"
	"todo/internal/task"
)

func TestLoad_MissingFile(t *testing.T) {
	b := New(filepath.Join(t.TempDir(), "tasks.json"), nil)

	_, err := b.Load(context.Background())
	if !errors.Is(err, backend.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	for _, name := range []string{"tasks.json", "tasks.yaml", "tasks.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			b := New(path, nil)
			ctx := context.Background()

			want := []task.Task{
				{ID: "1", Name: "Buy milk", Completed: true, Priority: task.High},
				{ID: "2", Name: "Call bank", Priority: task.Medium},
			}
			if err := b.Save(ctx, want); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			got, err := New(path, nil).Load(ctx)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("got %+v, want %+v", got, want)
			}
		})
	}
}

func TestSave_ReplacesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.json")
	b := New(path, nil)
	ctx := context.Background()

	first := []task.Task{
		{ID: "1", Name: "one", Priority: task.High},
		{ID: "2", Name: "two", Priority: task.Low},
	}
	if err := b.Save(ctx, first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	second := []task.Task{{ID: "3", Name: "three", Priority: task.Medium}}
	if err := b.Save(ctx, second); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := b.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, second) {
		t.Errorf("got %+v, want %+v", got, second)
	}

	// No temp files left behind
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only tasks.json, found %v", names)
	}
}

func TestSave_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "tasks.json")
	if err := New(path, nil).Save(context.Background(), nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to exist: %v", err)
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := New(path, nil).Load(context.Background())
	if err == nil {
		t.Fatal("expected error for corrupt file")
	}
	if errors.Is(err, backend.ErrNotExist) {
		t.Error("corrupt file must not be reported as missing")
	}
}

func TestSave_YAMLOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	err := New(path, nil).Save(context.Background(), []task.Task{{ID: "1", Name: "Water plants", Priority: task.Low}})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "name: Water plants") {
		t.Errorf("expected YAML content, got:\n%s", data)
	}
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]Format{
		"tasks.json": JSON,
		"tasks.dat":  JSON,
		"tasks.YAML": YAML,
		"t.yml":      YAML,
	}
	for path, want := range tests {
		if got := FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q) = %v, want %v", path, got, want)
		}
	}
}
