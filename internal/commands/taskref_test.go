package commands

import (
	"context"
	"errors"
	"testing"

	"todo/internal/service"
	"todo/internal/task"
	"todo/internal/testutil"
)

func TestParseTaskRef_Number(t *testing.T) {
	ref, err := ParseTaskRef("5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Num != 5 || ref.ID != "" {
		t.Errorf("expected Num 5 and no ID, got %+v", ref)
	}
}

func TestParseTaskRef_NumberWithSpaces(t *testing.T) {
	ref, err := ParseTaskRef(" 12 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Num != 12 {
		t.Errorf("expected Num 12, got %d", ref.Num)
	}
}

func TestParseTaskRef_ID(t *testing.T) {
	ref, err := ParseTaskRef("3f1c2a9e-aaaa-bbbb-cccc-0123456789ab")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Num != 0 {
		t.Errorf("expected Num 0, got %d", ref.Num)
	}
	if ref.ID != "3f1c2a9e-aaaa-bbbb-cccc-0123456789ab" {
		t.Errorf("expected ID, got %q", ref.ID)
	}
}

func TestParseTaskRef_Empty_Error(t *testing.T) {
	for _, arg := range []string{"", "   "} {
		_, err := ParseTaskRef(arg)
		if !errors.Is(err, ErrTaskRefRequired) {
			t.Errorf("ParseTaskRef(%q): expected ErrTaskRefRequired, got %v", arg, err)
		}
	}
}

func TestParseTaskRef_InnerSpace_Error(t *testing.T) {
	_, err := ParseTaskRef("a b")
	if !errors.Is(err, ErrInvalidRef) {
		t.Fatalf("expected ErrInvalidRef, got %v", err)
	}
	expectedMsg := "invalid task reference: a b"
	if err.Error() != expectedMsg {
		t.Errorf("expected %q, got %q", expectedMsg, err.Error())
	}
}

func TestParseTaskRef_Overflow_Error(t *testing.T) {
	_, err := ParseTaskRef("99999999999999999999999")
	if !errors.Is(err, ErrInvalidRef) {
		t.Errorf("expected ErrInvalidRef, got %v", err)
	}
}

func TestTaskRef_String(t *testing.T) {
	if got := (TaskRef{Num: 3}).String(); got != "3" {
		t.Errorf("expected %q, got %q", "3", got)
	}
	if got := (TaskRef{ID: "t9"}).String(); got != "t9" {
		t.Errorf("expected %q, got %q", "t9", got)
	}
}

func TestIsAllDigits(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"123", true},
		{"0", true},
		{"", false},
		{"12a", false},
		{"-1", false},
		{"١٢", false},
	}
	for _, tt := range tests {
		if got := isAllDigits(tt.input); got != tt.expected {
			t.Errorf("isAllDigits(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestResolveTasks(t *testing.T) {
	s, _ := testutil.NewStore(t, testutil.Tasks("one", "two", "three")...)

	got, err := resolveTasks(context.Background(), s, []string{"3", "a", "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected duplicates collapsed to 2 tasks, got %d", len(got))
	}
	if got[0].Name != "three" || got[1].Name != "one" {
		t.Errorf("expected [three one], got [%s %s]", got[0].Name, got[1].Name)
	}
}

func TestResolveTasks_Errors(t *testing.T) {
	s, _ := testutil.NewStore(t, testutil.Tasks("one", "two")...)
	ctx := context.Background()

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"no refs", nil, ErrTaskRefRequired},
		{"zero", []string{"0"}, ErrOutOfRange},
		{"past end", []string{"3"}, ErrOutOfRange},
		{"unknown id", []string{"nope"}, service.ErrNotFound},
		{"one bad ref", []string{"1", "9"}, ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveTasks(ctx, s, tt.args)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestResolveTask_ListFailure(t *testing.T) {
	svc := &failingLister{err: errors.New("boom")}
	_, err := resolveTask(context.Background(), svc, "1")
	if err == nil || err.Error() != "boom" {
		t.Errorf("expected list error, got %v", err)
	}
}

// failingLister is a Service whose List fails.
type failingLister struct {
	service.Service
	err error
}

func (f *failingLister) List(ctx context.Context) ([]task.Task, error) {
	return nil, f.err
}
