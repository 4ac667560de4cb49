package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/task"
	"todo/internal/testutil"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *model, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(k)
	}
	return cmd
}

func newTestModel(t *testing.T, seed ...task.Task) (*model, *testutil.FakeBackend) {
	t.Helper()
	store, fb := testutil.NewStore(t, seed...)
	m := newModel(context.Background(), store)
	m.Init()
	return m, fb
}

func TestModel_AddTask(t *testing.T) {
	m, fb := newTestModel(t)

	press(m, runes("a"), runes("Buy"), tea.KeyMsg{Type: tea.KeySpace}, runes("milk"))
	if !strings.Contains(m.View(), "New task [High]: Buy milk_") {
		t.Errorf("expected input line, got:\n%s", m.View())
	}
	press(m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyEnter})

	got := fb.Tasks()
	if len(got) != 1 {
		t.Fatalf("expected 1 saved task, got %d", len(got))
	}
	if got[0].Name != "Buy milk" || got[0].Priority != task.Low || got[0].Completed {
		t.Errorf("unexpected task: %+v", got[0])
	}
	if m.adding {
		t.Error("expected input mode to end after enter")
	}
}

func TestModel_AddEmptyShowsError(t *testing.T) {
	m, fb := newTestModel(t)

	press(m, runes("a"), tea.KeyMsg{Type: tea.KeySpace}, tea.KeyMsg{Type: tea.KeyEnter})

	if len(fb.Tasks()) != 0 || fb.Saves != 0 {
		t.Errorf("expected nothing saved, got %+v", fb.Tasks())
	}
	if !strings.Contains(m.View(), "error: task name required") {
		t.Errorf("expected error status, got:\n%s", m.View())
	}
}

func TestModel_EscapeCancelsInput(t *testing.T) {
	m, fb := newTestModel(t)

	press(m, runes("a"), runes("xy"), tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyEsc})
	if m.adding || len(m.input) != 0 {
		t.Error("expected input cleared")
	}
	if fb.Saves != 0 {
		t.Errorf("expected no saves, got %d", fb.Saves)
	}
}

func TestModel_ToggleAndPriority(t *testing.T) {
	m, fb := newTestModel(t, testutil.Tasks("one", "two")...)

	press(m, runes("j"), tea.KeyMsg{Type: tea.KeySpace})
	if got := fb.Tasks(); got[0].Completed || !got[1].Completed {
		t.Fatalf("expected only second task completed, got %+v", got)
	}

	press(m, runes("x"))
	if fb.Tasks()[1].Completed {
		t.Error("expected second task reopened")
	}

	press(m, runes("2"))
	if p := fb.Tasks()[1].Priority; p != task.Medium {
		t.Errorf("expected Medium, got %q", p)
	}
	press(m, runes("k"), runes("3"))
	if p := fb.Tasks()[0].Priority; p != task.Low {
		t.Errorf("expected Low, got %q", p)
	}
}

func TestModel_Delete(t *testing.T) {
	m, fb := newTestModel(t, testutil.Tasks("one", "two")...)

	press(m, runes("j"), runes("d"))
	got := fb.Tasks()
	if len(got) != 1 || got[0].Name != "one" {
		t.Fatalf("expected only one left, got %+v", got)
	}
	if m.cursor != 0 {
		t.Errorf("expected cursor clamped to 0, got %d", m.cursor)
	}

	// Delete on an empty list is ignored
	press(m, runes("d"), runes("d"))
	if len(fb.Tasks()) != 0 {
		t.Errorf("expected empty list, got %+v", fb.Tasks())
	}
}

func TestModel_SaveFailureShownInStatus(t *testing.T) {
	m, fb := newTestModel(t, testutil.Tasks("one")...)
	fb.SaveErr = testutil.ErrInjected

	press(m, runes(" "))
	view := m.View()
	if !strings.Contains(view, "error: changes not saved") {
		t.Errorf("expected save error in status line, got:\n%s", view)
	}
	if !strings.Contains(view, "[High] [Completed] one") {
		t.Errorf("expected in-memory change shown, got:\n%s", view)
	}
}

func TestModel_Reload(t *testing.T) {
	m, fb := newTestModel(t, testutil.Tasks("one")...)
	fb.Seed(testutil.Tasks("one", "two")...)

	press(m, runes("r"))
	if len(m.tasks) != 2 {
		t.Errorf("expected reloaded tasks, got %+v", m.tasks)
	}
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t)
	cmd := press(m, runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t, task.Task{ID: "a", Name: "Call bank", Priority: task.Medium, Completed: true})

	want := "To-Do List\n==========\n\n>   1  [Medium] [Completed] Call bank\n\n"
	if !strings.HasPrefix(m.View(), want) {
		t.Errorf("expected view to start with %q, got %q", want, m.View())
	}

	press(m, runes("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("expected help screen")
	}
}

func TestIsTTY_NonFile(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("expected buffer not to be a TTY")
	}
}
