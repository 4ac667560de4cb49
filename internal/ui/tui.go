// Package ui provides the interactive terminal view of the task list.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/output"
	"todo/internal/service"
	"todo/internal/task"
)

// ErrNotTTY is returned by Run when stdout is not a terminal.
var ErrNotTTY = errors.New("ui requires a TTY")

// Reloader is implemented by services that can re-read their storage.
type Reloader interface {
	Load(ctx context.Context) error
}

// Run starts the interactive view and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, svc service.Service) error {
	if !IsTTY(os.Stdout) {
		return ErrNotTTY
	}
	program := tea.NewProgram(newModel(ctx, svc), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

type model struct {
	ctx    context.Context
	svc    service.Service
	tasks  []task.Task
	cursor int

	adding      bool
	input       []rune
	addPriority task.Priority

	status   string
	showHelp bool
}

func newModel(ctx context.Context, svc service.Service) *model {
	return &model{
		ctx:         ctx,
		svc:         svc,
		addPriority: task.High,
	}
}

func (m *model) Init() tea.Cmd {
	m.refresh()
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.adding {
		m.updateInput(key)
		return m, nil
	}

	switch key.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "a":
		m.adding = true
		m.input = nil
		m.status = ""
	case " ", "x":
		m.toggle()
	case "1":
		m.setPriority(task.High)
	case "2":
		m.setPriority(task.Medium)
	case "3":
		m.setPriority(task.Low)
	case "d":
		m.apply("deleted", m.svc.Delete)
	case "r":
		m.reload()
	case "h", "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// updateInput handles keys while a new task name is being typed.
func (m *model) updateInput(key tea.KeyMsg) {
	switch key.Type {
	case tea.KeyEnter:
		m.adding = false
		name := string(m.input)
		m.input = nil
		t, err := m.svc.Add(m.ctx, name, m.addPriority)
		if err != nil {
			m.fail(err)
		} else {
			m.status = "added"
		}
		m.refresh()
		m.selectID(t.ID)
	case tea.KeyEsc:
		m.adding = false
		m.input = nil
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeyTab:
		m.addPriority = nextPriority(m.addPriority)
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, key.Runes...)
	}
}

func (m *model) toggle() {
	t, ok := m.selected()
	if !ok {
		return
	}
	if t.Completed {
		m.apply("reopened", m.svc.Reopen)
	} else {
		m.apply("completed", m.svc.Complete)
	}
}

func (m *model) setPriority(p task.Priority) {
	m.apply("priority set to "+string(p), func(ctx context.Context, id string) error {
		return m.svc.SetPriority(ctx, id, p)
	})
}

// apply runs op on the selected task and refreshes the view.
func (m *model) apply(done string, op func(context.Context, string) error) {
	t, ok := m.selected()
	if !ok {
		return
	}
	if err := op(m.ctx, t.ID); err != nil {
		m.fail(err)
	} else {
		m.status = done
	}
	m.refresh()
}

func (m *model) reload() {
	if r, ok := m.svc.(Reloader); ok {
		if err := r.Load(m.ctx); err != nil {
			m.fail(err)
			m.refresh()
			return
		}
	}
	m.status = "reloaded"
	m.refresh()
}

func (m *model) refresh() {
	tasks, err := m.svc.List(m.ctx)
	if err != nil {
		m.fail(err)
		return
	}
	m.tasks = tasks
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *model) selected() (task.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return task.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m *model) fail(err error) {
	m.status = "error: " + err.Error()
}

// selectID moves the cursor to the task with id, if present.
func (m *model) selectID(id string) {
	for i, t := range m.tasks {
		if t.ID == id && id != "" {
			m.cursor = i
			return
		}
	}
}

func (m *model) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		return b.String()
	}

	if len(m.tasks) == 0 {
		b.WriteString("  No tasks. Press a to add one.\n")
	}
	for i, t := range m.tasks {
		prefix := "  "
		if i == m.cursor {
			prefix = "> "
		}
		b.WriteString(fmt.Sprintf("%s%3d  %s\n", prefix, i+1, output.Display(t)))
	}
	b.WriteString("\n")

	if m.adding {
		b.WriteString(fmt.Sprintf("New task [%s]: %s_\n", m.addPriority, string(m.input)))
		b.WriteString("enter save | tab priority | esc cancel\n")
		return b.String()
	}

	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString("a add | space done | 1/2/3 priority | d delete | r reload | h help | q quit\n")
	return b.String()
}

func writeTitle(b *strings.Builder) {
	title := "To-Do List"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  up/k, down/j  Move selection\n")
	b.WriteString("  a             Add a task (tab cycles priority)\n")
	b.WriteString("  space, x      Toggle completed\n")
	b.WriteString("  1, 2, 3       Set priority High, Medium, Low\n")
	b.WriteString("  d             Delete task\n")
	b.WriteString("  r             Reload from storage\n")
	b.WriteString("  h, ?          Toggle this help screen\n")
	b.WriteString("  q, ctrl+c     Quit\n\n")
}

func nextPriority(p task.Priority) task.Priority {
	all := task.Priorities()
	for i, candidate := range all {
		if candidate == p {
			return all[(i+1)%len(all)]
		}
	}
	return task.High
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
