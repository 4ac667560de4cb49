// Package task defines the to-do record and its priority labels.
package task

import (
	"errors"
	"fmt"
	"strings"
)

// Priority is an ordering label for a task.
// The store accepts any text; shells restrict input to the values below.
type Priority string

const (
	High   Priority = "High"
	Medium Priority = "Medium"
	Low    Priority = "Low"
)

// ErrInvalidPriority is returned by ParsePriority for unknown labels.
var ErrInvalidPriority = errors.New("invalid priority")

// Priorities returns the closed set of priorities in display order.
func Priorities() []Priority {
	return []Priority{High, Medium, Low}
}

// Valid reports whether p is one of High, Medium or Low.
func (p Priority) Valid() bool {
	switch p {
	case High, Medium, Low:
		return true
	}
	return false
}

// ParsePriority matches s against the known priorities, ignoring case and
// surrounding whitespace.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	for _, p := range Priorities() {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want High, Medium or Low)", ErrInvalidPriority, s)
}

// Task is a single to-do entry.
type Task struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Completed bool     `json:"completed" yaml:"completed"`
	Priority  Priority `json:"priority" yaml:"priority"`
}

// String renders the task as "[<priority>] [Completed] <name>".
// The completed marker is omitted for open tasks.
func (t Task) String() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(string(t.Priority))
	b.WriteString("] ")
	if t.Completed {
		b.WriteString("[Completed] ")
	}
	b.WriteString(t.Name)
	return b.String()
}
