// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todo/internal/task"
)

// EmptyMessage is printed by list when there is nothing to show.
const EmptyMessage = "no tasks found"

// FormatTask formats a numbered task line.
// Format: "{N:>4}  [{PRIORITY}] [Completed] {NAME}\n"
func FormatTask(w io.Writer, num int, t task.Task) {
	fmt.Fprintf(w, "%4d  %s\n", num, Display(t))
}

// FormatTaskWithID formats a numbered task line followed by the task ID.
// Format: "{N:>4}  {ID}  [{PRIORITY}] {NAME}\n"
func FormatTaskWithID(w io.Writer, num int, t task.Task) {
	fmt.Fprintf(w, "%4d  %s  %s\n", num, t.ID, Display(t))
}

// Display returns the task's display string with its name normalized for a
// single terminal line.
func Display(t task.Task) string {
	t.Name = normalizeName(t.Name)
	return t.String()
}

// normalizeName normalizes a task name for display.
// - Empty or whitespace-only names become "(untitled)"
// - Newlines are replaced with spaces
func normalizeName(name string) string {
	// Replace newlines with spaces
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.ReplaceAll(name, "\n", " ")

	// Trim and check for empty
	if strings.TrimSpace(name) == "" {
		return "(untitled)"
	}
	return name
}
