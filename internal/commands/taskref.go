package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num int    // 1-based row number from `todo list`, 0 if ID is set
	ID  string // stable task ID, empty if Num is set
}

var (
	// ErrTaskRefRequired indicates no task reference was provided.
	ErrTaskRefRequired = errors.New("task reference required")

	// ErrInvalidRef indicates a reference that is neither a row number nor an ID.
	ErrInvalidRef = errors.New("invalid task reference")

	// ErrOutOfRange indicates a row number with no task.
	ErrOutOfRange = errors.New("task number out of range")
)

// ParseTaskRef parses a single task reference.
//
// Parsing rules:
// 1. Empty or whitespace-only → error: task reference required
// 2. All digits → row number (as printed by `todo list`)
// 3. Anything else without whitespace → task ID
// 4. Otherwise → error: invalid task reference: <ref>
func ParseTaskRef(arg string) (TaskRef, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("%w: %s", ErrInvalidRef, arg)
		}
		return TaskRef{Num: num}, nil
	}

	if strings.IndexFunc(arg, unicode.IsSpace) >= 0 {
		return TaskRef{}, fmt.Errorf("%w: %s", ErrInvalidRef, arg)
	}
	return TaskRef{ID: arg}, nil
}

// String returns the reference as the user would type it.
func (r TaskRef) String() string {
	if r.ID != "" {
		return r.ID
	}
	return strconv.Itoa(r.Num)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
