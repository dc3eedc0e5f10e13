package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status is the derived lifecycle state of a Todo. It is never stored.
type Status string

const (
	StatusUncompleted Status = "uncompleted"
	StatusCompleted   Status = "completed"
	StatusOverdue     Status = "overdue"
)

// StatusOf classifies t at now. Completion wins over an elapsed due date.
func StatusOf(t Todo, now time.Time) Status {
	switch {
	case t.CompletedAt != nil:
		return StatusCompleted
	case t.DueAt != nil && t.DueAt.Before(now):
		return StatusOverdue
	default:
		return StatusUncompleted
	}
}

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusUncompleted, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// ParseStatus parses a list filter. Input is trimmed and lower-cased first.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown todo status %q", raw)
	}
	return s, nil
}

// FilterByStatus keeps the todos whose status at now equals s.
func FilterByStatus(list []Todo, s Status, now time.Time) []Todo {
	out := make([]Todo, 0, len(list))
	for _, t := range list {
		if StatusOf(t, now) == s {
			out = append(out, t)
		}
	}
	return out
}
