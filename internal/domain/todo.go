package domain

import "time"

// Todo is the domain entity for a user's task.
// It does not depend on gin, Postgres or Redis.
type Todo struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	DueAt       *time.Time `json:"due_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Status derives the lifecycle state of t at now.
func (t Todo) Status(now time.Time) Status {
	return StatusOf(t, now)
}

// Complete marks t as completed at now. A todo that is already completed keeps
// its original completion time; the returned bool reports whether t changed.
func (t *Todo) Complete(now time.Time) bool {
	if t.CompletedAt != nil {
		return false
	}
	at := now.UTC()
	t.CompletedAt = &at
	return true
}

// Uncomplete clears the completion time. The returned bool reports whether t changed.
func (t *Todo) Uncomplete() bool {
	if t.CompletedAt == nil {
		return false
	}
	t.CompletedAt = nil
	return true
}
