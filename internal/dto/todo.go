package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	dom "github.com/nicolaskelepuris/refactor-rails-app/internal/domain"
)

// TimestampLayout is ISO-8601 with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp marshals as an ISO-8601 string with milliseconds, in UTC.
type Timestamp time.Time

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(TimestampLayout))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}

func (t Timestamp) Time() time.Time { return time.Time(t) }

func timestampPtr(t *time.Time) *Timestamp {
	if t == nil {
		return nil
	}
	ts := Timestamp(*t)
	return &ts
}

// DueAt parses due_at from JSON as either date-only ("2006-01-02") or RFC3339.
// Date-only is stored as start of that day in UTC.
type DueAt struct {
	t   *time.Time
	set bool
}

func (d *DueAt) UnmarshalJSON(data []byte) error {
	d.set = true
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	s := strings.TrimSpace(*raw)
	layouts := []string{
		"2006-01-02",     // date only
		time.RFC3339,     // 2006-01-02T15:04:05Z07:00
		time.RFC3339Nano, // with nanoseconds
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			parsed = parsed.UTC()
			d.t = &parsed
			return nil
		}
	}
	return fmt.Errorf("due_at: use date (YYYY-MM-DD) or RFC3339 datetime")
}

// Ptr returns *time.Time for use in service/domain.
func (d DueAt) Ptr() *time.Time { return d.t }

// Set reports whether due_at appeared in the JSON object.
func (d DueAt) Set() bool { return d.set }

// TodoParams is the "todo" object of create and update requests.
type TodoParams struct {
	Title *string `json:"title"`
	DueAt DueAt   `json:"due_at"`

	present bool
}

func (p *TodoParams) UnmarshalJSON(data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	type plain TodoParams
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = TodoParams(v)
	p.present = len(keys) > 0
	return nil
}

// Empty reports whether the object was absent, null or {}.
func (p *TodoParams) Empty() bool { return p == nil || !p.present }

// TitleValue returns the title, or "" when it was absent or null.
func (p *TodoParams) TitleValue() string {
	if p == nil || p.Title == nil {
		return ""
	}
	return *p.Title
}

// TodoRequest is the JSON body for POST /todos and PUT /todos/:id.
type TodoRequest struct {
	Todo *TodoParams `json:"todo"`
}

// TodoResponse is the external representation of a todo. user_id is never exposed.
type TodoResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	DueAt       *Timestamp `json:"due_at"`
	CompletedAt *Timestamp `json:"completed_at"`
	Status      dom.Status `json:"status"`
	CreatedAt   Timestamp  `json:"created_at"`
	UpdatedAt   Timestamp  `json:"updated_at"`
}

// NewTodoResponse serializes t with its status derived at now.
func NewTodoResponse(t dom.Todo, now time.Time) TodoResponse {
	return TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		DueAt:       timestampPtr(t.DueAt),
		CompletedAt: timestampPtr(t.CompletedAt),
		Status:      t.Status(now),
		CreatedAt:   Timestamp(t.CreatedAt),
		UpdatedAt:   Timestamp(t.UpdatedAt),
	}
}

type TodoEnvelope struct {
	Todo TodoResponse `json:"todo"`
}

type TodoListEnvelope struct {
	Todos []TodoResponse `json:"todos"`
}
