package domain

import (
	"testing"
	"time"
)

func TestStatusOf(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name string
		todo Todo
		want Status
	}{
		{"no dates", Todo{}, StatusUncompleted},
		{"due in the future", Todo{DueAt: &future}, StatusUncompleted},
		{"due in the past", Todo{DueAt: &past}, StatusOverdue},
		{"due exactly now", Todo{DueAt: &now}, StatusUncompleted},
		{"completed without due date", Todo{CompletedAt: &past}, StatusCompleted},
		{"completed and past due", Todo{CompletedAt: &past, DueAt: &past}, StatusCompleted},
		{"completed and due later", Todo{CompletedAt: &past, DueAt: &future}, StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StatusOf(tt.todo, now)
			if got != tt.want {
				t.Errorf("StatusOf() = %q, want %q", got, tt.want)
			}
			if !got.Valid() {
				t.Errorf("StatusOf() returned invalid status %q", got)
			}
		})
	}
}

func TestStatusChangesWithClock(t *testing.T) {
	due := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	todo := Todo{DueAt: &due}

	if s := todo.Status(due.Add(-time.Minute)); s != StatusUncompleted {
		t.Errorf("before due: got %q, want uncompleted", s)
	}
	if s := todo.Status(due.Add(time.Minute)); s != StatusOverdue {
		t.Errorf("after due: got %q, want overdue", s)
	}
}

func TestTodoComplete(t *testing.T) {
	first := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	var todo Todo
	if !todo.Complete(first) {
		t.Fatal("first Complete should report a change")
	}
	if todo.Complete(later) {
		t.Error("second Complete should not report a change")
	}
	if !todo.CompletedAt.Equal(first) {
		t.Errorf("CompletedAt = %v, want %v", todo.CompletedAt, first)
	}
}

func TestTodoUncomplete(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	todo := Todo{DueAt: &past, CompletedAt: &now}
	if !todo.Uncomplete() {
		t.Fatal("Uncomplete on completed todo should report a change")
	}
	if todo.Uncomplete() {
		t.Error("Uncomplete on uncompleted todo should be a no-op")
	}
	// status is derived, so a past due date reads back as overdue
	if s := todo.Status(now); s != StatusOverdue {
		t.Errorf("status after uncomplete = %q, want overdue", s)
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    Status
		wantErr bool
	}{
		{"overdue", StatusOverdue, false},
		{" Completed ", StatusCompleted, false},
		{"UNCOMPLETED", StatusUncompleted, false},
		{"", "", true},
		{"done", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseStatus(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStatus(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFilterByStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	list := []Todo{
		{ID: 1, DueAt: &past},
		{ID: 2, DueAt: &future},
		{ID: 3, CompletedAt: &past},
		{ID: 4, CompletedAt: &past, DueAt: &past},
	}

	tests := []struct {
		status Status
		want   []int64
	}{
		{StatusOverdue, []int64{1}},
		{StatusUncompleted, []int64{2}},
		{StatusCompleted, []int64{3, 4}},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			got := FilterByStatus(list, tt.status, now)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d todos, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("got[%d].ID = %d, want %d", i, got[i].ID, id)
				}
			}
		})
	}
}
