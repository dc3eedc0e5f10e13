package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	dom "github.com/nicolaskelepuris/refactor-rails-app/internal/domain"
	"github.com/nicolaskelepuris/refactor-rails-app/internal/dto"
	"github.com/nicolaskelepuris/refactor-rails-app/internal/usecase"
)

func mustCreate(t *testing.T, s *TodoService, in CreateTodoInput) dom.Todo {
	t.Helper()
	r, err := usecase.Run[CreateTodoInput, dom.Todo](context.Background(), usecase.Func[CreateTodoInput, dom.Todo](s.Create), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !r.Is(true, TypeTodoCreated) {
		t.Fatalf("Create result = %v %q, want success todo_created", r.OK(), r.Type())
	}
	return r.Value()
}

func TestTodoService_CreateRejectsBlankTitle(t *testing.T) {
	f := newFixture(t)
	u := f.newUser(t, "a@example.com")
	ctx := context.Background()

	for _, title := range []string{"", "   "} {
		r, err := usecase.Run[CreateTodoInput, dom.Todo](ctx, usecase.Func[CreateTodoInput, dom.Todo](f.todos.Create),
			CreateTodoInput{UserID: u.ID, Title: title})
		if err != nil {
			t.Fatalf("Create(%q): %v", title, err)
		}
		if !r.Is(false, usecase.TypeUnprocessableEntity) {
			t.Fatalf("Create(%q) = %v %q, want unprocessable_entity", title, r.OK(), r.Type())
		}
		want := usecase.Errors{"title": {usecase.MsgBlank}}
		if !reflect.DeepEqual(r.Errors(), want) {
			t.Errorf("errors = %v, want %v", r.Errors(), want)
		}
	}

	list, err := f.todos.List(ctx, ListTodosInput{UserID: u.ID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if n := len(list.Value()); n != 0 {
		t.Errorf("stored %d todos after failed creates, want 0", n)
	}
}

func TestTodoService_MissingOwner(t *testing.T) {
	f := newFixture(t)
	_, err := usecase.Run[TodoRef, dom.Todo](context.Background(), usecase.Func[TodoRef, dom.Todo](f.todos.Find), TodoRef{ID: 1})
	var missing *usecase.MissingInputError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want MissingInputError", err)
	}
	if missing.Param != "user" {
		t.Errorf("Param = %q, want user", missing.Param)
	}
}

func TestTodoService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	u := f.newUser(t, "a@example.com")
	ctx := context.Background()
	due := time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC)

	created := mustCreate(t, f.todos, CreateTodoInput{UserID: u.ID, Title: "  pay rent ", DueAt: timePtr(due)})
	if created.Title != "pay rent" {
		t.Errorf("Title = %q, want trimmed", created.Title)
	}
	if got := created.Status(testNow); got != dom.StatusOverdue {
		t.Errorf("status = %q, want overdue", got)
	}
	ref := TodoRef{UserID: u.ID, ID: created.ID}

	found, err := f.todos.Find(ctx, ref)
	if err != nil || !found.Is(true, TypeTodoFound) {
		t.Fatalf("Find = %v %q, %v", found.OK(), found.Type(), err)
	}

	updated, err := f.todos.Update(ctx, UpdateTodoInput{UserID: u.ID, ID: created.ID, Title: "pay rent now"})
	if err != nil || !updated.Is(true, TypeTodoUpdated) {
		t.Fatalf("Update = %v %q, %v", updated.OK(), updated.Type(), err)
	}
	if v := updated.Value(); v.Title != "pay rent now" || v.DueAt != nil {
		t.Errorf("Update value = %+v, want new title and cleared due_at", v)
	}

	completed, err := f.todos.Complete(ctx, ref)
	if err != nil || !completed.Is(true, TypeTodoCompleted) {
		t.Fatalf("Complete = %v %q, %v", completed.OK(), completed.Type(), err)
	}
	first := completed.Value().CompletedAt
	if first == nil || !first.Equal(testNow) {
		t.Fatalf("CompletedAt = %v, want %v", first, testNow)
	}

	f.todos.WithClock(func() time.Time { return testNow.Add(time.Hour) })
	again, err := f.todos.Complete(ctx, ref)
	if err != nil || !again.Is(true, TypeTodoCompleted) {
		t.Fatalf("second Complete = %v %q, %v", again.OK(), again.Type(), err)
	}
	if !again.Value().CompletedAt.Equal(*first) {
		t.Errorf("second Complete moved CompletedAt to %v", again.Value().CompletedAt)
	}

	uncompleted, err := f.todos.Uncomplete(ctx, ref)
	if err != nil || !uncompleted.Is(true, TypeTodoUncompleted) {
		t.Fatalf("Uncomplete = %v %q, %v", uncompleted.OK(), uncompleted.Type(), err)
	}
	if uncompleted.Value().CompletedAt != nil {
		t.Errorf("CompletedAt = %v, want nil", uncompleted.Value().CompletedAt)
	}

	deleted, err := f.todos.Destroy(ctx, ref)
	if err != nil || !deleted.Is(true, TypeTodoDeleted) {
		t.Fatalf("Destroy = %v %q, %v", deleted.OK(), deleted.Type(), err)
	}
	if deleted.Value().ID != created.ID {
		t.Errorf("Destroy value id = %d, want %d", deleted.Value().ID, created.ID)
	}

	gone, err := f.todos.Destroy(ctx, ref)
	if err != nil {
		t.Fatalf("second Destroy: %v", err)
	}
	if !gone.Is(false, usecase.TypeNotFound) {
		t.Errorf("second Destroy = %v %q, want not_found", gone.OK(), gone.Type())
	}
	if !reflect.DeepEqual(gone.Errors(), usecase.NotFound()) {
		t.Errorf("errors = %v, want %v", gone.Errors(), usecase.NotFound())
	}
}

func TestTodoService_UncompletePastDueReadsOverdue(t *testing.T) {
	f := newFixture(t)
	u := f.newUser(t, "a@example.com")
	ctx := context.Background()

	td := mustCreate(t, f.todos, CreateTodoInput{UserID: u.ID, Title: "t", DueAt: timePtr(testNow.Add(-24 * time.Hour))})
	ref := TodoRef{UserID: u.ID, ID: td.ID}
	if _, err := f.todos.Complete(ctx, ref); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	r, err := usecase.Chain[TodoRef, dom.Todo, dto.TodoResponse](
		usecase.Func[TodoRef, dom.Todo](f.todos.Uncomplete),
		usecase.Func[dom.Todo, dto.TodoResponse](f.todos.Serialize),
	).Call(ctx, ref)
	if err != nil {
		t.Fatalf("Uncomplete+Serialize: %v", err)
	}
	if !r.Is(true, TypeTodoSerialized) {
		t.Fatalf("result = %v %q, want todo_serialized", r.OK(), r.Type())
	}
	if r.Value().Status != dom.StatusOverdue {
		t.Errorf("status = %q, want overdue", r.Value().Status)
	}
}

func TestTodoService_UpdateBlankTitleKeepsRow(t *testing.T) {
	f := newFixture(t)
	u := f.newUser(t, "a@example.com")
	ctx := context.Background()

	td := mustCreate(t, f.todos, CreateTodoInput{UserID: u.ID, Title: "keep"})
	in, _ := UpdateTodoInput{UserID: u.ID, ID: td.ID, Title: "  "}.Normalize()
	r, err := f.todos.Update(ctx, in)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !r.Is(false, usecase.TypeUnprocessableEntity) {
		t.Fatalf("Update = %v %q, want unprocessable_entity", r.OK(), r.Type())
	}
	found, _ := f.todos.Find(ctx, TodoRef{UserID: u.ID, ID: td.ID})
	if found.Value().Title != "keep" {
		t.Errorf("Title = %q, want unchanged", found.Value().Title)
	}
}

func TestTodoService_OwnershipScoping(t *testing.T) {
	f := newFixture(t)
	owner := f.newUser(t, "owner@example.com")
	other := f.newUser(t, "other@example.com")
	ctx := context.Background()

	td := mustCreate(t, f.todos, CreateTodoInput{UserID: owner.ID, Title: "mine"})
	ref := TodoRef{UserID: other.ID, ID: td.ID}

	ops := map[string]usecase.Func[TodoRef, dom.Todo]{
		"find":       f.todos.Find,
		"complete":   f.todos.Complete,
		"uncomplete": f.todos.Uncomplete,
		"destroy":    f.todos.Destroy,
	}
	for name, op := range ops {
		r, err := op(ctx, ref)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !r.Is(false, usecase.TypeNotFound) {
			t.Errorf("%s = %v %q, want not_found", name, r.OK(), r.Type())
		}
	}
	r, err := f.todos.Update(ctx, UpdateTodoInput{UserID: other.ID, ID: td.ID, Title: "theirs"})
	if err != nil || !r.Is(false, usecase.TypeNotFound) {
		t.Errorf("update = %v %q, %v; want not_found", r.OK(), r.Type(), err)
	}

	list, _ := f.todos.List(ctx, ListTodosInput{UserID: other.ID})
	if len(list.Value()) != 0 {
		t.Errorf("other user sees %d todos, want 0", len(list.Value()))
	}
	still, _ := f.todos.Find(ctx, TodoRef{UserID: owner.ID, ID: td.ID})
	if !still.OK() || still.Value().Title != "mine" {
		t.Errorf("owner's todo changed: %+v", still.Value())
	}
}

func TestTodoService_ListFiltersByStatus(t *testing.T) {
	f := newFixture(t)
	u := f.newUser(t, "a@example.com")
	ctx := context.Background()

	done := mustCreate(t, f.todos, CreateTodoInput{UserID: u.ID, Title: "done"})
	late := mustCreate(t, f.todos, CreateTodoInput{UserID: u.ID, Title: "late", DueAt: timePtr(testNow.Add(-time.Hour))})
	open := mustCreate(t, f.todos, CreateTodoInput{UserID: u.ID, Title: "open", DueAt: timePtr(testNow.Add(time.Hour))})
	if _, err := f.todos.Complete(ctx, TodoRef{UserID: u.ID, ID: done.ID}); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	tests := []struct {
		status string
		want   []int64
	}{
		{"", []int64{done.ID, late.ID, open.ID}},
		{"completed", []int64{done.ID}},
		{" OVERDUE ", []int64{late.ID}},
		{"uncompleted", []int64{open.ID}},
		{"bogus", []int64{done.ID, late.ID, open.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			r, err := usecase.Run[ListTodosInput, []dom.Todo](ctx, usecase.Func[ListTodosInput, []dom.Todo](f.todos.List),
				ListTodosInput{UserID: u.ID, Status: tt.status})
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if !r.Is(true, TypeTodosListed) {
				t.Fatalf("List = %v %q, want todos_listed", r.OK(), r.Type())
			}
			var got []int64
			for _, td := range r.Value() {
				got = append(got, td.ID)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTodoService_ListStatusFollowsClock(t *testing.T) {
	f := newFixture(t)
	u := f.newUser(t, "a@example.com")
	ctx := context.Background()

	mustCreate(t, f.todos, CreateTodoInput{UserID: u.ID, Title: "soon", DueAt: timePtr(testNow.Add(time.Minute))})

	r, _ := f.todos.List(ctx, ListTodosInput{UserID: u.ID, Status: "overdue"})
	if len(r.Value()) != 0 {
		t.Fatalf("overdue before due date: %d", len(r.Value()))
	}
	f.todos.WithClock(func() time.Time { return testNow.Add(2 * time.Minute) })
	r, _ = f.todos.List(ctx, ListTodosInput{UserID: u.ID, Status: "overdue"})
	if len(r.Value()) != 1 {
		t.Errorf("overdue after due date: %d, want 1", len(r.Value()))
	}
}

func TestTodoService_BatchSerialize(t *testing.T) {
	f := newFixture(t)
	u := f.newUser(t, "a@example.com")
	ctx := context.Background()

	mustCreate(t, f.todos, CreateTodoInput{UserID: u.ID, Title: "a"})
	mustCreate(t, f.todos, CreateTodoInput{UserID: u.ID, Title: "b", DueAt: timePtr(testNow.Add(-time.Hour))})

	r, err := usecase.Chain[ListTodosInput, []dom.Todo, []dto.TodoResponse](
		usecase.Func[ListTodosInput, []dom.Todo](f.todos.List),
		usecase.Func[[]dom.Todo, []dto.TodoResponse](f.todos.BatchSerialize),
	).Call(ctx, ListTodosInput{UserID: u.ID})
	if err != nil {
		t.Fatalf("List+BatchSerialize: %v", err)
	}
	if !r.Is(true, TypeTodosSerialized) {
		t.Fatalf("result = %v %q, want todos_serialized", r.OK(), r.Type())
	}
	got := r.Value()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Status != dom.StatusUncompleted || got[1].Status != dom.StatusOverdue {
		t.Errorf("statuses = %q, %q", got[0].Status, got[1].Status)
	}
}

func TestTodoService_BatchSerializeEmpty(t *testing.T) {
	f := newFixture(t)
	r, err := f.todos.BatchSerialize(context.Background(), nil)
	if err != nil {
		t.Fatalf("BatchSerialize: %v", err)
	}
	if r.Value() == nil || len(r.Value()) != 0 {
		t.Errorf("value = %#v, want empty non-nil slice", r.Value())
	}
}
