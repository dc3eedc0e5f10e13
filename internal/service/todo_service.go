package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	dom "github.com/nicolaskelepuris/refactor-rails-app/internal/domain"
	"github.com/nicolaskelepuris/refactor-rails-app/internal/dto"
	"github.com/nicolaskelepuris/refactor-rails-app/internal/repo"
	"github.com/nicolaskelepuris/refactor-rails-app/internal/usecase"

	"golang.org/x/sync/singleflight"
)

// Success tags produced by todo operations.
const (
	TypeTodoFound       usecase.Type = "todo_found"
	TypeTodoCreated     usecase.Type = "todo_created"
	TypeTodoUpdated     usecase.Type = "todo_updated"
	TypeTodoCompleted   usecase.Type = "todo_completed"
	TypeTodoUncompleted usecase.Type = "todo_uncompleted"
	TypeTodoDeleted     usecase.Type = "todo_deleted"
	TypeTodosListed     usecase.Type = "todos_listed"
	TypeTodoSerialized  usecase.Type = "todo_serialized"
	TypeTodosSerialized usecase.Type = "todos_serialized"
)

// TodoRef addresses one todo of one owner.
type TodoRef struct {
	UserID int64
	ID     int64
}

func (in TodoRef) Normalize() (TodoRef, error) {
	return in, usecase.Require("user", in.UserID > 0)
}

type CreateTodoInput struct {
	UserID int64
	Title  string
	DueAt  *time.Time
}

func (in CreateTodoInput) Normalize() (CreateTodoInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	return in, usecase.Require("user", in.UserID > 0)
}

// UpdateTodoInput replaces both title and due_at of an existing todo.
type UpdateTodoInput struct {
	UserID int64
	ID     int64
	Title  string
	DueAt  *time.Time
}

func (in UpdateTodoInput) Normalize() (UpdateTodoInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	return in, usecase.Require("user", in.UserID > 0)
}

// ListTodosInput selects an owner's todos. Status is an optional filter;
// unknown values select everything.
type ListTodosInput struct {
	UserID int64
	Status string
}

func (in ListTodosInput) Normalize() (ListTodosInput, error) {
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	return in, usecase.Require("user", in.UserID > 0)
}

// ListCache holds each owner's stored todos under a generation that every
// write advances. Implemented by cache.TodoCache.
type ListCache interface {
	Generation(ctx context.Context, userID int64) (int64, error)
	GetList(ctx context.Context, userID, gen int64) ([]dom.Todo, error)
	SetList(ctx context.Context, userID, gen int64, list []dom.Todo) error
	Invalidate(ctx context.Context, userID int64) error
}

type TodoService struct {
	repo  repo.TodoRepo
	cache ListCache
	sf    singleflight.Group
	now   func() time.Time
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, c ListCache) *TodoService {
	return &TodoService{repo: r, cache: c, now: time.Now}
}

// WithClock replaces the clock used to derive status and completion times.
func (s *TodoService) WithClock(now func() time.Time) *TodoService {
	s.now = now
	return s
}

// Find loads one todo of the owner. Rows of other owners are not found.
func (s *TodoService) Find(ctx context.Context, in TodoRef) (usecase.Result[dom.Todo], error) {
	t, err := s.repo.GetByID(ctx, in.UserID, in.ID)
	if err != nil {
		return notFoundOr[dom.Todo](err)
	}
	return usecase.Success(TypeTodoFound, t), nil
}

// Create validates the title and stores a new todo. Nothing is written when
// validation fails.
func (s *TodoService) Create(ctx context.Context, in CreateTodoInput) (usecase.Result[dom.Todo], error) {
	errs := usecase.Errors{}
	if !errs.RequirePresent("title", in.Title) {
		return usecase.Unprocessable[dom.Todo](errs), nil
	}
	t, err := s.repo.Create(ctx, dom.Todo{
		UserID: in.UserID,
		Title:  in.Title,
		DueAt:  in.DueAt,
	})
	if err != nil {
		return usecase.Result[dom.Todo]{}, err
	}
	s.invalidateCache(ctx, in.UserID)
	return usecase.Success(TypeTodoCreated, t), nil
}

// Update finds the todo and replaces its title and due date.
func (s *TodoService) Update(ctx context.Context, in UpdateTodoInput) (usecase.Result[dom.Todo], error) {
	found, err := s.Find(ctx, TodoRef{UserID: in.UserID, ID: in.ID})
	return usecase.Then[dom.Todo, dom.Todo](ctx, found, err, usecase.Func[dom.Todo, dom.Todo](
		func(ctx context.Context, t dom.Todo) (usecase.Result[dom.Todo], error) {
			errs := usecase.Errors{}
			if !errs.RequirePresent("title", in.Title) {
				return usecase.Unprocessable[dom.Todo](errs), nil
			}
			t.Title = in.Title
			t.DueAt = in.DueAt
			return s.save(ctx, TypeTodoUpdated, t)
		}))
}

// Complete marks the todo completed. Completing twice keeps the first
// completion time and writes nothing.
func (s *TodoService) Complete(ctx context.Context, in TodoRef) (usecase.Result[dom.Todo], error) {
	found, err := s.Find(ctx, in)
	return usecase.Then[dom.Todo, dom.Todo](ctx, found, err, usecase.Func[dom.Todo, dom.Todo](
		func(ctx context.Context, t dom.Todo) (usecase.Result[dom.Todo], error) {
			if !t.Complete(s.now()) {
				return usecase.Success(TypeTodoCompleted, t), nil
			}
			return s.save(ctx, TypeTodoCompleted, t)
		}))
}

// Uncomplete clears the completion time.
func (s *TodoService) Uncomplete(ctx context.Context, in TodoRef) (usecase.Result[dom.Todo], error) {
	found, err := s.Find(ctx, in)
	return usecase.Then[dom.Todo, dom.Todo](ctx, found, err, usecase.Func[dom.Todo, dom.Todo](
		func(ctx context.Context, t dom.Todo) (usecase.Result[dom.Todo], error) {
			if !t.Uncomplete() {
				return usecase.Success(TypeTodoUncompleted, t), nil
			}
			return s.save(ctx, TypeTodoUncompleted, t)
		}))
}

// Destroy removes the todo and yields it as it was before deletion.
func (s *TodoService) Destroy(ctx context.Context, in TodoRef) (usecase.Result[dom.Todo], error) {
	found, err := s.Find(ctx, in)
	return usecase.Then[dom.Todo, dom.Todo](ctx, found, err, usecase.Func[dom.Todo, dom.Todo](
		func(ctx context.Context, t dom.Todo) (usecase.Result[dom.Todo], error) {
			if err := s.repo.Delete(ctx, t.UserID, t.ID); err != nil {
				return notFoundOr[dom.Todo](err)
			}
			s.invalidateCache(ctx, t.UserID)
			return usecase.Success(TypeTodoDeleted, t), nil
		}))
}

// List returns the owner's todos in id order, filtered by derived status.
func (s *TodoService) List(ctx context.Context, in ListTodosInput) (usecase.Result[[]dom.Todo], error) {
	list, err := s.load(ctx, in.UserID)
	if err != nil {
		return usecase.Result[[]dom.Todo]{}, err
	}
	if st, perr := dom.ParseStatus(in.Status); perr == nil {
		list = dom.FilterByStatus(list, st, s.now())
	}
	return usecase.Success(TypeTodosListed, list), nil
}

// Serialize renders one todo with its status derived now.
func (s *TodoService) Serialize(_ context.Context, t dom.Todo) (usecase.Result[dto.TodoResponse], error) {
	return usecase.Success(TypeTodoSerialized, dto.NewTodoResponse(t, s.now())), nil
}

// BatchSerialize renders a list of todos against a single clock reading.
func (s *TodoService) BatchSerialize(_ context.Context, list []dom.Todo) (usecase.Result[[]dto.TodoResponse], error) {
	now := s.now()
	out := make([]dto.TodoResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.NewTodoResponse(t, now))
	}
	return usecase.Success(TypeTodosSerialized, out), nil
}

func (s *TodoService) save(ctx context.Context, typ usecase.Type, t dom.Todo) (usecase.Result[dom.Todo], error) {
	saved, err := s.repo.Update(ctx, t)
	if err != nil {
		return notFoundOr[dom.Todo](err)
	}
	s.invalidateCache(ctx, t.UserID)
	return usecase.Success(typ, saved), nil
}

func (s *TodoService) load(ctx context.Context, userID int64) ([]dom.Todo, error) {
	if s.cache == nil {
		return s.repo.List(ctx, userID)
	}
	// The generation is read before the store so a concurrent write can only
	// make this list land under a superseded key.
	gen, err := s.cache.Generation(ctx, userID)
	if err != nil {
		return s.repo.List(ctx, userID)
	}
	key := "list:" + strconv.FormatInt(userID, 10) + ":" + strconv.FormatInt(gen, 10)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if list, err := s.cache.GetList(ctx, userID, gen); err == nil && list != nil {
			return list, nil
		}
		list, err := s.repo.List(ctx, userID)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetList(ctx, userID, gen, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	// Shared across singleflight callers; filtering must not alias it.
	return append([]dom.Todo(nil), v.([]dom.Todo)...), nil
}

func (s *TodoService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
}

// notFoundOr turns a repo miss into a not_found Result and passes other errors through.
func notFoundOr[T any](err error) (usecase.Result[T], error) {
	if errors.Is(err, repo.ErrNotFound) {
		return usecase.Failure[T](usecase.TypeNotFound, usecase.NotFound()), nil
	}
	return usecase.Result[T]{}, err
}
