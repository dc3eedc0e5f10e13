package handlers

import (
	"net/http"

	"github.com/nicolaskelepuris/refactor-rails-app/internal/auth"
	dom "github.com/nicolaskelepuris/refactor-rails-app/internal/domain"
	"github.com/nicolaskelepuris/refactor-rails-app/internal/dto"
	"github.com/nicolaskelepuris/refactor-rails-app/internal/service"
	"github.com/nicolaskelepuris/refactor-rails-app/internal/usecase"

	"github.com/gin-gonic/gin"
)

type TodoHandler struct {
	show       usecase.Func[service.TodoRef, dto.TodoResponse]
	create     usecase.Func[service.CreateTodoInput, dto.TodoResponse]
	update     usecase.Func[service.UpdateTodoInput, dto.TodoResponse]
	complete   usecase.Func[service.TodoRef, dto.TodoResponse]
	uncomplete usecase.Func[service.TodoRef, dto.TodoResponse]
	destroy    usecase.Func[service.TodoRef, dto.TodoResponse]
	list       usecase.Func[service.ListTodosInput, []dto.TodoResponse]
}

// NewTodoHandler composes each todo operation with serialization.
func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	serialize := usecase.Func[dom.Todo, dto.TodoResponse](svc.Serialize)
	return &TodoHandler{
		show:       serialized[service.TodoRef](svc.Find, serialize),
		create:     serialized[service.CreateTodoInput](svc.Create, serialize),
		update:     serialized[service.UpdateTodoInput](svc.Update, serialize),
		complete:   serialized[service.TodoRef](svc.Complete, serialize),
		uncomplete: serialized[service.TodoRef](svc.Uncomplete, serialize),
		destroy:    serialized[service.TodoRef](svc.Destroy, serialize),
		list: usecase.Chain[service.ListTodosInput, []dom.Todo, []dto.TodoResponse](
			usecase.Func[service.ListTodosInput, []dom.Todo](svc.List),
			usecase.Func[[]dom.Todo, []dto.TodoResponse](svc.BatchSerialize),
		),
	}
}

func serialized[I any](op usecase.Func[I, dom.Todo], serialize usecase.Func[dom.Todo, dto.TodoResponse]) usecase.Func[I, dto.TodoResponse] {
	return usecase.Chain[I, dom.Todo, dto.TodoResponse](op, serialize)
}

// List godoc
// @Summary      List todos
// @Tags         todos
// @Produce      json
// @Security     TokenAuth
// @Param        status  query     string  false  "completed, overdue or uncompleted"
// @Success      200     {object}  dto.TodoListEnvelope
// @Failure      401
// @Failure      500     {object}  map[string]string
// @Router       /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	in := service.ListTodosInput{UserID: auth.UserIDFromContext(c), Status: c.Query("status")}
	r, err := usecase.Run[service.ListTodosInput, []dto.TodoResponse](c.Request.Context(), h.list, in)
	respond(c, "todos", http.StatusOK, r, err)
}

// Show godoc
// @Summary      Get a todo by ID
// @Tags         todos
// @Produce      json
// @Security     TokenAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  dto.TodoEnvelope
// @Failure      401
// @Failure      404  {object}  map[string]map[string]string
// @Router       /todos/{id} [get]
func (h *TodoHandler) Show(c *gin.Context) {
	r, err := usecase.Run[service.TodoRef, dto.TodoResponse](c.Request.Context(), h.show, todoRef(c))
	respond(c, "todo", http.StatusOK, r, err)
}

// Create godoc
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        body  body      dto.TodoRequest  true  "Todo body"
// @Success      201   {object}  dto.TodoEnvelope
// @Failure      400   {object}  map[string]string
// @Failure      401
// @Failure      422   {object}  map[string]map[string][]string
// @Router       /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.TodoRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := usecase.Require("todo", !req.Todo.Empty()); err != nil {
		renderFault(c, err)
		return
	}
	in := service.CreateTodoInput{
		UserID: auth.UserIDFromContext(c),
		Title:  req.Todo.TitleValue(),
		DueAt:  req.Todo.DueAt.Ptr(),
	}
	r, err := usecase.Run[service.CreateTodoInput, dto.TodoResponse](c.Request.Context(), h.create, in)
	respond(c, "todo", http.StatusCreated, r, err)
}

// Update godoc
// @Summary      Replace a todo's title and due date
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id    path      int              true  "Todo ID"
// @Param        body  body      dto.TodoRequest  true  "Todo body"
// @Success      200   {object}  dto.TodoEnvelope
// @Failure      400   {object}  map[string]string
// @Failure      401
// @Failure      404   {object}  map[string]map[string]string
// @Failure      422   {object}  map[string]map[string][]string
// @Router       /todos/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	var req dto.TodoRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := usecase.Require("todo", !req.Todo.Empty()); err != nil {
		renderFault(c, err)
		return
	}
	in := service.UpdateTodoInput{
		UserID: auth.UserIDFromContext(c),
		ID:     pathID(c, "id"),
		Title:  req.Todo.TitleValue(),
		DueAt:  req.Todo.DueAt.Ptr(),
	}
	r, err := usecase.Run[service.UpdateTodoInput, dto.TodoResponse](c.Request.Context(), h.update, in)
	respond(c, "todo", http.StatusOK, r, err)
}

// Complete godoc
// @Summary      Mark a todo as completed
// @Tags         todos
// @Produce      json
// @Security     TokenAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  dto.TodoEnvelope
// @Failure      401
// @Failure      404  {object}  map[string]map[string]string
// @Router       /todos/{id}/complete [put]
func (h *TodoHandler) Complete(c *gin.Context) {
	r, err := usecase.Run[service.TodoRef, dto.TodoResponse](c.Request.Context(), h.complete, todoRef(c))
	respond(c, "todo", http.StatusOK, r, err)
}

// Uncomplete godoc
// @Summary      Mark a todo as not completed
// @Tags         todos
// @Produce      json
// @Security     TokenAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  dto.TodoEnvelope
// @Failure      401
// @Failure      404  {object}  map[string]map[string]string
// @Router       /todos/{id}/uncomplete [put]
func (h *TodoHandler) Uncomplete(c *gin.Context) {
	r, err := usecase.Run[service.TodoRef, dto.TodoResponse](c.Request.Context(), h.uncomplete, todoRef(c))
	respond(c, "todo", http.StatusOK, r, err)
}

// Destroy godoc
// @Summary      Delete a todo
// @Tags         todos
// @Produce      json
// @Security     TokenAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  dto.TodoEnvelope
// @Failure      401
// @Failure      404  {object}  map[string]map[string]string
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Destroy(c *gin.Context) {
	r, err := usecase.Run[service.TodoRef, dto.TodoResponse](c.Request.Context(), h.destroy, todoRef(c))
	respond(c, "todo", http.StatusOK, r, err)
}

func todoRef(c *gin.Context) service.TodoRef {
	return service.TodoRef{UserID: auth.UserIDFromContext(c), ID: pathID(c, "id")}
}
