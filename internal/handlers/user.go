package handlers

import (
	"net/http"

	"github.com/nicolaskelepuris/refactor-rails-app/internal/dto"
	"github.com/nicolaskelepuris/refactor-rails-app/internal/service"
	"github.com/nicolaskelepuris/refactor-rails-app/internal/usecase"

	"github.com/gin-gonic/gin"
)

// UserHandler handles registration.
type UserHandler struct {
	register usecase.Func[service.RegisterUserInput, dto.UserResponse]
}

// NewUserHandler returns a new UserHandler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{register: svc.Register}
}

// Register godoc
// @Summary      Register a user
// @Description  Returns the bearer token used by every todo endpoint.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterRequest  true  "User body"
// @Success      201   {object}  dto.UserEnvelope
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]map[string][]string
// @Router       /users [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := usecase.Require("user", !req.User.Empty()); err != nil {
		renderFault(c, err)
		return
	}
	in := service.RegisterUserInput{
		Name:                 req.User.Name,
		Email:                req.User.Email,
		Password:             req.User.Password,
		PasswordConfirmation: req.User.PasswordConfirmation,
	}
	r, err := usecase.Run[service.RegisterUserInput, dto.UserResponse](c.Request.Context(), h.register, in)
	respond(c, "user", http.StatusCreated, r, err)
}
