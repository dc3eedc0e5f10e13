package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/nicolaskelepuris/refactor-rails-app/internal/usecase"

	"github.com/gin-gonic/gin"
)

// respond writes the outcome of an operation under the JSON key key.
// Success answers with status; not_found answers 404 and unprocessable_entity 422.
func respond[T any](c *gin.Context, key string, status int, r usecase.Result[T], err error) {
	if err != nil {
		renderFault(c, err)
		return
	}
	usecase.On(r).
		Failure(usecase.TypeNotFound, func(errs usecase.Errors) {
			c.JSON(http.StatusNotFound, gin.H{key: firstMessages(errs)})
		}).
		Failure(usecase.TypeUnprocessableEntity, func(errs usecase.Errors) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{key: errs})
		}).
		Success(func(v T) {
			c.JSON(status, gin.H{key: v})
		}).
		Otherwise(func(r usecase.Result[T]) {
			slog.Error("unhandled result", slog.String("type", string(r.Type())))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		})
}

// renderFault answers 400 for missing input and 500 for anything else.
func renderFault(c *gin.Context, err error) {
	var missing *usecase.MissingInputError
	if errors.As(err, &missing) {
		c.JSON(http.StatusBadRequest, gin.H{"error": missing.Error()})
		return
	}
	slog.Error("request failed",
		slog.String("path", c.FullPath()),
		slog.String("error", err.Error()),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// bindJSON decodes the body into obj. An empty body is not an error; the
// caller reports the missing object.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// firstMessages flattens violations to one message per field.
func firstMessages(errs usecase.Errors) map[string]string {
	out := make(map[string]string, len(errs))
	for field, msgs := range errs {
		if len(msgs) > 0 {
			out[field] = msgs[0]
		}
	}
	return out
}

// pathID reads a numeric path parameter. Anything unparsable is 0, which no
// row has, so it reads as not found.
func pathID(c *gin.Context, name string) int64 {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
