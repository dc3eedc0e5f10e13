package auth

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const contextKeyUserID = "user_id"

// UserIDFromContext returns the current user ID set by RequireToken. 0 if not set.
func UserIDFromContext(c *gin.Context) int64 {
	v, ok := c.Get(contextKeyUserID)
	if !ok {
		return 0
	}
	id, ok := v.(int64)
	if !ok {
		return 0
	}
	return id
}

// RequireToken returns a middleware that resolves the Authorization header
// and sets the current user ID in context. If missing or unknown, responds with
// an empty 401.
func RequireToken(r *Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := ParseToken(c.GetHeader("Authorization"))
		if !ok {
			deny(c)
			return
		}
		userID, ok, err := r.Resolve(c.Request.Context(), token)
		if err != nil {
			slog.Error("resolve token", "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if !ok {
			deny(c)
			return
		}
		c.Set(contextKeyUserID, userID)
		c.Next()
	}
}

func deny(c *gin.Context) {
	c.Header("WWW-Authenticate", `Token realm="Application"`)
	c.AbortWithStatus(http.StatusUnauthorized)
}
