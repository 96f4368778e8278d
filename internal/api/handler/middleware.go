package handler

import (
	"grievance/backend/internal/models"
	"grievance/backend/internal/rbac"
	"grievance/backend/internal/session"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// RequireSession authenticates the bearer token and stores the session both
// in the gin context and in the request context.
func (h *Handler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
			return
		}

		sess, err := h.Auth.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(sessionKey, sess)
		c.Request = c.Request.WithContext(session.WithSession(c.Request.Context(), sess))
		c.Next()
	}
}

// Authorize rejects sessions whose role may not perform action.
func (h *Handler) Authorize(action rbac.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := currentSession(c)
		if !ok {
			abortWithError(c, models.ErrUnauthorized)
			return
		}
		if !rbac.Can(sess.Role, action) {
			abortWithError(c, models.ErrForbidden)
			return
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) (session.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return session.Session{}, false
	}
	sess, ok := v.(session.Session)
	return sess, ok
}
