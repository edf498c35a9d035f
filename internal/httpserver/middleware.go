package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"secondhand-marketplace/internal/domain"
)

const (
	requestIDHeader = "X-Request-ID"
	ctxUserKey      = "auth.user"
	ctxTokenKey     = "auth.token"
)

// requestIDMiddleware propagates X-Request-ID, generating one when absent.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func recoveryHandler(c *gin.Context, _ any) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": "internal server error",
	})
}

// authMiddleware requires a valid bearer token and stores the user in the context.
func authMiddleware(svc authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			writeError(c, domain.Errorf(domain.ErrUnauthorized, "missing bearer token"))
			c.Abort()
			return
		}
		user, err := svc.Authenticate(c.Request.Context(), token)
		if err != nil {
			writeError(c, err)
			c.Abort()
			return
		}
		c.Set(ctxUserKey, user)
		c.Set(ctxTokenKey, token)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

// actingUser resolves the user id a request acts for. A client-supplied id
// must match the authenticated user; an empty one defaults to it.
func actingUser(c *gin.Context, raw, field string) (int64, error) {
	u := currentUser(c)
	if u == nil {
		return 0, domain.Errorf(domain.ErrUnauthorized, "authentication required")
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return u.ID, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid(field, "must be a positive integer")
	}
	if id != u.ID {
		return 0, domain.Errorf(domain.ErrUnauthorized, "%s does not match the signed-in user", field)
	}
	return id, nil
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid(name, "must be a positive integer")
	}
	return id, nil
}
