package identity

import (
	"errors"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/gamerlink-api/internal/shared/errors"
)

// Middleware resolves the caller and stores the session on the request context.
// Anonymous requests pass through; routes opt in with RequireUser or RequireAdmin.
func Middleware(provider Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if provider == nil {
			c.Next()
			return
		}
		session, err := provider.Resolve(c.Request)
		switch {
		case err == nil:
			c.Request = c.Request.WithContext(WithSession(c.Request.Context(), session))
		case errors.Is(err, ErrNoIdentity):
		default:
			apierrors.Respond(c, apierrors.ErrUnauthorized.WithDetail(err.Error()))
			c.Abort()
			return
		}
		c.Next()
	}
}

func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := FromContext(c.Request.Context()); !ok {
			apierrors.Respond(c, apierrors.ErrUnauthorized.WithDetail("authentication required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := FromContext(c.Request.Context())
		if !ok {
			apierrors.Respond(c, apierrors.ErrUnauthorized.WithDetail("authentication required"))
			c.Abort()
			return
		}
		if !session.IsAdmin {
			apierrors.Respond(c, apierrors.ErrForbidden.WithDetail("administrator role required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
