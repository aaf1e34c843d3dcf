package marketplaceserver

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Apurer/gamerlink-api/internal/platform/observability"
	apierrors "github.com/Apurer/gamerlink-api/internal/shared/errors"
)

const HeaderRequestID = apierrors.HeaderRequestID

// Initializer prepares storage before the first request is served.
type Initializer interface {
	Ensure(ctx context.Context) error
}

// RequestID echoes the caller's request id or assigns a new one, and puts it on the request context for logging.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Header(HeaderRequestID, id)
		c.Request = c.Request.WithContext(observability.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// RequireInitialized blocks API routes until storage is ready and answers 503 while it is not.
func RequireInitialized(init Initializer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if init == nil {
			c.Next()
			return
		}
		if err := init.Ensure(c.Request.Context()); err != nil {
			apierrors.Respond(c, apierrors.ErrUnavailable.WithDetail("storage is not ready"))
			c.Abort()
			return
		}
		c.Next()
	}
}
