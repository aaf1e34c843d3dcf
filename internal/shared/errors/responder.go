package errors

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// HeaderRequestID is read back from the response so problems can be correlated with logs.
const HeaderRequestID = "X-Request-ID"

// ErrorMapper maps domain/application errors to ProblemDetail.
type ErrorMapper func(err error) (ProblemDetail, bool)

// Responder writes problem responses. Errors are resolved through the mapper chain first,
// then by unwrapping to a ProblemDetail; anything left is logged and answered as a 500.
type Responder struct {
	// BaseURI is prepended to relative problem type URIs.
	BaseURI string
	// Logger receives unmapped errors. Defaults to slog.Default().
	Logger  *slog.Logger
	mappers []ErrorMapper
}

// NewChainedResponder creates a responder with custom error mappers.
func NewChainedResponder(baseURI string, mappers ...ErrorMapper) *Responder {
	return &Responder{BaseURI: baseURI, mappers: mappers}
}

var defaultResponder = NewChainedResponder("")

// Respond writes problem using a responder without mappers.
func Respond(c *gin.Context, problem ProblemDetail) {
	defaultResponder.Respond(c, problem)
}

// Respond sends problem with the problem+json content type. Instance defaults to the request path
// and the request id, when the response carries one, is added as an extension.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.BaseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.BaseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	if id := c.Writer.Header().Get(HeaderRequestID); id != "" {
		extensions := make(map[string]any, len(problem.Extensions)+1)
		for k, v := range problem.Extensions {
			extensions[k] = v
		}
		extensions["requestId"] = id
		problem.Extensions = extensions
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError answers err as a problem. The cause of an unmapped error is only logged.
func (r *Responder) RespondError(c *gin.Context, err error) {
	if problem, ok := r.Problem(err); ok {
		r.Respond(c, problem)
		return
	}
	r.logger().ErrorContext(c.Request.Context(), "request failed",
		slog.String("method", c.Request.Method),
		slog.String("route", c.FullPath()),
		slog.String("error", err.Error()))
	r.Respond(c, ErrInternal.WithDetail("unexpected error"))
}

// Problem resolves err without responding.
func (r *Responder) Problem(err error) (ProblemDetail, bool) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			return problem, true
		}
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem, true
	}
	return ProblemDetail{}, false
}

func (r *Responder) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
