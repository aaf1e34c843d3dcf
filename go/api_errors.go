package marketplaceserver

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	catalogapp "github.com/Apurer/gamerlink-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/gamerlink-api/internal/domains/catalog/ports"
	favoriteapp "github.com/Apurer/gamerlink-api/internal/domains/favorites/application"
	orderapp "github.com/Apurer/gamerlink-api/internal/domains/orders/application"
	orderdomain "github.com/Apurer/gamerlink-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/gamerlink-api/internal/domains/orders/ports"
	reviewapp "github.com/Apurer/gamerlink-api/internal/domains/reviews/application"
	userapp "github.com/Apurer/gamerlink-api/internal/domains/users/application"
	userports "github.com/Apurer/gamerlink-api/internal/domains/users/ports"
	apierrors "github.com/Apurer/gamerlink-api/internal/shared/errors"
)

var responder = apierrors.NewChainedResponder("",
	orderErrors,
	reviewErrors,
	favoriteErrors,
	catalogErrors,
	userErrors,
)

var jsonNamesOnce sync.Once

// useJSONFieldNames makes validator report fields by their JSON name.
func useJSONFieldNames() {
	jsonNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
	})
}

func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

// respondBindError turns binding failures into 400 problems with per-field messages when available.
func respondBindError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fe.Field()] = describeFieldError(fe)
		}
		respondProblem(c, apierrors.NewValidationProblem(fields))
		return
	}
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gt", "gte", "lt", "lte":
		return "must be " + fe.Tag() + " " + fe.Param()
	}
	return "failed " + fe.Tag() + " validation"
}

// respondServiceError maps application errors to problems. Unmapped errors are logged and answered with a 500.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func orderErrors(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, orderports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, orderapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, orderapp.ErrConflict), errors.Is(err, orderdomain.ErrInvalidTransition):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func reviewErrors(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, reviewapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, reviewapp.ErrOrderNotFound), errors.Is(err, reviewapp.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, reviewapp.ErrStatusNotReviewable), errors.Is(err, reviewapp.ErrConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func favoriteErrors(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, favoriteapp.ErrInvalidInput) {
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func catalogErrors(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, catalogapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func userErrors(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, userports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, userapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, userapp.ErrConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
