package reviews

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/gamerlink-api/internal/domains/reviews/application"
	"github.com/Apurer/gamerlink-api/internal/domains/reviews/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/reviews/ports"
)

const (
	// SubmitReviewActivityName runs the transactional review submission.
	SubmitReviewActivityName = "reviews.activities.SubmitReview"

	ErrTypeRatingOutOfRange    = "RatingOutOfRange"
	ErrTypeCommentTooShort     = "CommentTooShort"
	ErrTypeInvalidInput        = "InvalidReviewInput"
	ErrTypeOrderNotFound       = "OrderNotFound"
	ErrTypeStatusNotReviewable = "StatusNotReviewable"
)

// NonRetryableErrorTypes lists the application error types that never succeed on retry.
var NonRetryableErrorTypes = []string{
	ErrTypeRatingOutOfRange,
	ErrTypeCommentTooShort,
	ErrTypeInvalidInput,
	ErrTypeOrderNotFound,
	ErrTypeStatusNotReviewable,
}

// Activities groups activities that operate on the reviews bounded context.
type Activities struct {
	service ports.Service
}

func NewActivities(service ports.Service) *Activities {
	return &Activities{service: service}
}

// SubmitReview runs one submission attempt. Business rejections are returned as non-retryable errors.
func (a *Activities) SubmitReview(ctx context.Context, input ports.SubmitReviewInput) (*ports.SubmitResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("review submission activity not initialized", "orderId", input.OrderID)
		return nil, errors.New("review submission activity not initialized")
	}
	logger.Info("SubmitReview activity started", "orderId", input.OrderID, "userId", input.UserID)
	result, err := a.service.SubmitReview(ctx, input)
	if err != nil {
		logger.Error("SubmitReview activity failed", "orderId", input.OrderID, "error", err)
		return nil, EncodeError(err)
	}
	logger.Info("SubmitReview activity completed", "orderId", input.OrderID, "reviewId", result.Review.ID, "alreadyReviewed", result.AlreadyReviewed)
	return result, nil
}

// EncodeError converts business rejections into typed non-retryable application errors.
func EncodeError(err error) error {
	errType := ""
	switch {
	case errors.Is(err, domain.ErrRatingOutOfRange):
		errType = ErrTypeRatingOutOfRange
	case errors.Is(err, domain.ErrCommentTooShort):
		errType = ErrTypeCommentTooShort
	case errors.Is(err, application.ErrInvalidInput):
		errType = ErrTypeInvalidInput
	case errors.Is(err, application.ErrOrderNotFound):
		errType = ErrTypeOrderNotFound
	case errors.Is(err, application.ErrStatusNotReviewable):
		errType = ErrTypeStatusNotReviewable
	default:
		return err
	}
	return temporal.NewNonRetryableApplicationError(err.Error(), errType, err)
}

// DecodeError restores the application sentinels from a workflow or activity failure.
func DecodeError(err error) error {
	var appErr *temporal.ApplicationError
	if err == nil || !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case ErrTypeRatingOutOfRange:
		return fmt.Errorf("%w: %w", application.ErrInvalidInput, domain.ErrRatingOutOfRange)
	case ErrTypeCommentTooShort:
		return fmt.Errorf("%w: %w", application.ErrInvalidInput, domain.ErrCommentTooShort)
	case ErrTypeInvalidInput:
		return fmt.Errorf("%w: %s", application.ErrInvalidInput, appErr.Error())
	case ErrTypeOrderNotFound:
		return application.ErrOrderNotFound
	case ErrTypeStatusNotReviewable:
		return application.ErrStatusNotReviewable
	}
	return err
}
