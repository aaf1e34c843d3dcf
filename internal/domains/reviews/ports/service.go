package ports

import (
	"context"

	orderdomain "github.com/Apurer/gamerlink-api/internal/domains/orders/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/reviews/domain"
)

// SubmitReviewInput is a buyer's review of one of their orders.
type SubmitReviewInput struct {
	OrderID int64
	UserID  int64
	Rating  int
	Comment string
}

// SubmitResult is the outcome of a submission. AlreadyReviewed marks an idempotent replay.
type SubmitResult struct {
	Order           *orderdomain.Order
	Review          *domain.Review
	AlreadyReviewed bool
}

// Message is the human-readable outcome.
func (r *SubmitResult) Message() string {
	if r != nil && r.AlreadyReviewed {
		return "already reviewed"
	}
	return "review submitted"
}

// Service exposes the review use cases to adapters.
type Service interface {
	SubmitReview(ctx context.Context, input SubmitReviewInput) (*SubmitResult, error)
	GetReviewByOrderID(ctx context.Context, orderID int64) (*domain.Review, error)
	GetServiceReviews(ctx context.Context, serviceID int64) ([]domain.ReviewWithAuthor, error)
	RecomputeRating(ctx context.Context, serviceID int64) (domain.RatingSummary, error)
}

// WorkflowOrchestrator runs review submissions, durably when a workflow engine is available.
type WorkflowOrchestrator interface {
	SubmitReview(ctx context.Context, input SubmitReviewInput) (*SubmitResult, error)
}
