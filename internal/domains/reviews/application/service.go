package application

import (
	"context"
	"errors"
	"time"

	orderdomain "github.com/Apurer/gamerlink-api/internal/domains/orders/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/reviews/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/reviews/ports"
)

// txAttempts bounds reruns of a transaction whose order changed before commit.
const txAttempts = 3

// Service implements review submission and the rating aggregator.
type Service struct {
	store   ports.Store
	authors ports.AuthorDirectory
	clock   func() time.Time
}

type Option func(*Service)

func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewService wires the review service. authors may be nil, in which case every author is anonymous.
func NewService(store ports.Store, authors ports.AuthorDirectory, opts ...Option) *Service {
	s := &Service{store: store, authors: authors, clock: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// SubmitReview validates, then completes the order and recomputes the service rating in one transaction.
// Replays of an already reviewed order succeed with AlreadyReviewed set.
func (s *Service) SubmitReview(ctx context.Context, input ports.SubmitReviewInput) (*ports.SubmitResult, error) {
	comment, err := domain.ValidateSubmission(input.Rating, input.Comment)
	if err != nil {
		return nil, mapError(err)
	}

	var result *ports.SubmitResult
	err = s.withinTx(ctx, func(tx ports.Tx) error {
		order, err := lockOwnedOrder(ctx, tx, input)
		if err != nil {
			return err
		}
		if order.ReviewID != nil {
			existing, err := existingReview(ctx, tx, order.ID, *order.ReviewID)
			if err != nil {
				return err
			}
			result = &ports.SubmitResult{Order: order, Review: existing, AlreadyReviewed: true}
			return nil
		}
		if !order.Status.Reviewable() {
			return ErrStatusNotReviewable
		}

		now := s.clock()
		review, err := domain.NewReview(order.ID, order.ServiceID, input.UserID, input.Rating, comment, now)
		if err != nil {
			return err
		}
		inserted, err := tx.Insert(ctx, review)
		if err != nil {
			return err
		}
		if err := order.CompleteWithReview(inserted.ID, now); err != nil {
			return err
		}
		if err := tx.SaveOrder(ctx, order); err != nil {
			return err
		}
		if _, err := recomputeRating(ctx, tx, order.ServiceID); err != nil {
			return err
		}
		result = &ports.SubmitResult{Order: order, Review: inserted}
		return nil
	})
	if errors.Is(err, ports.ErrDuplicateReview) {
		return s.replay(ctx, input)
	}
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// replay loads the review written by a concurrent submitter that won the unique index.
func (s *Service) replay(ctx context.Context, input ports.SubmitReviewInput) (*ports.SubmitResult, error) {
	var result *ports.SubmitResult
	err := s.withinTx(ctx, func(tx ports.Tx) error {
		order, err := lockOwnedOrder(ctx, tx, input)
		if err != nil {
			return err
		}
		existing, err := tx.FindByOrderID(ctx, order.ID)
		if err != nil {
			return err
		}
		result = &ports.SubmitResult{Order: order, Review: existing, AlreadyReviewed: true}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func (s *Service) GetReviewByOrderID(ctx context.Context, orderID int64) (*domain.Review, error) {
	return s.store.GetByOrderID(ctx, orderID)
}

// GetServiceReviews lists reviews newest first with their authors' display fields.
func (s *Service) GetServiceReviews(ctx context.Context, serviceID int64) ([]domain.ReviewWithAuthor, error) {
	reviews, err := s.store.ListByService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	authors := map[int64]domain.Author{}
	if s.authors != nil && len(reviews) > 0 {
		ids := make([]int64, 0, len(reviews))
		seen := make(map[int64]struct{}, len(reviews))
		for _, r := range reviews {
			if _, ok := seen[r.UserID]; !ok {
				seen[r.UserID] = struct{}{}
				ids = append(ids, r.UserID)
			}
		}
		if authors, err = s.authors.Authors(ctx, ids); err != nil {
			return nil, err
		}
	}
	result := make([]domain.ReviewWithAuthor, 0, len(reviews))
	for _, r := range reviews {
		var author *domain.Author
		if a, ok := authors[r.UserID]; ok {
			author = &a
		}
		result = append(result, domain.WithAuthor(r, author))
	}
	return result, nil
}

// RecomputeRating rebuilds a service's rating in its own transaction.
func (s *Service) RecomputeRating(ctx context.Context, serviceID int64) (domain.RatingSummary, error) {
	var summary domain.RatingSummary
	err := s.withinTx(ctx, func(tx ports.Tx) error {
		var err error
		summary, err = recomputeRating(ctx, tx, serviceID)
		return err
	})
	if err != nil {
		return domain.RatingSummary{}, mapError(err)
	}
	return summary, nil
}

// withinTx reruns fn from scratch while the store reports the order changed under it.
func (s *Service) withinTx(ctx context.Context, fn func(tx ports.Tx) error) error {
	var err error
	for attempt := 0; attempt < txAttempts; attempt++ {
		err = s.store.WithinTx(ctx, fn)
		if !errors.Is(err, ports.ErrOrderChanged) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return err
}

func lockOwnedOrder(ctx context.Context, tx ports.Tx, input ports.SubmitReviewInput) (*orderdomain.Order, error) {
	order, err := tx.LockOrder(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != input.UserID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func existingReview(ctx context.Context, tx ports.Tx, orderID, reviewID int64) (*domain.Review, error) {
	review, err := tx.GetByID(ctx, reviewID)
	if errors.Is(err, ports.ErrNotFound) {
		return tx.FindByOrderID(ctx, orderID)
	}
	return review, err
}

var _ ports.Service = (*Service)(nil)
