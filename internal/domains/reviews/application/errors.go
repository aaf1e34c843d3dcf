package application

import (
	"errors"
	"fmt"

	orderdomain "github.com/Apurer/gamerlink-api/internal/domains/orders/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/reviews/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/reviews/ports"
)

var (
	// ErrInvalidInput signals the submission failed validation.
	ErrInvalidInput = errors.New("invalid review input")
	// ErrOrderNotFound covers both unknown orders and orders owned by someone else.
	ErrOrderNotFound = errors.New("order not found")
	// ErrStatusNotReviewable is returned when the order is not awaiting review.
	ErrStatusNotReviewable = errors.New("status does not support review")
	// ErrConflict is returned when a concurrent change or submission for the order kept this one from completing.
	ErrConflict = errors.New("order changed concurrently")
	// ErrNotFound is returned when no review exists for the order.
	ErrNotFound = ports.ErrNotFound
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrRatingOutOfRange) ||
		errors.Is(err, domain.ErrCommentTooShort) ||
		errors.Is(err, domain.ErrInvalidOrderID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrOrderChanged) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	if errors.Is(err, ports.ErrOrderMissing) {
		return ErrOrderNotFound
	}
	if errors.Is(err, orderdomain.ErrInvalidTransition) {
		return ErrStatusNotReviewable
	}
	return err
}
