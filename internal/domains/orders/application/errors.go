package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/gamerlink-api/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrConflict signals the order's current state does not allow the request.
	ErrConflict = errors.New("order state conflict")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidServiceID) ||
		errors.Is(err, domain.ErrInvalidBuyerID) ||
		errors.Is(err, domain.ErrInvalidTotalPrice) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, domain.ErrInvalidReviewID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrInvalidTransition) ||
		errors.Is(err, domain.ErrReviewLinked) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
