package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/gamerlink-api/internal/domains/catalog/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid service input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyTitle) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		errors.Is(err, domain.ErrInvalidRating) ||
		errors.Is(err, domain.ErrNegativeCounter) ||
		errors.Is(err, domain.ErrEmptyCategory) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
