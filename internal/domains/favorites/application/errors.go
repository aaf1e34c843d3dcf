package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/gamerlink-api/internal/domains/favorites/domain"
)

// ErrInvalidInput signals a non-positive user or service id.
var ErrInvalidInput = errors.New("invalid favorite input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidUserID) || errors.Is(err, domain.ErrInvalidServiceID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
