package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/gamerlink-api/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// MutateFunc edits a locked order in place. Returning an error aborts the write.
type MutateFunc func(order *domain.Order) error

type Repository interface {
	// Create persists a new order. A zero ID is assigned by storage.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// Mutate loads the order under a write lock, applies fn and persists the result atomically.
	Mutate(ctx context.Context, id int64, fn MutateFunc) (*domain.Order, error)
	// ListByBuyer returns the buyer's orders, newest first.
	ListByBuyer(ctx context.Context, buyerID int64) ([]*domain.Order, error)
	// List returns every order, newest first.
	List(ctx context.Context) ([]*domain.Order, error)
	// ListStale returns orders in status whose order date is before the cutoff.
	ListStale(ctx context.Context, status domain.Status, before time.Time) ([]*domain.Order, error)
}
