package ports

import (
	"context"
	"errors"

	orderdomain "github.com/Apurer/gamerlink-api/internal/domains/orders/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/reviews/domain"
)

var (
	ErrNotFound = errors.New("review not found")
	// ErrDuplicateReview is returned by Tx.Insert when the order already has a review.
	ErrDuplicateReview = errors.New("review already exists for order")
	// ErrOrderMissing is returned by Tx.LockOrder for unknown orders.
	ErrOrderMissing = errors.New("order missing")
	// ErrOrderChanged is returned on commit when the order was modified outside the transaction.
	// Nothing from the transaction is applied; callers may rerun it.
	ErrOrderChanged = errors.New("order changed during transaction")
)

// Store is the review persistence boundary.
type Store interface {
	GetByOrderID(ctx context.Context, orderID int64) (*domain.Review, error)
	// ListByService returns reviews newest first.
	ListByService(ctx context.Context, serviceID int64) ([]*domain.Review, error)
	// WithinTx runs fn in one transaction. Any error rolls back every write made through tx.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of operations available inside a submission transaction.
type Tx interface {
	// LockOrder loads the order and holds it exclusively until the transaction ends.
	LockOrder(ctx context.Context, orderID int64) (*orderdomain.Order, error)
	SaveOrder(ctx context.Context, order *orderdomain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	FindByOrderID(ctx context.Context, orderID int64) (*domain.Review, error)
	Insert(ctx context.Context, review *domain.Review) (*domain.Review, error)
	RatingStats(ctx context.Context, serviceID int64) (count int, sum int64, err error)
	SetServiceRating(ctx context.Context, serviceID int64, summary domain.RatingSummary) error
}

// AuthorDirectory resolves review authors. Unknown ids are absent from the result.
type AuthorDirectory interface {
	Authors(ctx context.Context, userIDs []int64) (map[int64]domain.Author, error)
}
