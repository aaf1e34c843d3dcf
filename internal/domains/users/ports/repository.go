package ports

import (
	"context"
	"errors"

	"github.com/Apurer/gamerlink-api/internal/domains/users/domain"
)

var (
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when the username or email is already taken.
	ErrDuplicate = errors.New("username or email already registered")
)

type Repository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	// ListByIDs returns the users that exist among ids, in no particular order.
	ListByIDs(ctx context.Context, ids []int64) ([]*domain.User, error)
}
