package ports

import (
	"context"

	"github.com/Apurer/gamerlink-api/internal/domains/users/domain"
)

// CreateUserInput carries the fields accepted when registering a profile.
type CreateUserInput struct {
	Username  string
	Email     string
	Nickname  string
	AvatarURL string
}

// UpdateProfileInput carries the editable profile fields.
type UpdateProfileInput struct {
	UserID    int64
	Nickname  string
	AvatarURL string
}

// Service exposes user bounded context use cases to adapters.
type Service interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, input UpdateProfileInput) (*domain.User, error)
	// ProfilesByIDs resolves many users at once, keyed by id.
	ProfilesByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error)
}
