package ports

import (
	"context"

	catalogdomain "github.com/Apurer/gamerlink-api/internal/domains/catalog/domain"
)

// Service exposes the favorite toggle use cases.
type Service interface {
	ToggleFavorite(ctx context.Context, userID, serviceID int64) (bool, error)
	IsFavorite(ctx context.Context, userID, serviceID int64) (bool, error)
	GetFavoriteServiceIDs(ctx context.Context, userID int64) ([]int64, error)
	GetFavoriteServices(ctx context.Context, userID int64) ([]*catalogdomain.Service, error)
}
