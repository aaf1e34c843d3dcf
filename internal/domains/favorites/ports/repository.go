package ports

import (
	"context"
	"time"

	catalogdomain "github.com/Apurer/gamerlink-api/internal/domains/catalog/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/favorites/domain"
)

type Repository interface {
	// Toggle flips the presence of the (user, service) pair and reports whether it is now a favorite.
	Toggle(ctx context.Context, userID, serviceID int64, now time.Time) (bool, error)
	Exists(ctx context.Context, userID, serviceID int64) (bool, error)
	// ListServiceIDs returns the user's favorite service ids, newest first.
	ListServiceIDs(ctx context.Context, userID int64) ([]int64, error)
	// Add inserts the favorite unless it already exists. Used by seeding.
	Add(ctx context.Context, favorite *domain.Favorite) error
}

// ServiceCatalog resolves favorite ids into catalog services.
type ServiceCatalog interface {
	ListServicesByIDs(ctx context.Context, ids []int64) ([]*catalogdomain.Service, error)
}
