package ports

import (
	"context"

	"github.com/Apurer/gamerlink-api/internal/domains/catalog/domain"
)

// Service defines the catalog use cases exposed to adapters.
type Service interface {
	ListServices(ctx context.Context) ([]*domain.Service, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	ListServicesByIDs(ctx context.Context, ids []int64) ([]*domain.Service, error)
	ListServicesByCategory(ctx context.Context, category string) ([]*domain.Service, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	ListBanners(ctx context.Context) ([]*domain.Banner, error)
	// UpdateService is the administrative edit path. It may overwrite derived rating fields.
	UpdateService(ctx context.Context, service *domain.Service) (*domain.Service, error)
}
