package ports

import (
	"context"
	"errors"

	"github.com/Apurer/gamerlink-api/internal/domains/catalog/domain"
)

var ErrNotFound = errors.New("service not found")

type Repository interface {
	ListServices(ctx context.Context) ([]*domain.Service, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	// ListServicesByIDs returns the matching services in the order of ids. Unknown ids are skipped.
	ListServicesByIDs(ctx context.Context, ids []int64) ([]*domain.Service, error)
	ListServicesByCategory(ctx context.Context, category string) ([]*domain.Service, error)
	SaveService(ctx context.Context, service *domain.Service) (*domain.Service, error)
	// SetRating writes the derived rating fields. Unknown services are ignored.
	SetRating(ctx context.Context, serviceID int64, average float64, count int) error

	ListCategories(ctx context.Context) ([]*domain.Category, error)
	SaveCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	ListBanners(ctx context.Context) ([]*domain.Banner, error)
	SaveBanner(ctx context.Context, banner *domain.Banner) (*domain.Banner, error)
}
