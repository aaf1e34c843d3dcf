package application

import (
	"context"
	"time"

	catalogdomain "github.com/Apurer/gamerlink-api/internal/domains/catalog/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/favorites/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/favorites/ports"
)

// Service orchestrates favorite toggling and lookups.
type Service struct {
	repo    ports.Repository
	catalog ports.ServiceCatalog
	clock   func() time.Time
}

type Option func(*Service)

func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewService(repo ports.Repository, catalog ports.ServiceCatalog, opts ...Option) *Service {
	s := &Service{repo: repo, catalog: catalog, clock: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ToggleFavorite reports true when the service became a favorite and false when it was removed.
func (s *Service) ToggleFavorite(ctx context.Context, userID, serviceID int64) (bool, error) {
	if err := domain.ValidateKey(userID, serviceID); err != nil {
		return false, mapError(err)
	}
	return s.repo.Toggle(ctx, userID, serviceID, s.clock())
}

func (s *Service) IsFavorite(ctx context.Context, userID, serviceID int64) (bool, error) {
	if err := domain.ValidateKey(userID, serviceID); err != nil {
		return false, mapError(err)
	}
	return s.repo.Exists(ctx, userID, serviceID)
}

func (s *Service) GetFavoriteServiceIDs(ctx context.Context, userID int64) ([]int64, error) {
	if userID <= 0 {
		return nil, mapError(domain.ErrInvalidUserID)
	}
	return s.repo.ListServiceIDs(ctx, userID)
}

// GetFavoriteServices keeps the newest-first order of the favorites. Services missing from the catalog are dropped.
func (s *Service) GetFavoriteServices(ctx context.Context, userID int64) ([]*catalogdomain.Service, error) {
	ids, err := s.GetFavoriteServiceIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*catalogdomain.Service{}, nil
	}
	return s.catalog.ListServicesByIDs(ctx, ids)
}

var _ ports.Service = (*Service)(nil)
