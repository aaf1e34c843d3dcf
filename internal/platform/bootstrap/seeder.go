package bootstrap

import (
	"context"
	"fmt"

	catalogmemory "github.com/Apurer/gamerlink-api/internal/domains/catalog/adapters/memory"
	favoritememory "github.com/Apurer/gamerlink-api/internal/domains/favorites/adapters/memory"
	ordermemory "github.com/Apurer/gamerlink-api/internal/domains/orders/adapters/memory"
	reviewmemory "github.com/Apurer/gamerlink-api/internal/domains/reviews/adapters/memory"
	usermemory "github.com/Apurer/gamerlink-api/internal/domains/users/adapters/memory"
)

// MemoryRepositories groups the in-memory adapters the process serves from.
type MemoryRepositories struct {
	Catalog   *catalogmemory.Repository
	Users     *usermemory.Repository
	Orders    *ordermemory.Repository
	Reviews   *reviewmemory.Store
	Favorites *favoritememory.Repository
}

// RepositorySeeder seeds the in-memory adapters through their public methods.
type RepositorySeeder struct {
	repos MemoryRepositories
}

func NewRepositorySeeder(repos MemoryRepositories) *RepositorySeeder {
	return &RepositorySeeder{repos: repos}
}

func (s *RepositorySeeder) HasData(ctx context.Context) (bool, error) {
	counts := []func(context.Context) (int64, error){s.repos.Catalog.Count, s.repos.Users.Count, s.repos.Orders.Count}
	for _, count := range counts {
		n, err := count(ctx)
		if err != nil {
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}
	categories, err := s.repos.Catalog.ListCategories(ctx)
	if err != nil {
		return false, err
	}
	banners, err := s.repos.Catalog.ListBanners(ctx)
	if err != nil {
		return false, err
	}
	return len(categories) > 0 || len(banners) > 0, nil
}

func (s *RepositorySeeder) Seed(ctx context.Context, d *Dataset) error {
	if d.Empty() {
		return nil
	}
	for _, c := range d.Categories {
		if _, err := s.repos.Catalog.SaveCategory(ctx, c); err != nil {
			return fmt.Errorf("seed category %q: %w", c.Name, err)
		}
	}
	for _, b := range d.Banners {
		if _, err := s.repos.Catalog.SaveBanner(ctx, b); err != nil {
			return fmt.Errorf("seed banner %d: %w", b.ID, err)
		}
	}
	for _, svc := range d.Services {
		if _, err := s.repos.Catalog.SaveService(ctx, svc); err != nil {
			return fmt.Errorf("seed service %d: %w", svc.ID, err)
		}
	}
	for _, u := range d.Users {
		if _, err := s.repos.Users.Create(ctx, u); err != nil {
			return fmt.Errorf("seed user %q: %w", u.Username, err)
		}
	}
	for _, o := range d.Orders {
		if _, err := s.repos.Orders.Create(ctx, o); err != nil {
			return fmt.Errorf("seed order %d: %w", o.ID, err)
		}
	}
	for _, r := range d.Reviews {
		if err := s.repos.Reviews.Seed(ctx, r); err != nil {
			return fmt.Errorf("seed review %d: %w", r.ID, err)
		}
	}
	for _, f := range d.Favorites {
		if err := s.repos.Favorites.Add(ctx, f); err != nil {
			return fmt.Errorf("seed favorite %d/%d: %w", f.UserID, f.ServiceID, err)
		}
	}
	return nil
}
