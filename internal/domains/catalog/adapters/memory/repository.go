package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/Apurer/gamerlink-api/internal/domains/catalog/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps services, categories and banners in memory.
type Repository struct {
	mu         sync.RWMutex
	services   map[int64]*domain.Service
	categories map[int64]*domain.Category
	banners    map[int64]*domain.Banner
	nextID     struct{ service, category, banner int64 }
}

func NewRepository() *Repository {
	return &Repository{
		services:   map[int64]*domain.Service{},
		categories: map[int64]*domain.Category{},
		banners:    map[int64]*domain.Banner{},
	}
}

func (r *Repository) ListServices(_ context.Context) ([]*domain.Service, error) {
	return r.filterServices(func(*domain.Service) bool { return true }), nil
}

func (r *Repository) GetService(_ context.Context, id int64) (*domain.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	svc, ok := r.services[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return svc.Clone(), nil
}

func (r *Repository) ListServicesByIDs(_ context.Context, ids []int64) ([]*domain.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domain.Service, 0, len(ids))
	for _, id := range ids {
		if svc, ok := r.services[id]; ok {
			result = append(result, svc.Clone())
		}
	}
	return result, nil
}

func (r *Repository) ListServicesByCategory(_ context.Context, category string) ([]*domain.Service, error) {
	return r.filterServices(func(s *domain.Service) bool {
		return strings.EqualFold(s.Category, category)
	}), nil
}

// SaveService inserts when the ID is unset and replaces otherwise.
func (r *Repository) SaveService(_ context.Context, service *domain.Service) (*domain.Service, error) {
	if service == nil {
		return nil, errors.New("service is nil")
	}
	clone := service.Clone()
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone.ID = assignID(clone.ID, &r.nextID.service)
	r.services[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) SetRating(_ context.Context, serviceID int64, average float64, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if svc, ok := r.services[serviceID]; ok {
		svc.ApplyRating(average, count)
	}
	return nil
}

func (r *Repository) ListCategories(_ context.Context) ([]*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		item := *c
		list = append(list, &item)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *Repository) SaveCategory(_ context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil || strings.TrimSpace(category.Name) == "" {
		return nil, domain.ErrEmptyCategory
	}
	item := *category
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = assignID(item.ID, &r.nextID.category)
	r.categories[item.ID] = &item
	result := item
	return &result, nil
}

func (r *Repository) ListBanners(_ context.Context) ([]*domain.Banner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Banner, 0, len(r.banners))
	for _, b := range r.banners {
		item := *b
		list = append(list, &item)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *Repository) SaveBanner(_ context.Context, banner *domain.Banner) (*domain.Banner, error) {
	if banner == nil {
		return nil, errors.New("banner is nil")
	}
	item := *banner
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = assignID(item.ID, &r.nextID.banner)
	r.banners[item.ID] = &item
	result := item
	return &result, nil
}

// Count reports how many services are stored.
func (r *Repository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.services)), nil
}

func (r *Repository) filterServices(keep func(*domain.Service) bool) []*domain.Service {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Service, 0, len(r.services))
	for _, svc := range r.services {
		if keep(svc) {
			list = append(list, svc.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func assignID(id int64, next *int64) int64 {
	if id == 0 {
		*next++
		return *next
	}
	if id > *next {
		*next = id
	}
	return id
}
