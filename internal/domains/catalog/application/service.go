package application

import (
	"context"
	"errors"
	"strings"

	"github.com/Apurer/gamerlink-api/internal/domains/catalog/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/catalog/ports"
)

// Service orchestrates the catalog use cases.
type Service struct {
	repo ports.Repository
}

// NewService wires the catalog service with its repository.
func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListServices(ctx context.Context) ([]*domain.Service, error) {
	return s.repo.ListServices(ctx)
}

func (s *Service) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	return s.repo.GetService(ctx, id)
}

func (s *Service) ListServicesByIDs(ctx context.Context, ids []int64) ([]*domain.Service, error) {
	if len(ids) == 0 {
		return []*domain.Service{}, nil
	}
	return s.repo.ListServicesByIDs(ctx, ids)
}

func (s *Service) ListServicesByCategory(ctx context.Context, category string) ([]*domain.Service, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, mapError(domain.ErrEmptyCategory)
	}
	return s.repo.ListServicesByCategory(ctx, category)
}

func (s *Service) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) ListBanners(ctx context.Context) ([]*domain.Banner, error) {
	return s.repo.ListBanners(ctx)
}

// UpdateService replaces an existing service. The identifier must refer to a stored service.
func (s *Service) UpdateService(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	if service == nil {
		return nil, errors.New("service is nil")
	}
	if _, err := s.repo.GetService(ctx, service.ID); err != nil {
		return nil, err
	}
	clone := service.Clone()
	clone.ImageURLs = domain.NormalizeList(clone.ImageURLs)
	clone.Tags = domain.NormalizeList(clone.Tags)
	if err := clone.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.SaveService(ctx, clone)
}

var _ ports.Service = (*Service)(nil)
