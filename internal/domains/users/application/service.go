package application

import (
	"context"
	"time"

	"github.com/Apurer/gamerlink-api/internal/domains/users/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/users/ports"
)

// Service exposes user bounded context use cases.
type Service struct {
	repo  ports.Repository
	clock func() time.Time
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo, clock: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	user, err := domain.NewUser(input.Username, input.Email)
	if err != nil {
		return nil, mapError(err)
	}
	if err := user.UpdateProfile(input.Nickname, input.AvatarURL); err != nil {
		return nil, mapError(err)
	}
	user.CreatedAt = s.clock()
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, mapError(err)
	}
	return created, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.GetByEmail(ctx, domain.NormalizeEmail(email))
}

// UpdateUser only touches nickname and avatar. Identity and admin fields are immutable here.
func (s *Service) UpdateUser(ctx context.Context, input ports.UpdateProfileInput) (*domain.User, error) {
	existing, err := s.repo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := existing.UpdateProfile(input.Nickname, input.AvatarURL); err != nil {
		return nil, mapError(err)
	}
	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, mapError(err)
	}
	return updated, nil
}

func (s *Service) ProfilesByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error) {
	result := make(map[int64]*domain.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	users, err := s.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

var _ ports.Service = (*Service)(nil)
