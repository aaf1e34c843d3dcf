package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Apurer/gamerlink-api/internal/domains/users/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps users in memory. Username and email are unique.
type Repository struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{users: map[int64]*domain.User{}}
}

func (r *Repository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	clone := user.Clone()
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Username, clone.Username) || existing.Email == clone.Email || existing.ID == clone.ID {
			return nil, ports.ErrDuplicate
		}
	}
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.users[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		return u.Clone(), nil
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return strings.EqualFold(u.Username, strings.TrimSpace(username)) })
}

func (r *Repository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *Repository) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	clone := user.Clone()
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[clone.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	r.users[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) ListByIDs(_ context.Context, ids []int64) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			list = append(list, u.Clone())
		}
	}
	return list, nil
}

// Count reports how many users are stored.
func (r *Repository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

func (r *Repository) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			return u.Clone(), nil
		}
	}
	return nil, ports.ErrNotFound
}
