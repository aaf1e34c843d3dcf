package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/gamerlink-api/internal/domains/orders/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	orders map[int64]*domain.Order
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{orders: map[int64]*domain.Order{}}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := order.Clone()
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if _, exists := r.orders[clone.ID]; exists {
		return nil, errors.New("order id already exists")
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.orders[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return order.Clone(), nil
}

// Mutate holds the write lock for the whole read-modify-write.
func (r *Repository) Mutate(_ context.Context, id int64, fn ports.MutateFunc) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	working.ID = id
	if err := working.Validate(); err != nil {
		return nil, err
	}
	r.orders[id] = working
	return working.Clone(), nil
}

func (r *Repository) ListByBuyer(_ context.Context, buyerID int64) ([]*domain.Order, error) {
	return r.filter(func(o *domain.Order) bool { return o.BuyerID == buyerID }), nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	return r.filter(func(*domain.Order) bool { return true }), nil
}

func (r *Repository) ListStale(_ context.Context, status domain.Status, before time.Time) ([]*domain.Order, error) {
	return r.filter(func(o *domain.Order) bool {
		return o.Status == status && o.OrderDate.Before(before)
	}), nil
}

// Count reports how many orders are stored.
func (r *Repository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.orders)), nil
}

func (r *Repository) filter(keep func(*domain.Order) bool) []*domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if keep(order) {
			list = append(list, order.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].OrderDate.Equal(list[j].OrderDate) {
			return list[i].ID > list[j].ID
		}
		return list[i].OrderDate.After(list[j].OrderDate)
	})
	return list
}
