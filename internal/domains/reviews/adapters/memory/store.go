package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	orderdomain "github.com/Apurer/gamerlink-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/gamerlink-api/internal/domains/orders/ports"
	"github.com/Apurer/gamerlink-api/internal/domains/reviews/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/reviews/ports"
)

var _ ports.Store = (*Store)(nil)

// RatingWriter receives recomputed service ratings.
type RatingWriter interface {
	SetRating(ctx context.Context, serviceID int64, average float64, count int) error
}

// Store keeps reviews in memory and coordinates with the in-memory order and catalog repositories.
// A transaction holds the store mutex for its whole duration; writes are staged and applied on success.
type Store struct {
	mu      sync.Mutex
	orders  orderports.Repository
	ratings RatingWriter
	reviews map[int64]*domain.Review
	nextID  int64
}

func NewStore(orders orderports.Repository, ratings RatingWriter) *Store {
	return &Store{orders: orders, ratings: ratings, reviews: map[int64]*domain.Review{}}
}

func (s *Store) GetByOrderID(_ context.Context, orderID int64) (*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reviews {
		if r.OrderID == orderID {
			return r.Clone(), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (s *Store) ListByService(_ context.Context, serviceID int64) ([]*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*domain.Review, 0)
	for _, r := range s.reviews {
		if r.ServiceID == serviceID {
			list = append(list, r.Clone())
		}
	}
	sortNewestFirst(list)
	return list, nil
}

// Count reports how many reviews are stored.
func (s *Store) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.reviews)), nil
}

// Seed inserts a review with a preset identifier, bypassing the submission protocol.
func (s *Store) Seed(_ context.Context, review *domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if review == nil || review.ID <= 0 {
		return errors.New("seed review requires an id")
	}
	if _, exists := s.reviews[review.ID]; exists {
		return ports.ErrDuplicateReview
	}
	s.reviews[review.ID] = review.Clone()
	if review.ID > s.nextID {
		s.nextID = review.ID
	}
	return nil
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &memTx{
		store:   s,
		loaded:  map[int64]*orderdomain.Order{},
		orders:  map[int64]*orderdomain.Order{},
		ratings: map[int64]domain.RatingSummary{},
	}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.commit(ctx)
}

type memTx struct {
	store *Store
	// loaded holds the order as first read, compared against the repository on commit.
	loaded  map[int64]*orderdomain.Order
	orders  map[int64]*orderdomain.Order
	reviews []*domain.Review
	ratings map[int64]domain.RatingSummary
	nextID  int64
}

func (t *memTx) LockOrder(ctx context.Context, orderID int64) (*orderdomain.Order, error) {
	if staged, ok := t.orders[orderID]; ok {
		return staged.Clone(), nil
	}
	if loaded, ok := t.loaded[orderID]; ok {
		return loaded.Clone(), nil
	}
	order, err := t.store.orders.GetByID(ctx, orderID)
	if errors.Is(err, orderports.ErrNotFound) {
		return nil, ports.ErrOrderMissing
	}
	if err != nil {
		return nil, err
	}
	t.loaded[orderID] = order.Clone()
	return order, nil
}

func (t *memTx) SaveOrder(_ context.Context, order *orderdomain.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}
	t.orders[order.ID] = order.Clone()
	return nil
}

func (t *memTx) GetByID(_ context.Context, id int64) (*domain.Review, error) {
	if r, ok := t.store.reviews[id]; ok {
		return r.Clone(), nil
	}
	for _, r := range t.reviews {
		if r.ID == id {
			return r.Clone(), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (t *memTx) FindByOrderID(_ context.Context, orderID int64) (*domain.Review, error) {
	for _, r := range t.all() {
		if r.OrderID == orderID {
			return r.Clone(), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (t *memTx) Insert(_ context.Context, review *domain.Review) (*domain.Review, error) {
	for _, r := range t.all() {
		if r.OrderID == review.OrderID {
			return nil, ports.ErrDuplicateReview
		}
	}
	if t.nextID == 0 {
		t.nextID = t.store.nextID
	}
	t.nextID++
	stored := review.Clone()
	stored.ID = t.nextID
	t.reviews = append(t.reviews, stored)
	return stored.Clone(), nil
}

func (t *memTx) RatingStats(_ context.Context, serviceID int64) (int, int64, error) {
	var count int
	var sum int64
	for _, r := range t.all() {
		if r.ServiceID == serviceID {
			count++
			sum += int64(r.Rating)
		}
	}
	return count, sum, nil
}

func (t *memTx) SetServiceRating(_ context.Context, serviceID int64, summary domain.RatingSummary) error {
	t.ratings[serviceID] = summary
	return nil
}

func (t *memTx) all() []*domain.Review {
	list := make([]*domain.Review, 0, len(t.store.reviews)+len(t.reviews))
	for _, r := range t.store.reviews {
		list = append(list, r)
	}
	return append(list, t.reviews...)
}

func (t *memTx) commit(ctx context.Context) error {
	for id, staged := range t.orders {
		loaded := t.loaded[id]
		_, err := t.store.orders.Mutate(ctx, id, func(order *orderdomain.Order) error {
			if loaded != nil && !sameState(order, loaded) {
				return ports.ErrOrderChanged
			}
			*order = *staged.Clone()
			return nil
		})
		if err != nil {
			return err
		}
	}
	for _, r := range t.reviews {
		t.store.reviews[r.ID] = r
		if r.ID > t.store.nextID {
			t.store.nextID = r.ID
		}
	}
	if t.store.ratings != nil {
		for serviceID, summary := range t.ratings {
			if err := t.store.ratings.SetRating(ctx, serviceID, summary.Average, summary.Count); err != nil {
				return err
			}
		}
	}
	return nil
}

// sameState reports whether the lifecycle fields of a and b match.
func sameState(a, b *orderdomain.Order) bool {
	return a.Status == b.Status &&
		a.TotalPrice == b.TotalPrice &&
		sameInt(a.ReviewID, b.ReviewID) &&
		sameTime(a.PaymentDate, b.PaymentDate) &&
		sameTime(a.CompletionDate, b.CompletionDate) &&
		sameTime(a.RefundRequestDate, b.RefundRequestDate)
}

func sameInt(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func sortNewestFirst(list []*domain.Review) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].ReviewDate.Equal(list[j].ReviewDate) {
			return list[i].ID > list[j].ID
		}
		return list[i].ReviewDate.After(list[j].ReviewDate)
	})
}
