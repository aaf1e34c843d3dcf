package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/gamerlink-api/internal/domains/favorites/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/favorites/ports"
)

var _ ports.Repository = (*Repository)(nil)

type key struct {
	userID    int64
	serviceID int64
}

type entry struct {
	createdAt time.Time
	seq       int64
}

// Repository keeps favorites in a map guarded by one mutex, so a toggle is a single critical section.
type Repository struct {
	mu        sync.Mutex
	favorites map[key]entry
	seq       int64
}

func NewRepository() *Repository {
	return &Repository{favorites: map[key]entry{}}
}

func (r *Repository) Toggle(_ context.Context, userID, serviceID int64, now time.Time) (bool, error) {
	k := key{userID: userID, serviceID: serviceID}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.favorites[k]; ok {
		delete(r.favorites, k)
		return false, nil
	}
	r.seq++
	r.favorites[k] = entry{createdAt: now.UTC(), seq: r.seq}
	return true, nil
}

func (r *Repository) Exists(_ context.Context, userID, serviceID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.favorites[key{userID: userID, serviceID: serviceID}]
	return ok, nil
}

func (r *Repository) ListServiceIDs(_ context.Context, userID int64) ([]int64, error) {
	r.mu.Lock()
	type item struct {
		serviceID int64
		entry
	}
	items := make([]item, 0)
	for k, e := range r.favorites {
		if k.userID == userID {
			items = append(items, item{serviceID: k.serviceID, entry: e})
		}
	}
	r.mu.Unlock()

	sort.Slice(items, func(i, j int) bool {
		if !items[i].createdAt.Equal(items[j].createdAt) {
			return items[i].createdAt.After(items[j].createdAt)
		}
		return items[i].seq > items[j].seq
	})
	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.serviceID
	}
	return ids, nil
}

func (r *Repository) Add(_ context.Context, favorite *domain.Favorite) error {
	if favorite == nil {
		return errors.New("favorite is nil")
	}
	if err := domain.ValidateKey(favorite.UserID, favorite.ServiceID); err != nil {
		return err
	}
	k := key{userID: favorite.UserID, serviceID: favorite.ServiceID}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.favorites[k]; ok {
		return nil
	}
	r.seq++
	r.favorites[k] = entry{createdAt: favorite.CreatedAt.UTC(), seq: r.seq}
	return nil
}

// Count reports how many favorites are stored.
func (r *Repository) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.favorites)), nil
}
