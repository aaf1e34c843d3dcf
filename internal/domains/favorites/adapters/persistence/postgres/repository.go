package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/gamerlink-api/internal/domains/favorites/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/favorites/ports"
)

// toggleAttempts bounds the delete/insert race with concurrent togglers of the same pair.
const toggleAttempts = 3

var (
	_ ports.Repository = (*Repository)(nil)

	errToggleContended = errors.New("favorite toggle kept losing to concurrent updates")
)

// Repository persists favorites keyed by (user_id, service_id).
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

type favoriteRecord struct {
	UserID    int64     `gorm:"primaryKey;column:user_id;autoIncrement:false;index:idx_favorites_user_created,priority:1"`
	ServiceID int64     `gorm:"primaryKey;column:service_id;autoIncrement:false"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_favorites_user_created,priority:2,sort:desc"`
}

func (favoriteRecord) TableName() string { return "favorites" }

// Toggle deletes the row if present, otherwise inserts it. Both statements are keyed on the primary key,
// so a concurrent toggle makes one of them affect nothing and the loop starts over.
func (r *Repository) Toggle(ctx context.Context, userID, serviceID int64, now time.Time) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	for attempt := 0; attempt < toggleAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		deleted := r.db.WithContext(ctx).
			Where("user_id = ? AND service_id = ?", userID, serviceID).
			Delete(&favoriteRecord{})
		if deleted.Error != nil {
			return false, deleted.Error
		}
		if deleted.RowsAffected > 0 {
			return false, nil
		}

		inserted := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&favoriteRecord{UserID: userID, ServiceID: serviceID, CreatedAt: now.UTC()})
		if inserted.Error != nil {
			return false, inserted.Error
		}
		if inserted.RowsAffected > 0 {
			return true, nil
		}
	}
	return false, fmt.Errorf("%w: user %d service %d", errToggleContended, userID, serviceID)
}

func (r *Repository) Exists(ctx context.Context, userID, serviceID int64) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&favoriteRecord{}).
		Where("user_id = ? AND service_id = ?", userID, serviceID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) ListServiceIDs(ctx context.Context, userID int64) ([]int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	ids := make([]int64, 0)
	err := r.db.WithContext(ctx).Model(&favoriteRecord{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("service_id DESC").
		Pluck("service_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Repository) Add(ctx context.Context, favorite *domain.Favorite) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if favorite == nil {
		return errors.New("favorite is nil")
	}
	if err := domain.ValidateKey(favorite.UserID, favorite.ServiceID); err != nil {
		return err
	}
	createdAt := favorite.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	record := favoriteRecord{UserID: favorite.UserID, ServiceID: favorite.ServiceID, CreatedAt: createdAt.UTC()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres favorite repository not configured")
	}
	return nil
}
