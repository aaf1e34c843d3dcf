package migrations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Apurer/gamerlink-api/internal/platform/bootstrap"
)

// serialTables own an id sequence that must move past explicitly seeded ids.
var serialTables = []string{"services", "categories", "banners", "users", "orders", "reviews"}

// Seeder writes the bootstrap dataset into PostgreSQL in a single transaction.
type Seeder struct {
	db *gorm.DB
}

func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

func (s *Seeder) HasData(ctx context.Context) (bool, error) {
	if s == nil || s.db == nil {
		return false, errors.New("postgres seeder not configured")
	}
	for _, model := range []any{&serviceRecord{}, &userRecord{}, &orderRecord{}, &categoryRecord{}, &bannerRecord{}} {
		var count int64
		if err := s.db.WithContext(ctx).Model(model).Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (s *Seeder) Seed(ctx context.Context, d *bootstrap.Dataset) error {
	if s == nil || s.db == nil {
		return errors.New("postgres seeder not configured")
	}
	if d.Empty() {
		return nil
	}
	now := time.Now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insert(tx, categoryRows(d)); err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
		if err := insert(tx, bannerRows(d)); err != nil {
			return fmt.Errorf("seed banners: %w", err)
		}
		if err := insert(tx, serviceRows(d, now)); err != nil {
			return fmt.Errorf("seed services: %w", err)
		}
		if err := insert(tx, userRows(d, now)); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		if err := insert(tx, orderRows(d, now)); err != nil {
			return fmt.Errorf("seed orders: %w", err)
		}
		if err := insert(tx, reviewRows(d, now)); err != nil {
			return fmt.Errorf("seed reviews: %w", err)
		}
		if err := insert(tx, favoriteRows(d)); err != nil {
			return fmt.Errorf("seed favorites: %w", err)
		}
		return advanceSequences(tx)
	})
}

func insert[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.CreateInBatches(rows, 100).Error
}

// advanceSequences moves each serial past the highest seeded id so later inserts do not collide.
func advanceSequences(tx *gorm.DB) error {
	for _, table := range serialTables {
		stmt := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)",
			table)
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("advance %s sequence: %w", table, err)
		}
	}
	return nil
}

func categoryRows(d *bootstrap.Dataset) []categoryRecord {
	rows := make([]categoryRecord, 0, len(d.Categories))
	for _, c := range d.Categories {
		rows = append(rows, categoryRecord{ID: c.ID, Name: c.Name, IconURL: c.IconURL})
	}
	return rows
}

func bannerRows(d *bootstrap.Dataset) []bannerRecord {
	rows := make([]bannerRecord, 0, len(d.Banners))
	for _, b := range d.Banners {
		rows = append(rows, bannerRecord{ID: b.ID, ImageURL: b.ImageURL, TargetURL: b.TargetURL})
	}
	return rows
}

func serviceRows(d *bootstrap.Dataset, now time.Time) []serviceRecord {
	rows := make([]serviceRecord, 0, len(d.Services))
	for _, s := range d.Services {
		rows = append(rows, serviceRecord{
			ID:             s.ID,
			Title:          s.Title,
			Description:    s.Description,
			Price:          s.Price,
			GameName:       s.GameName,
			ServiceType:    s.ServiceType,
			SellerID:       s.SellerID,
			ThumbnailURL:   s.ThumbnailURL,
			ImageURLs:      pq.StringArray(s.ImageURLs),
			Category:       s.Category,
			IsFeatured:     s.IsFeatured,
			AverageRating:  s.AverageRating,
			ReviewCount:    s.ReviewCount,
			PurchaseCount:  s.PurchaseCount,
			CompletedCount: s.CompletedCount,
			Tags:           pq.StringArray(s.Tags),
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return rows
}

func userRows(d *bootstrap.Dataset, now time.Time) []userRecord {
	rows := make([]userRecord, 0, len(d.Users))
	for _, u := range d.Users {
		rows = append(rows, userRecord{
			ID:           u.ID,
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			Nickname:     u.Nickname,
			AvatarURL:    u.AvatarURL,
			IsAdmin:      u.IsAdmin,
			CreatedAt:    u.CreatedAt,
			UpdatedAt:    now,
			LastLoginAt:  u.LastLoginAt,
		})
	}
	return rows
}

func orderRows(d *bootstrap.Dataset, now time.Time) []orderRecord {
	rows := make([]orderRecord, 0, len(d.Orders))
	for _, o := range d.Orders {
		rows = append(rows, orderRecord{
			ID:                o.ID,
			ServiceID:         o.ServiceID,
			BuyerID:           o.BuyerID,
			OrderDate:         o.OrderDate,
			Status:            string(o.Status),
			PaymentDate:       o.PaymentDate,
			CompletionDate:    o.CompletionDate,
			RefundRequestDate: o.RefundRequestDate,
			TotalPrice:        o.TotalPrice,
			ReviewID:          o.ReviewID,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}
	return rows
}

func reviewRows(d *bootstrap.Dataset, now time.Time) []reviewRecord {
	rows := make([]reviewRecord, 0, len(d.Reviews))
	for _, r := range d.Reviews {
		rows = append(rows, reviewRecord{
			ID:         r.ID,
			OrderID:    r.OrderID,
			ServiceID:  r.ServiceID,
			UserID:     r.UserID,
			Rating:     r.Rating,
			Comment:    r.Comment,
			ReviewDate: r.ReviewDate,
			CreatedAt:  now,
		})
	}
	return rows
}

func favoriteRows(d *bootstrap.Dataset) []favoriteRecord {
	rows := make([]favoriteRecord, 0, len(d.Favorites))
	for _, f := range d.Favorites {
		rows = append(rows, favoriteRecord{UserID: f.UserID, ServiceID: f.ServiceID, CreatedAt: f.CreatedAt})
	}
	return rows
}
