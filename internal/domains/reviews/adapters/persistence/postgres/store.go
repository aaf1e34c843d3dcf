package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	catalogpostgres "github.com/Apurer/gamerlink-api/internal/domains/catalog/adapters/persistence/postgres"
	orderpostgres "github.com/Apurer/gamerlink-api/internal/domains/orders/adapters/persistence/postgres"
	orderdomain "github.com/Apurer/gamerlink-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/gamerlink-api/internal/domains/orders/ports"
	"github.com/Apurer/gamerlink-api/internal/domains/reviews/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/reviews/ports"
)

var _ ports.Store = (*Store)(nil)

// Store persists reviews in PostgreSQL. Transactions span the orders and services tables.
type Store struct {
	db      *gorm.DB
	orders  *orderpostgres.Repository
	catalog *catalogpostgres.Repository
}

// NewStore wires a PostgreSQL-backed review store. The caller owns the DB lifecycle and schema.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:      db,
		orders:  orderpostgres.NewRepository(db),
		catalog: catalogpostgres.NewRepository(db),
	}
}

type reviewRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	OrderID    int64     `gorm:"column:order_id;not null;uniqueIndex"`
	ServiceID  int64     `gorm:"column:service_id;not null;index:idx_reviews_service_date"`
	UserID     int64     `gorm:"column:user_id;not null;index"`
	Rating     int       `gorm:"column:rating;type:smallint;not null"`
	Comment    string    `gorm:"column:comment;type:text;not null"`
	ReviewDate time.Time `gorm:"column:review_date;not null;index:idx_reviews_service_date"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (reviewRecord) TableName() string { return "reviews" }

func (s *Store) GetByOrderID(ctx context.Context, orderID int64) (*domain.Review, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	return first(s.db.WithContext(ctx), "order_id = ?", orderID)
}

func (s *Store) ListByService(ctx context.Context, serviceID int64) ([]*domain.Review, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var records []reviewRecord
	if err := s.db.WithContext(ctx).
		Where("service_id = ?", serviceID).
		Order("review_date DESC").
		Order("id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*domain.Review, 0, len(records))
	for i := range records {
		list = append(list, records[i].toDomain())
	}
	return list, nil
}

// WithinTx runs fn inside db.Transaction. Returning an error rolls everything back.
func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.Tx) error) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&pgTx{
			db:      tx,
			orders:  s.orders.WithTx(tx),
			catalog: s.catalog.WithTx(tx),
		})
	})
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres review store not configured")
	}
	return nil
}

type pgTx struct {
	db      *gorm.DB
	orders  *orderpostgres.Repository
	catalog *catalogpostgres.Repository
}

// LockOrder issues SELECT ... FOR UPDATE on the order row.
func (t *pgTx) LockOrder(ctx context.Context, orderID int64) (*orderdomain.Order, error) {
	order, err := t.orders.ForUpdate(ctx, orderID)
	if errors.Is(err, orderports.ErrNotFound) {
		return nil, ports.ErrOrderMissing
	}
	return order, err
}

func (t *pgTx) SaveOrder(ctx context.Context, order *orderdomain.Order) error {
	return t.orders.Update(ctx, order)
}

func (t *pgTx) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	return first(t.db.WithContext(ctx), "id = ?", id)
}

func (t *pgTx) FindByOrderID(ctx context.Context, orderID int64) (*domain.Review, error) {
	return first(t.db.WithContext(ctx), "order_id = ?", orderID)
}

// Insert relies on the unique index on order_id to reject a second review.
func (t *pgTx) Insert(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	record := toRecord(review)
	if err := t.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateReview
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (t *pgTx) RatingStats(ctx context.Context, serviceID int64) (int, int64, error) {
	var stats struct {
		Count int
		Sum   int64
	}
	if err := t.db.WithContext(ctx).
		Model(&reviewRecord{}).
		Select("COUNT(*) AS count, COALESCE(SUM(rating), 0) AS sum").
		Where("service_id = ?", serviceID).
		Scan(&stats).Error; err != nil {
		return 0, 0, err
	}
	return stats.Count, stats.Sum, nil
}

func (t *pgTx) SetServiceRating(ctx context.Context, serviceID int64, summary domain.RatingSummary) error {
	return t.catalog.SetRating(ctx, serviceID, summary.Average, summary.Count)
}

func first(db *gorm.DB, where string, arg any) (*domain.Review, error) {
	var record reviewRecord
	if err := db.First(&record, where, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func toRecord(r *domain.Review) reviewRecord {
	return reviewRecord{
		ID:         r.ID,
		OrderID:    r.OrderID,
		ServiceID:  r.ServiceID,
		UserID:     r.UserID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		ReviewDate: r.ReviewDate,
	}
}

func (r reviewRecord) toDomain() *domain.Review {
	return &domain.Review{
		ID:         r.ID,
		OrderID:    r.OrderID,
		ServiceID:  r.ServiceID,
		UserID:     r.UserID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		ReviewDate: r.ReviewDate,
	}
}
