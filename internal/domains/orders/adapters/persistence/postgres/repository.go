package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/gamerlink-api/internal/domains/orders/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle and schema.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// orderRecord maps the order aggregate to a relational table.
type orderRecord struct {
	ID                int64      `gorm:"primaryKey;column:id"`
	ServiceID         int64      `gorm:"column:service_id;not null;index"`
	BuyerID           int64      `gorm:"column:buyer_id;not null;index:idx_orders_buyer_date"`
	OrderDate         time.Time  `gorm:"column:order_date;not null;index:idx_orders_buyer_date;index:idx_orders_status_date"`
	Status            string     `gorm:"column:status;type:varchar(32);not null;index:idx_orders_status_date"`
	PaymentDate       *time.Time `gorm:"column:payment_date"`
	CompletionDate    *time.Time `gorm:"column:completion_date"`
	RefundRequestDate *time.Time `gorm:"column:refund_request_date"`
	TotalPrice        float64    `gorm:"column:total_price;type:numeric(12,2);not null"`
	ReviewID          *int64     `gorm:"column:review_id;uniqueIndex"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Create inserts a new order and returns it with its generated identifier.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.find(r.db.WithContext(ctx), id)
}

// ForUpdate loads the order with a row lock. Only meaningful inside a transaction.
func (r *Repository) ForUpdate(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// Update writes every mutable column of the order.
func (r *Repository) Update(ctx context.Context, order *domain.Order) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if err := order.Validate(); err != nil {
		return err
	}
	record := toRecord(order)
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"status":              record.Status,
			"payment_date":        record.PaymentDate,
			"completion_date":     record.CompletionDate,
			"refund_request_date": record.RefundRequestDate,
			"review_id":           record.ReviewID,
			"updated_at":          gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// Mutate locks the row with SELECT ... FOR UPDATE, applies fn and writes it back in one transaction.
func (r *Repository) Mutate(ctx context.Context, id int64, fn ports.MutateFunc) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var updated *domain.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := r.WithTx(tx)
		order, err := repo.ForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(order); err != nil {
			return err
		}
		order.ID = id
		if err := repo.Update(ctx, order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *Repository) ListByBuyer(ctx context.Context, buyerID int64) ([]*domain.Order, error) {
	return r.list(ctx, "buyer_id = ?", buyerID)
}

func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, "")
}

func (r *Repository) ListStale(ctx context.Context, status domain.Status, before time.Time) ([]*domain.Order, error) {
	return r.list(ctx, "status = ? AND order_date < ?", string(status), before)
}

func (r *Repository) find(db *gorm.DB, id int64) (*domain.Order, error) {
	var record orderRecord
	if err := db.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) list(ctx context.Context, where string, args ...any) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("order_date DESC").Order("id DESC")
	if where != "" {
		query = query.Where(where, args...)
	}
	var records []orderRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:                order.ID,
		ServiceID:         order.ServiceID,
		BuyerID:           order.BuyerID,
		OrderDate:         order.OrderDate,
		Status:            string(order.Status),
		PaymentDate:       order.PaymentDate,
		CompletionDate:    order.CompletionDate,
		RefundRequestDate: order.RefundRequestDate,
		TotalPrice:        order.TotalPrice,
		ReviewID:          order.ReviewID,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:                r.ID,
		ServiceID:         r.ServiceID,
		BuyerID:           r.BuyerID,
		OrderDate:         r.OrderDate,
		Status:            domain.Status(r.Status),
		PaymentDate:       r.PaymentDate,
		CompletionDate:    r.CompletionDate,
		RefundRequestDate: r.RefundRequestDate,
		TotalPrice:        r.TotalPrice,
		ReviewID:          r.ReviewID,
	}
}
