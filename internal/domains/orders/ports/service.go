package ports

import (
	"context"
	"time"

	"github.com/Apurer/gamerlink-api/internal/domains/orders/domain"
)

// CreateOrderInput describes a purchase placed by a buyer.
type CreateOrderInput struct {
	ServiceID  int64
	BuyerID    int64
	TotalPrice float64
	OrderDate  time.Time
}

// TransitionInput is a buyer-initiated lifecycle move checked against the transition table.
type TransitionInput struct {
	OrderID int64
	ActorID int64
	Target  domain.Status
}

// UpdateStatusInput is an administrative override. No transition rules apply.
type UpdateStatusInput struct {
	OrderID           int64
	ActorID           int64
	Status            domain.Status
	PaymentDate       *time.Time
	CompletionDate    *time.Time
	RefundRequestDate *time.Time
}

// OverrideResult is the outcome of an administrative override. Previous is the status read under
// the same lock that applied the override.
type OverrideResult struct {
	Order    *domain.Order
	Previous domain.Status
}

// Service exposes the order lifecycle use cases.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	MarkOrderAsPaid(ctx context.Context, id int64) (*domain.Order, error)
	Transition(ctx context.Context, input TransitionInput) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, input UpdateStatusInput) (*OverrideResult, error)
	GetOrdersByUser(ctx context.Context, userID int64) ([]*domain.Order, error)
	GetAllOrders(ctx context.Context) ([]*domain.Order, error)
	ExpireUnpaidOrders(ctx context.Context, olderThan time.Duration) (int, error)
}
