package mapper

import (
	"time"

	"github.com/Apurer/gamerlink-api/internal/domains/orders/domain"
)

// Order is the transport-level representation used by HTTP handlers.
type Order struct {
	ID                int64      `json:"id"`
	ServiceID         int64      `json:"serviceId"`
	BuyerID           int64      `json:"buyerId"`
	OrderDate         time.Time  `json:"orderDate"`
	Status            string     `json:"status"`
	PaymentDate       *time.Time `json:"paymentDate,omitempty"`
	CompletionDate    *time.Time `json:"completionDate,omitempty"`
	RefundRequestDate *time.Time `json:"refundRequestDate,omitempty"`
	TotalPrice        float64    `json:"totalPrice"`
	ReviewID          *int64     `json:"reviewId,omitempty"`
	CanPay            bool       `json:"canPay"`
	CanReview         bool       `json:"canReview"`
	AllowedNext       []string   `json:"allowedTransitions"`
}

// FromDomainOrder converts a domain order into its transport shape.
func FromDomainOrder(order *domain.Order) Order {
	if order == nil {
		return Order{}
	}
	next := domain.AllowedTransitions(order.Status)
	allowed := make([]string, 0, len(next))
	for _, status := range next {
		// completion is reached through review submission, never directly
		if status == domain.StatusCompleted {
			continue
		}
		allowed = append(allowed, string(status))
	}
	return Order{
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
		CanPay:            order.Status.Payable(),
		CanReview:         order.Status.Reviewable() && order.ReviewID == nil,
		AllowedNext:       allowed,
	}
}

// FromDomainOrders converts a list preserving order.
func FromDomainOrders(orders []*domain.Order) []Order {
	result := make([]Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, FromDomainOrder(order))
	}
	return result
}

// CreateOrder is the purchase payload. The price comes from the catalog, not the client.
type CreateOrder struct {
	ServiceID int64 `json:"serviceId" binding:"required,gt=0"`
}

// Transition asks for a buyer-initiated status change.
type Transition struct {
	Status string `json:"status" binding:"required"`
}

// StatusOverride is the administrative status edit. Omitted stamps are left untouched.
type StatusOverride struct {
	Status            string     `json:"status" binding:"required"`
	PaymentDate       *time.Time `json:"paymentDate"`
	CompletionDate    *time.Time `json:"completionDate"`
	RefundRequestDate *time.Time `json:"refundRequestDate"`
}
