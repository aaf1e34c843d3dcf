package domain

import (
	"errors"
	"strings"
	"time"
)

// Status enumerates the order lifecycle. Values are persisted by name.
type Status string

const (
	StatusPendingPayment  Status = "PendingPayment"
	StatusOngoing         Status = "Ongoing"
	StatusPendingReview   Status = "PendingReview"
	StatusCompleted       Status = "Completed"
	StatusRefundRequested Status = "RefundRequested"
	StatusCancelled       Status = "Cancelled"
)

var (
	ErrInvalidServiceID  = errors.New("service id must be greater than zero")
	ErrInvalidBuyerID    = errors.New("buyer id must be greater than zero")
	ErrInvalidTotalPrice = errors.New("total price must not be negative")
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrInvalidTransition = errors.New("order status transition is not allowed")
	ErrInvalidReviewID   = errors.New("review id must be greater than zero")
	ErrReviewLinked      = errors.New("order already references a review")
)

// Order models a purchase of one service by one buyer.
type Order struct {
	ID                int64
	ServiceID         int64
	BuyerID           int64
	OrderDate         time.Time
	Status            Status
	PaymentDate       *time.Time
	CompletionDate    *time.Time
	RefundRequestDate *time.Time
	TotalPrice        float64
	ReviewID          *int64
}

// Timestamps carries optional lifecycle stamps supplied by administrative overrides.
type Timestamps struct {
	PaymentDate       *time.Time
	CompletionDate    *time.Time
	RefundRequestDate *time.Time
}

// NewOrder builds an order awaiting payment. A zero orderDate is replaced with now.
func NewOrder(serviceID, buyerID int64, totalPrice float64, orderDate time.Time) (*Order, error) {
	if orderDate.IsZero() {
		orderDate = time.Now().UTC()
	}
	order := &Order{
		ServiceID:  serviceID,
		BuyerID:    buyerID,
		OrderDate:  orderDate,
		Status:     StatusPendingPayment,
		TotalPrice: totalPrice,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.ServiceID <= 0 {
		return ErrInvalidServiceID
	}
	if o.BuyerID <= 0 {
		return ErrInvalidBuyerID
	}
	if o.TotalPrice < 0 {
		return ErrInvalidTotalPrice
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// MarkPaid moves a PendingPayment order to Ongoing and stamps the payment date.
func (o *Order) MarkPaid(now time.Time) error {
	if o.Status != StatusPendingPayment {
		return ErrInvalidTransition
	}
	return o.TransitionTo(StatusOngoing, now)
}

// TransitionTo applies a table-checked transition and stamps the timestamp owned by the target state.
func (o *Order) TransitionTo(target Status, now time.Time) error {
	if !target.Valid() {
		return ErrInvalidStatus
	}
	if !CanTransition(o.Status, target) {
		return ErrInvalidTransition
	}
	o.Status = target
	o.stamp(target, now)
	return nil
}

// CompleteWithReview closes a PendingReview order and links the review that completed it.
func (o *Order) CompleteWithReview(reviewID int64, now time.Time) error {
	if reviewID <= 0 {
		return ErrInvalidReviewID
	}
	if o.ReviewID != nil {
		return ErrReviewLinked
	}
	if err := o.TransitionTo(StatusCompleted, now); err != nil {
		return err
	}
	o.ReviewID = &reviewID
	return nil
}

// Override sets the status without consulting the transition table.
// Only supplied timestamps are written.
func (o *Order) Override(status Status, stamps Timestamps) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	o.Status = status
	if stamps.PaymentDate != nil {
		o.PaymentDate = cloneTime(stamps.PaymentDate)
	}
	if stamps.CompletionDate != nil {
		o.CompletionDate = cloneTime(stamps.CompletionDate)
	}
	if stamps.RefundRequestDate != nil {
		o.RefundRequestDate = cloneTime(stamps.RefundRequestDate)
	}
	return nil
}

// Clone returns a deep copy safe to hand across goroutines.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.PaymentDate = cloneTime(o.PaymentDate)
	clone.CompletionDate = cloneTime(o.CompletionDate)
	clone.RefundRequestDate = cloneTime(o.RefundRequestDate)
	if o.ReviewID != nil {
		id := *o.ReviewID
		clone.ReviewID = &id
	}
	return &clone
}

func (o *Order) stamp(target Status, now time.Time) {
	switch target {
	case StatusOngoing:
		if o.PaymentDate == nil {
			o.PaymentDate = &now
		}
	case StatusCompleted:
		if o.CompletionDate == nil {
			o.CompletionDate = &now
		}
	case StatusRefundRequested:
		if o.RefundRequestDate == nil {
			o.RefundRequestDate = &now
		}
	}
}

// ParseStatus resolves a status name, ignoring case and surrounding whitespace.
func ParseStatus(raw string) (Status, error) {
	raw = strings.TrimSpace(raw)
	for _, status := range AllStatuses() {
		if strings.EqualFold(string(status), raw) {
			return status, nil
		}
	}
	return "", ErrInvalidStatus
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
