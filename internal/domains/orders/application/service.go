package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Apurer/gamerlink-api/internal/domains/orders/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/orders/ports"
)

var (
	errCompletionRequiresReview = fmt.Errorf("%w: orders complete through review submission", domain.ErrInvalidTransition)
	errNoLongerUnpaid           = errors.New("order is no longer awaiting payment")
)

// Service orchestrates the order lifecycle.
type Service struct {
	repo  ports.Repository
	clock func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used for lifecycle stamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, clock: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	orderDate := input.OrderDate
	if orderDate.IsZero() {
		orderDate = s.clock()
	}
	order, err := domain.NewOrder(input.ServiceID, input.BuyerID, input.TotalPrice, orderDate)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Create(ctx, order)
}

func (s *Service) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// MarkOrderAsPaid only accepts orders that are still awaiting payment.
func (s *Service) MarkOrderAsPaid(ctx context.Context, id int64) (*domain.Order, error) {
	now := s.clock()
	order, err := s.repo.Mutate(ctx, id, func(order *domain.Order) error {
		return order.MarkPaid(now)
	})
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

// Transition applies a buyer-initiated move. Orders owned by someone else are reported as missing.
func (s *Service) Transition(ctx context.Context, input ports.TransitionInput) (*domain.Order, error) {
	if !input.Target.Valid() {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	if input.Target == domain.StatusCompleted {
		return nil, mapError(errCompletionRequiresReview)
	}
	now := s.clock()
	order, err := s.repo.Mutate(ctx, input.OrderID, func(order *domain.Order) error {
		if order.BuyerID != input.ActorID {
			return ports.ErrNotFound
		}
		return order.TransitionTo(input.Target, now)
	})
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, input ports.UpdateStatusInput) (*ports.OverrideResult, error) {
	if !input.Status.Valid() {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	stamps := domain.Timestamps{
		PaymentDate:       input.PaymentDate,
		CompletionDate:    input.CompletionDate,
		RefundRequestDate: input.RefundRequestDate,
	}
	var previous domain.Status
	order, err := s.repo.Mutate(ctx, input.OrderID, func(order *domain.Order) error {
		previous = order.Status
		return order.Override(input.Status, stamps)
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &ports.OverrideResult{Order: order, Previous: previous}, nil
}

func (s *Service) GetOrdersByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	return s.repo.ListByBuyer(ctx, userID)
}

func (s *Service) GetAllOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx)
}

// ExpireUnpaidOrders cancels orders left in PendingPayment longer than olderThan.
// Orders paid between listing and locking are skipped.
func (s *Service) ExpireUnpaidOrders(ctx context.Context, olderThan time.Duration) (int, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("%w: expiry window must be positive", ErrInvalidInput)
	}
	now := s.clock()
	stale, err := s.repo.ListStale(ctx, domain.StatusPendingPayment, now.Add(-olderThan))
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, candidate := range stale {
		_, err := s.repo.Mutate(ctx, candidate.ID, func(order *domain.Order) error {
			if order.Status != domain.StatusPendingPayment {
				return errNoLongerUnpaid
			}
			return order.TransitionTo(domain.StatusCancelled, now)
		})
		switch {
		case err == nil:
			expired++
		case errors.Is(err, errNoLongerUnpaid), errors.Is(err, ports.ErrNotFound):
			continue
		default:
			return expired, err
		}
	}
	return expired, nil
}

var _ ports.Service = (*Service)(nil)
