package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	orderports "github.com/Apurer/gamerlink-api/internal/domains/orders/ports"
)

// Initializer is satisfied by bootstrap.Guard.
type Initializer interface {
	Ensure(ctx context.Context) error
}

// OrderSweep cancels orders that were never paid.
type OrderSweep struct {
	orders  orderports.Service
	init    Initializer
	ttl     time.Duration
	timeout time.Duration
	logger  *slog.Logger
}

func NewOrderSweep(orders orderports.Service, init Initializer, ttl time.Duration, logger *slog.Logger) *OrderSweep {
	if ttl <= 0 {
		ttl = DefaultUnpaidOrderTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderSweep{orders: orders, init: init, ttl: ttl, timeout: time.Minute, logger: logger}
}

// Run performs a single sweep and reports how many orders were cancelled.
func (s *OrderSweep) Run(ctx context.Context) (int, error) {
	if s.init != nil {
		if err := s.init.Ensure(ctx); err != nil {
			return 0, fmt.Errorf("storage not ready: %w", err)
		}
	}
	expired, err := s.orders.ExpireUnpaidOrders(ctx, s.ttl)
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "unpaid order sweep finished",
		slog.Int("cancelled", expired),
		slog.Duration("ttl", s.ttl))
	return expired, nil
}

// Schedule registers the sweep on a cron scheduler. Overlapping runs are skipped.
func (s *OrderSweep) Schedule(spec string) (*cron.Cron, error) {
	log := cronLogger{logger: s.logger}
	scheduler := cron.New(cron.WithLogger(log), cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)))
	_, err := scheduler.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if _, err := s.Run(ctx); err != nil {
			s.logger.Error("unpaid order sweep failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule order sweep: %w", err)
	}
	return scheduler, nil
}

// cronLogger routes scheduler events to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
