package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ordermemory "github.com/Apurer/gamerlink-api/internal/domains/orders/adapters/memory"
	orderapp "github.com/Apurer/gamerlink-api/internal/domains/orders/application"
	orderdomain "github.com/Apurer/gamerlink-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/gamerlink-api/internal/domains/orders/ports"
)

type stubInitializer struct{ err error }

func (s stubInitializer) Ensure(context.Context) error { return s.err }

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestOrderSweepCancelsStaleUnpaidOrders(t *testing.T) {
	ctx := context.Background()
	orders := orderapp.NewService(ordermemory.NewRepository())
	now := time.Now().UTC()

	stale, err := orders.CreateOrder(ctx, orderports.CreateOrderInput{ServiceID: 1, BuyerID: 4, TotalPrice: 10, OrderDate: now.Add(-2 * time.Hour)})
	require.NoError(t, err)
	fresh, err := orders.CreateOrder(ctx, orderports.CreateOrderInput{ServiceID: 1, BuyerID: 4, TotalPrice: 10, OrderDate: now})
	require.NoError(t, err)
	paid, err := orders.CreateOrder(ctx, orderports.CreateOrderInput{ServiceID: 1, BuyerID: 4, TotalPrice: 10, OrderDate: now.Add(-2 * time.Hour)})
	require.NoError(t, err)
	_, err = orders.MarkOrderAsPaid(ctx, paid.ID)
	require.NoError(t, err)

	sweep := NewOrderSweep(orders, stubInitializer{}, 30*time.Minute, discardLogger())
	cancelled, err := sweep.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, cancelled)

	got, err := orders.GetOrderByID(ctx, stale.ID)
	require.NoError(t, err)
	require.Equal(t, orderdomain.StatusCancelled, got.Status)
	got, err = orders.GetOrderByID(ctx, fresh.ID)
	require.NoError(t, err)
	require.Equal(t, orderdomain.StatusPendingPayment, got.Status)

	cancelled, err = sweep.Run(ctx)
	require.NoError(t, err)
	require.Zero(t, cancelled)
}

func TestOrderSweepWaitsForStorage(t *testing.T) {
	orders := orderapp.NewService(ordermemory.NewRepository())
	sweep := NewOrderSweep(orders, stubInitializer{err: errors.New("no database")}, time.Minute, discardLogger())

	_, err := sweep.Run(context.Background())
	require.ErrorContains(t, err, "storage not ready")
}

func TestOrderSweepSchedule(t *testing.T) {
	sweep := NewOrderSweep(orderapp.NewService(ordermemory.NewRepository()), nil, 0, discardLogger())
	require.Equal(t, DefaultUnpaidOrderTTL, sweep.ttl)

	scheduler, err := sweep.Schedule("@every 1h")
	require.NoError(t, err)
	require.Len(t, scheduler.Entries(), 1)

	_, err = sweep.Schedule("not a schedule")
	require.Error(t, err)
}
