package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder_DefaultsStatusAndDate(t *testing.T) {
	order, err := NewOrder(2, 7, 318.00, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, StatusPendingPayment, order.Status)
	assert.False(t, order.OrderDate.IsZero())
	assert.Nil(t, order.ReviewID)
}

func TestNewOrder_Validation(t *testing.T) {
	_, err := NewOrder(0, 7, 10, time.Now())
	require.ErrorIs(t, err, ErrInvalidServiceID)

	_, err = NewOrder(2, 0, 10, time.Now())
	require.ErrorIs(t, err, ErrInvalidBuyerID)

	_, err = NewOrder(2, 7, -1, time.Now())
	require.ErrorIs(t, err, ErrInvalidTotalPrice)
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPendingPayment, StatusOngoing, true},
		{StatusOngoing, StatusPendingReview, true},
		{StatusPendingReview, StatusCompleted, true},
		{StatusPendingPayment, StatusCancelled, true},
		{StatusOngoing, StatusRefundRequested, true},
		{StatusRefundRequested, StatusCancelled, true},
		{StatusRefundRequested, StatusOngoing, false},
		{StatusPendingPayment, StatusCompleted, false},
		{StatusCompleted, StatusRefundRequested, false},
		{StatusCompleted, StatusOngoing, false},
		{StatusCancelled, StatusPendingPayment, false},
		{Status("Shipped"), StatusOngoing, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestMarkPaid(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	order, err := NewOrder(2, 7, 318.00, now)
	require.NoError(t, err)

	require.NoError(t, order.MarkPaid(now))
	assert.Equal(t, StatusOngoing, order.Status)
	require.NotNil(t, order.PaymentDate)
	assert.Equal(t, now, *order.PaymentDate)

	require.ErrorIs(t, order.MarkPaid(now), ErrInvalidTransition)
}

func TestMarkPaid_DoesNotResurrectCompletedOrder(t *testing.T) {
	order := &Order{ServiceID: 1, BuyerID: 1, Status: StatusCompleted}
	require.ErrorIs(t, order.MarkPaid(time.Now()), ErrInvalidTransition)
	assert.Equal(t, StatusCompleted, order.Status)
}

func TestCompleteWithReview(t *testing.T) {
	now := time.Now().UTC()
	order := &Order{ServiceID: 1, BuyerID: 1, Status: StatusPendingReview}

	require.NoError(t, order.CompleteWithReview(9, now))
	assert.Equal(t, StatusCompleted, order.Status)
	require.NotNil(t, order.ReviewID)
	assert.Equal(t, int64(9), *order.ReviewID)
	require.NotNil(t, order.CompletionDate)

	require.ErrorIs(t, order.CompleteWithReview(10, now), ErrReviewLinked)
}

func TestCompleteWithReview_KeepsExistingCompletionDate(t *testing.T) {
	earlier := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	order := &Order{ServiceID: 1, BuyerID: 1, Status: StatusPendingReview, CompletionDate: &earlier}

	require.NoError(t, order.CompleteWithReview(3, time.Now()))
	assert.Equal(t, earlier, *order.CompletionDate)
}

func TestOverride_IgnoresTableAndStampsSuppliedDates(t *testing.T) {
	refund := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	order := &Order{ServiceID: 1, BuyerID: 1, Status: StatusCompleted}

	require.NoError(t, order.Override(StatusRefundRequested, Timestamps{RefundRequestDate: &refund}))
	assert.Equal(t, StatusRefundRequested, order.Status)
	assert.Equal(t, refund, *order.RefundRequestDate)
	assert.Nil(t, order.PaymentDate)

	require.ErrorIs(t, order.Override(Status("bogus"), Timestamps{}), ErrInvalidStatus)
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus(" pendingreview ")
	require.NoError(t, err)
	assert.Equal(t, StatusPendingReview, status)

	_, err = ParseStatus("Delivered")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestClone_IsDeep(t *testing.T) {
	paid := time.Now()
	reviewID := int64(4)
	order := &Order{ID: 1, PaymentDate: &paid, ReviewID: &reviewID}

	clone := order.Clone()
	*clone.ReviewID = 99
	*clone.PaymentDate = paid.Add(time.Hour)

	assert.Equal(t, int64(4), *order.ReviewID)
	assert.Equal(t, paid, *order.PaymentDate)
}
