package payment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRefund(t *testing.T) {
	t.Run("creates pending refund against captured payment", func(t *testing.T) {
		p := newCapturedPayment(t, 100)
		sellerID := uuid.New()

		r, err := NewRefund(p, sellerID, decimal.NewFromInt(40), "item returned")
		require.NoError(t, err)

		assert.Equal(t, RefundStatusPending, r.Status)
		assert.Equal(t, p.ID, r.PaymentID)
		assert.Equal(t, p.OrderID, r.OrderID)
		assert.Equal(t, sellerID, r.SellerID)
	})

	t.Run("rejects uncaptured payment", func(t *testing.T) {
		p, err := NewPayment(uuid.New(), uuid.New(), valueobject.NewMoneyUSDFromFloat(100), PaymentMethodCard)
		require.NoError(t, err)

		_, err = NewRefund(p, uuid.New(), decimal.NewFromInt(10), "reason")
		assert.Error(t, err)
	})

	t.Run("rejects amount above refundable balance", func(t *testing.T) {
		p := newCapturedPayment(t, 100)
		require.NoError(t, p.RecordRefund(decimal.NewFromInt(70)))

		_, err := NewRefund(p, uuid.New(), decimal.NewFromInt(31), "reason")
		assert.Error(t, err)
	})

	t.Run("rejects empty reason", func(t *testing.T) {
		p := newCapturedPayment(t, 100)
		_, err := NewRefund(p, uuid.New(), decimal.NewFromInt(10), "  ")
		assert.Error(t, err)
	})
}

func TestRefund_Lifecycle(t *testing.T) {
	newPendingRefund := func(t *testing.T) *Refund {
		p := newCapturedPayment(t, 100)
		r, err := NewRefund(p, uuid.New(), decimal.NewFromInt(25), "damaged item")
		require.NoError(t, err)
		return r
	}

	t.Run("complete", func(t *testing.T) {
		r := newPendingRefund(t)

		require.NoError(t, r.MarkCompleted("re_123"))
		assert.Equal(t, RefundStatusCompleted, r.Status)
		assert.Equal(t, "re_123", r.GatewayRef)
		require.NotNil(t, r.CompletedAt)

		events := r.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeRefundCompleted, events[0].EventType())
	})

	t.Run("fail", func(t *testing.T) {
		r := newPendingRefund(t)

		require.NoError(t, r.MarkFailed("gateway rejected"))
		assert.Equal(t, RefundStatusFailed, r.Status)
		assert.Equal(t, "gateway rejected", r.FailReason)
	})

	t.Run("cannot complete twice", func(t *testing.T) {
		r := newPendingRefund(t)
		require.NoError(t, r.MarkCompleted("re_123"))
		assert.Error(t, r.MarkCompleted("re_456"))
	})

	t.Run("link to return request", func(t *testing.T) {
		r := newPendingRefund(t)
		returnID := uuid.New()
		itemID := uuid.New()

		require.NoError(t, r.LinkReturn(returnID, itemID))
		require.NotNil(t, r.ReturnRequestID)
		assert.Equal(t, returnID, *r.ReturnRequestID)
		require.NotNil(t, r.OrderItemID)
		assert.Equal(t, itemID, *r.OrderItemID)
	})
}
