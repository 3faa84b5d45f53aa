package payment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mercato/backend/internal/domain/order"
	"github.com/mercato/backend/internal/domain/payment"
	"github.com/mercato/backend/internal/domain/shared"
)

func TestReturnReceivedHandler(t *testing.T) {
	ctx := context.Background()
	buyerID := uuid.New()

	t.Run("opens a refund for the received return", func(t *testing.T) {
		f := newRefundServiceFixture()
		handler := NewReturnReceivedHandler(f.svc, zap.NewNop())
		sellerID := uuid.New()
		o := twoSellerOrder(t, buyerID, sellerID, uuid.New())
		p := capturedPayment(t, o)
		ret := receivedReturn(t, o)

		f.refunds.On("FindByReturnRequestID", ctx, ret.ID).Return(nil, shared.ErrNotFound)
		f.payments.On("FindByOrderID", ctx, o.ID).Return([]payment.Payment{*p}, nil)
		f.refunds.On("Save", ctx, mock.AnythingOfType("*payment.Refund")).Return(nil)

		require.NoError(t, handler.Handle(ctx, order.NewReturnReceivedEvent(ret)))
		f.refunds.AssertExpectations(t)
	})

	t.Run("a redelivered event does not open a second refund", func(t *testing.T) {
		f := newRefundServiceFixture()
		handler := NewReturnReceivedHandler(f.svc, zap.NewNop())
		sellerID := uuid.New()
		o := twoSellerOrder(t, buyerID, sellerID, uuid.New())
		p := capturedPayment(t, o)
		ret := receivedReturn(t, o)

		existing, err := payment.NewRefund(p, sellerID, ret.RefundAmount, "Returned item received")
		require.NoError(t, err)

		f.refunds.On("FindByReturnRequestID", ctx, ret.ID).Return(existing, nil)

		require.NoError(t, handler.Handle(ctx, order.NewReturnReceivedEvent(ret)))
		f.refunds.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects unexpected event types", func(t *testing.T) {
		f := newRefundServiceFixture()
		handler := NewReturnReceivedHandler(f.svc, zap.NewNop())
		o := twoSellerOrder(t, buyerID, uuid.New(), uuid.New())

		err := handler.Handle(ctx, order.NewOrderCompletedEvent(o))
		assert.ErrorContains(t, err, "unexpected event type")
	})

	t.Run("subscribes to return received events", func(t *testing.T) {
		f := newRefundServiceFixture()
		handler := NewReturnReceivedHandler(f.svc, zap.NewNop())
		assert.Equal(t, []string{order.EventTypeReturnReceived}, handler.EventTypes())
	})
}
