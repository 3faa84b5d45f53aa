package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/order"
	"github.com/mercato/backend/internal/domain/payment"
	"github.com/mercato/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPaymentCapturedHandler_Handle(t *testing.T) {
	buyerID := uuid.New()

	newUnpaidOrder := func(t *testing.T) *order.Order {
		o, err := order.NewOrder("MKT-2001", buyerID,
			valueobject.MustNewAddress("1 Market St", "Springfield", "IL", "62701"),
			valueobject.NewMoneyUSDFromFloat(5),
			[]order.NewOrderItemInput{{
				ProductID:   uuid.New(),
				SellerID:    uuid.New(),
				ProductName: "Widget",
				SKU:         "SKU-1",
				UnitPrice:   valueobject.NewMoneyUSDFromFloat(10),
				Quantity:    2,
			}})
		require.NoError(t, err)
		o.ClearDomainEvents()
		return o
	}

	capturedEvent := func(t *testing.T, o *order.Order) *payment.PaymentCapturedEvent {
		p, err := payment.NewPayment(o.ID, buyerID, o.GetGrandTotalMoney(), payment.PaymentMethodCard)
		require.NoError(t, err)
		require.NoError(t, p.MarkSucceeded("ch_123"))
		return payment.NewPaymentCapturedEvent(p)
	}

	t.Run("marks the order paid", func(t *testing.T) {
		orders := new(MockOrderRepository)
		handler := NewPaymentCapturedHandler(orders, zap.NewNop())
		o := newUnpaidOrder(t)

		orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		orders.On("SaveWithLock", mock.Anything, o).Return(nil)

		err := handler.Handle(context.Background(), capturedEvent(t, o))

		require.NoError(t, err)
		assert.Equal(t, order.OrderStatusPaid, o.Status)
	})

	t.Run("redelivered capture is a no-op", func(t *testing.T) {
		orders := new(MockOrderRepository)
		handler := NewPaymentCapturedHandler(orders, zap.NewNop())
		o := newUnpaidOrder(t)
		event := capturedEvent(t, o)
		require.NoError(t, o.MarkPaid())
		o.ClearDomainEvents()

		orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)

		require.NoError(t, handler.Handle(context.Background(), event))
		orders.AssertNotCalled(t, "SaveWithLock")
	})

	t.Run("rejects other event types", func(t *testing.T) {
		orders := new(MockOrderRepository)
		handler := NewPaymentCapturedHandler(orders, zap.NewNop())
		o := newUnpaidOrder(t)

		p, err := payment.NewPayment(o.ID, buyerID, o.GetGrandTotalMoney(), payment.PaymentMethodCard)
		require.NoError(t, err)

		err = handler.Handle(context.Background(), payment.NewPaymentInitiatedEvent(p))
		assert.Error(t, err)
	})

	t.Run("subscribes to payment capture", func(t *testing.T) {
		handler := NewPaymentCapturedHandler(new(MockOrderRepository), zap.NewNop())
		assert.Equal(t, []string{payment.EventTypePaymentCaptured}, handler.EventTypes())
	})
}
