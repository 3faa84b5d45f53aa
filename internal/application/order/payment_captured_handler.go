package order

import (
	"context"
	"fmt"

	"github.com/mercato/backend/internal/domain/order"
	"github.com/mercato/backend/internal/domain/payment"
	"github.com/mercato/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PaymentCapturedHandler moves an order to PAID once its payment
// capture succeeds
type PaymentCapturedHandler struct {
	orderRepo      order.OrderRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPaymentCapturedHandler creates a new handler
func NewPaymentCapturedHandler(orderRepo order.OrderRepository, logger *zap.Logger) *PaymentCapturedHandler {
	return &PaymentCapturedHandler{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for follow-on events
func (h *PaymentCapturedHandler) SetEventPublisher(publisher shared.EventPublisher) {
	h.eventPublisher = publisher
}

// EventTypes returns the event types this handler subscribes to
func (h *PaymentCapturedHandler) EventTypes() []string {
	return []string{payment.EventTypePaymentCaptured}
}

// Handle marks the captured payment's order as paid
func (h *PaymentCapturedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	captured, ok := event.(*payment.PaymentCapturedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %s", event.EventType())
	}

	o, err := h.orderRepo.FindByID(ctx, captured.OrderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", captured.OrderID, err)
	}

	if o.Status == order.OrderStatusPaid {
		// Webhook retries deliver the capture more than once
		return nil
	}

	if err := o.MarkPaid(); err != nil {
		return err
	}

	if err := h.orderRepo.SaveWithLock(ctx, o); err != nil {
		return fmt.Errorf("save paid order %s: %w", o.ID, err)
	}

	if h.eventPublisher != nil {
		for _, e := range o.GetDomainEvents() {
			if err := h.eventPublisher.Publish(ctx, e); err != nil {
				h.logger.Error("Failed to publish event",
					zap.String("event_type", e.EventType()),
					zap.Error(err))
			}
		}
		o.ClearDomainEvents()
	}

	h.logger.Info("Order marked paid",
		zap.String("order_id", o.ID.String()),
		zap.String("payment_id", captured.AggregateID().String()))

	return nil
}
