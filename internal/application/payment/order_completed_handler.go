package payment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mercato/backend/internal/domain/order"
	"github.com/mercato/backend/internal/domain/payment"
	"github.com/mercato/backend/internal/domain/shared"
)

// OrderCompletedHandler releases held escrow when an order completes,
// making each seller's net amount payable.
type OrderCompletedHandler struct {
	escrowRepo     payment.EscrowRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderCompletedHandler creates a new handler
func NewOrderCompletedHandler(escrowRepo payment.EscrowRepository, logger *zap.Logger) *OrderCompletedHandler {
	return &OrderCompletedHandler{
		escrowRepo: escrowRepo,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (h *OrderCompletedHandler) SetEventPublisher(publisher shared.EventPublisher) {
	h.eventPublisher = publisher
}

// EventTypes returns the event types this handler subscribes to
func (h *OrderCompletedHandler) EventTypes() []string {
	return []string{order.EventTypeOrderCompleted}
}

// Handle releases every releasable escrow entry backing the completed
// order, including partially refunded ones whose remainder is still owed.
// Entries already released or fully refunded are left alone, so a
// redelivered event changes nothing.
func (h *OrderCompletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	completed, ok := event.(*order.OrderCompletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %s", event.EventType())
	}

	entries, err := h.escrowRepo.FindByOrderID(ctx, completed.AggregateID())
	if err != nil {
		return err
	}

	released := 0
	for i := range entries {
		entry := &entries[i]
		if entry.Status != payment.EscrowStatusHeld &&
			entry.Status != payment.EscrowStatusPartiallyRefunded {
			continue
		}
		if err := entry.Release(); err != nil {
			return err
		}
		if err := h.escrowRepo.SaveWithLock(ctx, entry); err != nil {
			return err
		}
		h.publishEvents(ctx, entry.GetDomainEvents())
		entry.ClearDomainEvents()
		released++
	}

	h.logger.Info("Released escrow for completed order",
		zap.String("order_id", completed.AggregateID().String()),
		zap.Int("released", released))
	return nil
}

func (h *OrderCompletedHandler) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if h.eventPublisher == nil {
		return
	}
	for _, event := range events {
		if err := h.eventPublisher.Publish(ctx, event); err != nil {
			h.logger.Error("Failed to publish event",
				zap.String("event_type", event.EventType()), zap.Error(err))
		}
	}
}
