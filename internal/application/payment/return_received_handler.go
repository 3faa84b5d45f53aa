package payment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mercato/backend/internal/domain/order"
	"github.com/mercato/backend/internal/domain/shared"
)

// ReturnReceivedHandler opens a refund when a seller confirms receipt of
// a returned item.
type ReturnReceivedHandler struct {
	refundService *RefundService
	logger        *zap.Logger
}

// NewReturnReceivedHandler creates a new handler
func NewReturnReceivedHandler(refundService *RefundService, logger *zap.Logger) *ReturnReceivedHandler {
	return &ReturnReceivedHandler{
		refundService: refundService,
		logger:        logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *ReturnReceivedHandler) EventTypes() []string {
	return []string{order.EventTypeReturnReceived}
}

// Handle creates a pending refund for the received return
func (h *ReturnReceivedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	received, ok := event.(*order.ReturnReceivedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %s", event.EventType())
	}

	info, err := h.refundService.CreateForReturn(ctx, CreateRefundInput{
		ReturnRequestID: received.AggregateID(),
		OrderID:         received.OrderID,
		OrderItemID:     received.OrderItemID,
		SellerID:        received.SellerID,
		Amount:          received.RefundAmount,
	})
	if err != nil {
		return err
	}

	h.logger.Info("Refund opened for received return",
		zap.String("return_request_id", received.AggregateID().String()),
		zap.String("refund_id", info.ID.String()))
	return nil
}
