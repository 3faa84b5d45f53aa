package identity

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mercato/backend/internal/domain/seller"
	"github.com/mercato/backend/internal/domain/shared"
)

// SellerApprovedHandler promotes a user's role once their seller
// application passes review.
type SellerApprovedHandler struct {
	userService *UserService
	logger      *zap.Logger
}

// NewSellerApprovedHandler creates a new handler
func NewSellerApprovedHandler(userService *UserService, logger *zap.Logger) *SellerApprovedHandler {
	return &SellerApprovedHandler{
		userService: userService,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *SellerApprovedHandler) EventTypes() []string {
	return []string{seller.EventTypeSellerApproved}
}

// Handle processes a seller approval event
func (h *SellerApprovedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	approved, ok := event.(*seller.SellerApprovedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %s", event.EventType())
	}

	if err := h.userService.PromoteToSeller(ctx, approved.UserID); err != nil {
		h.logger.Error("Failed to promote approved seller",
			zap.String("user_id", approved.UserID.String()), zap.Error(err))
		return err
	}

	h.logger.Info("User role promoted after seller approval",
		zap.String("user_id", approved.UserID.String()))
	return nil
}
