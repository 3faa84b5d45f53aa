package catalog

import (
	"context"
	"fmt"

	"github.com/mercato/backend/internal/domain/catalog"
	"github.com/mercato/backend/internal/domain/seller"
	"github.com/mercato/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SellerSuspendedHandler delists a suspended seller's catalog.
// Active and pending listings are archived so they stop appearing
// in public browse and cannot be purchased.
type SellerSuspendedHandler struct {
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewSellerSuspendedHandler creates a new handler
func NewSellerSuspendedHandler(productRepo catalog.ProductRepository, logger *zap.Logger) *SellerSuspendedHandler {
	return &SellerSuspendedHandler{
		productRepo: productRepo,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *SellerSuspendedHandler) EventTypes() []string {
	return []string{seller.EventTypeSellerSuspended}
}

// Handle archives the suspended seller's sellable listings
func (h *SellerSuspendedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	suspended, ok := event.(*seller.SellerSuspendedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %s", event.EventType())
	}

	filter := shared.Filter{Page: 1, PageSize: 500}
	products, err := h.productRepo.FindBySeller(ctx, suspended.UserID, filter)
	if err != nil {
		return fmt.Errorf("load products for suspended seller: %w", err)
	}

	archived := 0
	for i := range products {
		product := &products[i]
		if product.Status != catalog.ProductStatusActive && product.Status != catalog.ProductStatusPendingReview {
			continue
		}
		if product.Status == catalog.ProductStatusPendingReview {
			// Pending listings fail review before archival
			if err := product.Reject("Seller suspended"); err != nil {
				h.logger.Error("Failed to reject pending listing",
					zap.String("product_id", product.ID.String()),
					zap.Error(err))
				continue
			}
		}
		if err := product.Archive(); err != nil {
			h.logger.Error("Failed to archive listing",
				zap.String("product_id", product.ID.String()),
				zap.Error(err))
			continue
		}
		if err := h.productRepo.Save(ctx, product); err != nil {
			h.logger.Error("Failed to save archived listing",
				zap.String("product_id", product.ID.String()),
				zap.Error(err))
			continue
		}
		product.ClearDomainEvents()
		archived++
	}

	h.logger.Info("Delisted suspended seller's catalog",
		zap.String("seller_id", suspended.UserID.String()),
		zap.Int("archived", archived))

	return nil
}
