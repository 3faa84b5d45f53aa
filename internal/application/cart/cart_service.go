package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/cart"
	"github.com/mercato/backend/internal/domain/catalog"
	"github.com/mercato/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CartService handles a buyer's shopping cart. Prices and names on
// cart lines are snapshots; GetCart refreshes them against the
// catalog so buyers see current prices before checkout.
type CartService struct {
	cartRepo    cart.CartRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(cartRepo cart.CartRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// AddItem adds a product to the buyer's active cart, creating the
// cart if none exists
func (s *CartService) AddItem(ctx context.Context, input AddItemInput) (*CartInfo, error) {
	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}
	if !product.IsActive() {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available for purchase")
	}

	buyerCart, err := s.findOrCreateCart(ctx, input.BuyerID)
	if err != nil {
		return nil, err
	}

	if err := buyerCart.AddItem(
		product.ID,
		product.SellerID,
		product.Name,
		product.GetPriceMoney(),
		input.Quantity,
		product.StockQty,
	); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, buyerCart); err != nil {
		s.logger.Error("Failed to save cart", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update cart")
	}

	s.logger.Debug("Cart item added",
		zap.String("cart_id", buyerCart.ID.String()),
		zap.String("product_id", product.ID.String()),
		zap.Int("quantity", input.Quantity))

	info := ToCartInfo(buyerCart, nil)
	return &info, nil
}

// UpdateItemQuantity sets the quantity of a cart line
func (s *CartService) UpdateItemQuantity(ctx context.Context, input UpdateItemInput) (*CartInfo, error) {
	buyerCart, err := s.cartRepo.FindActiveByBuyer(ctx, input.BuyerID)
	if err != nil {
		return nil, shared.NewDomainError("CART_NOT_FOUND", "No active cart")
	}

	item := buyerCart.GetItem(input.ItemID)
	if item == nil {
		return nil, shared.NewDomainError("ITEM_NOT_FOUND", "Cart item not found")
	}

	product, err := s.productRepo.FindByID(ctx, item.ProductID)
	if err != nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	if err := buyerCart.UpdateItemQuantity(input.ItemID, input.Quantity, product.StockQty); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, buyerCart); err != nil {
		s.logger.Error("Failed to save cart", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update cart")
	}

	info := ToCartInfo(buyerCart, nil)
	return &info, nil
}

// RemoveItem removes a line from the buyer's active cart
func (s *CartService) RemoveItem(ctx context.Context, buyerID, itemID uuid.UUID) (*CartInfo, error) {
	buyerCart, err := s.cartRepo.FindActiveByBuyer(ctx, buyerID)
	if err != nil {
		return nil, shared.NewDomainError("CART_NOT_FOUND", "No active cart")
	}

	if err := buyerCart.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, buyerCart); err != nil {
		s.logger.Error("Failed to save cart", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update cart")
	}

	info := ToCartInfo(buyerCart, nil)
	return &info, nil
}

// ClearCart removes every line from the buyer's active cart
func (s *CartService) ClearCart(ctx context.Context, buyerID uuid.UUID) error {
	buyerCart, err := s.cartRepo.FindActiveByBuyer(ctx, buyerID)
	if err != nil {
		return shared.NewDomainError("CART_NOT_FOUND", "No active cart")
	}

	if err := buyerCart.Clear(); err != nil {
		return err
	}

	if err := s.cartRepo.Save(ctx, buyerCart); err != nil {
		s.logger.Error("Failed to save cart", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to clear cart")
	}
	return nil
}

// GetCart returns the buyer's active cart with prices refreshed
// against the catalog. Lines whose product is no longer purchasable
// are removed.
func (s *CartService) GetCart(ctx context.Context, buyerID uuid.UUID) (*CartInfo, error) {
	buyerCart, err := s.cartRepo.FindActiveByBuyer(ctx, buyerID)
	if err != nil {
		empty, err := cart.NewCart(buyerID)
		if err != nil {
			return nil, err
		}
		info := ToCartInfo(empty, nil)
		return &info, nil
	}

	repriced, changed := s.reprice(ctx, buyerCart)
	if changed {
		if err := s.cartRepo.Save(ctx, buyerCart); err != nil {
			s.logger.Error("Failed to save repriced cart", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load cart")
		}
	}

	info := ToCartInfo(buyerCart, repriced)
	return &info, nil
}

// reprice refreshes snapshot prices and drops unavailable products.
// Returns the repriced product IDs and whether anything changed.
func (s *CartService) reprice(ctx context.Context, buyerCart *cart.Cart) ([]uuid.UUID, bool) {
	var repriced []uuid.UUID
	var removed []uuid.UUID
	changed := false

	for idx := range buyerCart.Items {
		item := &buyerCart.Items[idx]
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil || !product.IsActive() {
			removed = append(removed, item.ID)
			continue
		}
		if buyerCart.RepriceItem(product.ID, product.Name, product.GetPriceMoney()) {
			repriced = append(repriced, product.ID)
			changed = true
		}
	}

	for _, itemID := range removed {
		if err := buyerCart.RemoveItem(itemID); err == nil {
			changed = true
		}
	}

	return repriced, changed
}

func (s *CartService) findOrCreateCart(ctx context.Context, buyerID uuid.UUID) (*cart.Cart, error) {
	buyerCart, err := s.cartRepo.FindActiveByBuyer(ctx, buyerID)
	if err == nil {
		return buyerCart, nil
	}
	return cart.NewCart(buyerID)
}
