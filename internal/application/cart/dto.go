package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/cart"
	"github.com/shopspring/decimal"
)

// AddItemInput is the input for adding a product to the cart
type AddItemInput struct {
	BuyerID   uuid.UUID `json:"-"`
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateItemInput is the input for changing an item's quantity
type UpdateItemInput struct {
	BuyerID  uuid.UUID `json:"-"`
	ItemID   uuid.UUID `json:"-"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
}

// CartItemInfo is the cart line representation returned to clients
type CartItemInfo struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	SellerID    uuid.UUID       `json:"seller_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CartInfo is the cart representation returned to clients
type CartInfo struct {
	ID         uuid.UUID       `json:"id"`
	BuyerID    uuid.UUID       `json:"buyer_id"`
	Status     string          `json:"status"`
	Items      []CartItemInfo  `json:"items"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	UpdatedAt  time.Time       `json:"updated_at"`
	// Repriced lists product IDs whose snapshot price changed during
	// the last refresh against the catalog
	Repriced []uuid.UUID `json:"repriced,omitempty"`
}

// ToCartInfo converts a domain cart to its client representation
func ToCartInfo(c *cart.Cart, repriced []uuid.UUID) CartInfo {
	items := make([]CartItemInfo, 0, len(c.Items))
	for idx := range c.Items {
		item := &c.Items[idx]
		items = append(items, CartItemInfo{
			ID:          item.ID,
			ProductID:   item.ProductID,
			SellerID:    item.SellerID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal(),
		})
	}
	return CartInfo{
		ID:         c.ID,
		BuyerID:    c.BuyerID,
		Status:     string(c.Status),
		Items:      items,
		GrandTotal: c.GrandTotal(),
		UpdatedAt:  c.UpdatedAt,
		Repriced:   repriced,
	}
}
