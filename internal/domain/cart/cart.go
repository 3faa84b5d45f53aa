package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/mercato/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CartStatus represents the status of a shopping cart
type CartStatus string

const (
	CartStatusActive     CartStatus = "ACTIVE"
	CartStatusCheckedOut CartStatus = "CHECKED_OUT"
	CartStatusAbandoned  CartStatus = "ABANDONED"
)

// IsValid checks if the status is a valid CartStatus
func (s CartStatus) IsValid() bool {
	switch s {
	case CartStatusActive, CartStatusCheckedOut, CartStatusAbandoned:
		return true
	}
	return false
}

// Maximum distinct items in a cart
const maxCartItems = 100

// CartItem represents a line in a buyer's cart.
// Name and price are snapshots taken when the item was added; Reprice
// refreshes them against the catalog before checkout.
type CartItem struct {
	ID          uuid.UUID
	CartID      uuid.UUID
	ProductID   uuid.UUID
	SellerID    uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	AddedAt     time.Time
	UpdatedAt   time.Time
}

// LineTotal returns quantity x unit price
func (i *CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the aggregate root for a buyer's shopping cart.
// A buyer has at most one ACTIVE cart; checkout freezes it.
type Cart struct {
	shared.BaseAggregateRoot
	BuyerID      uuid.UUID
	Items        []CartItem
	Status       CartStatus
	CheckedOutAt *time.Time
}

// NewCart creates a new active cart for a buyer
func NewCart(buyerID uuid.UUID) (*Cart, error) {
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer ID cannot be empty")
	}

	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BuyerID:           buyerID,
		Items:             make([]CartItem, 0),
		Status:            CartStatusActive,
	}, nil
}

// AddItem adds a product to the cart, merging quantity if already present
func (c *Cart) AddItem(productID, sellerID uuid.UUID, productName string, unitPrice valueobject.Money, quantity, availableStock int) error {
	if c.Status != CartStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Cart is no longer active")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	now := time.Now()
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			newQty := c.Items[idx].Quantity + quantity
			if newQty > availableStock {
				return shared.ErrInsufficientStock
			}
			c.Items[idx].Quantity = newQty
			c.Items[idx].UnitPrice = unitPrice.Amount()
			c.Items[idx].UpdatedAt = now
			c.UpdatedAt = now
			return nil
		}
	}

	if len(c.Items) >= maxCartItems {
		return shared.NewDomainError("CART_FULL", "Cart cannot hold more distinct items")
	}
	if quantity > availableStock {
		return shared.ErrInsufficientStock
	}

	c.Items = append(c.Items, CartItem{
		ID:          uuid.New(),
		CartID:      c.ID,
		ProductID:   productID,
		SellerID:    sellerID,
		ProductName: productName,
		UnitPrice:   unitPrice.Amount(),
		Quantity:    quantity,
		AddedAt:     now,
		UpdatedAt:   now,
	})
	c.UpdatedAt = now

	return nil
}

// UpdateItemQuantity sets the quantity of an existing item
func (c *Cart) UpdateItemQuantity(itemID uuid.UUID, quantity, availableStock int) error {
	if c.Status != CartStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Cart is no longer active")
	}
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if quantity > availableStock {
		return shared.ErrInsufficientStock
	}

	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			c.Items[idx].Quantity = quantity
			c.Items[idx].UpdatedAt = time.Now()
			c.UpdatedAt = c.Items[idx].UpdatedAt
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Cart item not found")
}

// RemoveItem removes an item from the cart
func (c *Cart) RemoveItem(itemID uuid.UUID) error {
	if c.Status != CartStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Cart is no longer active")
	}

	for idx, item := range c.Items {
		if item.ID == itemID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Cart item not found")
}

// Clear removes all items
func (c *Cart) Clear() error {
	if c.Status != CartStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Cart is no longer active")
	}

	c.Items = c.Items[:0]
	c.UpdatedAt = time.Now()
	return nil
}

// RepriceItem refreshes the snapshot price and name for a product.
// Returns true if the line changed.
func (c *Cart) RepriceItem(productID uuid.UUID, productName string, unitPrice valueobject.Money) bool {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			changed := !c.Items[idx].UnitPrice.Equal(unitPrice.Amount()) || c.Items[idx].ProductName != productName
			if changed {
				c.Items[idx].UnitPrice = unitPrice.Amount()
				c.Items[idx].ProductName = productName
				c.Items[idx].UpdatedAt = time.Now()
				c.UpdatedAt = c.Items[idx].UpdatedAt
			}
			return changed
		}
	}
	return false
}

// Checkout freezes the cart once an order has been created from it
func (c *Cart) Checkout() error {
	if c.Status != CartStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Cart is no longer active")
	}
	if len(c.Items) == 0 {
		return shared.NewDomainError("EMPTY_CART", "Cannot check out an empty cart")
	}

	now := time.Now()
	c.Status = CartStatusCheckedOut
	c.CheckedOutAt = &now
	c.UpdatedAt = now

	return nil
}

// Abandon marks a stale cart as abandoned
func (c *Cart) Abandon() error {
	if c.Status != CartStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Cart is no longer active")
	}

	c.Status = CartStatusAbandoned
	c.UpdatedAt = time.Now()

	return nil
}

// GrandTotal returns the sum of all line totals
func (c *Cart) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for idx := range c.Items {
		total = total.Add(c.Items[idx].LineTotal())
	}
	return total
}

// SellerSubtotals returns per-seller subtotals for the cart
func (c *Cart) SellerSubtotals() map[uuid.UUID]decimal.Decimal {
	subtotals := make(map[uuid.UUID]decimal.Decimal)
	for idx := range c.Items {
		item := &c.Items[idx]
		subtotals[item.SellerID] = subtotals[item.SellerID].Add(item.LineTotal())
	}
	return subtotals
}

// SellerIDs returns the distinct sellers represented in the cart
func (c *Cart) SellerIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(c.Items))
	ids := make([]uuid.UUID, 0, len(c.Items))
	for idx := range c.Items {
		if _, ok := seen[c.Items[idx].SellerID]; !ok {
			seen[c.Items[idx].SellerID] = struct{}{}
			ids = append(ids, c.Items[idx].SellerID)
		}
	}
	return ids
}

// ItemCount returns the number of distinct items
func (c *Cart) ItemCount() int {
	return len(c.Items)
}

// IsEmpty returns true if the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// IsActive returns true if the cart can still be modified
func (c *Cart) IsActive() bool {
	return c.Status == CartStatusActive
}

// GetItem returns an item by its ID
func (c *Cart) GetItem(itemID uuid.UUID) *CartItem {
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			return &c.Items[idx]
		}
	}
	return nil
}

// GetItemByProduct returns an item by product ID
func (c *Cart) GetItemByProduct(productID uuid.UUID) *CartItem {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			return &c.Items[idx]
		}
	}
	return nil
}
