package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductInput is the input for creating a draft listing
type CreateProductInput struct {
	SellerID    uuid.UUID `json:"-"`
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
	SKU         string    `json:"sku" binding:"required,max=50"`
	Name        string    `json:"name" binding:"required,max=200"`
	Description string    `json:"description"`
	Price       float64   `json:"price" binding:"min=0"`
	StockQty    int       `json:"stock_qty" binding:"min=0"`
}

// UpdateProductInput is the input for editing a draft or rejected listing
type UpdateProductInput struct {
	ProductID   uuid.UUID `json:"-"`
	SellerID    uuid.UUID `json:"-"`
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
	Name        string    `json:"name" binding:"required,max=200"`
	Description string    `json:"description"`
}

// ChangePriceInput is the input for changing a listing's price
type ChangePriceInput struct {
	ProductID uuid.UUID `json:"-"`
	SellerID  uuid.UUID `json:"-"`
	Price     float64   `json:"price" binding:"required,gt=0"`
}

// AdjustStockInput is the input for a relative stock adjustment
type AdjustStockInput struct {
	ProductID uuid.UUID `json:"-"`
	SellerID  uuid.UUID `json:"-"`
	Delta     int       `json:"delta" binding:"required"`
}

// RejectProductInput is the input for rejecting a listing under review
type RejectProductInput struct {
	ProductID uuid.UUID `json:"-"`
	Reason    string    `json:"reason" binding:"required"`
}

// ProductInfo is the product representation returned to clients
type ProductInfo struct {
	ID           uuid.UUID       `json:"id"`
	SellerID     uuid.UUID       `json:"seller_id"`
	CategoryID   uuid.UUID       `json:"category_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	StockQty     int             `json:"stock_qty"`
	Status       string          `json:"status"`
	RejectReason string          `json:"reject_reason,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToProductInfo converts a domain product to its client representation
func ToProductInfo(p *catalog.Product) ProductInfo {
	return ProductInfo{
		ID:           p.ID,
		SellerID:     p.SellerID,
		CategoryID:   p.CategoryID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		StockQty:     p.StockQty,
		Status:       p.Status.String(),
		RejectReason: p.RejectReason,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// CreateCategoryInput is the input for creating a category
type CreateCategoryInput struct {
	ParentID *uuid.UUID `json:"parent_id"`
	Name     string     `json:"name" binding:"required,max=100"`
	Slug     string     `json:"slug" binding:"required,max=100"`
}

// UpdateCategoryInput is the input for renaming or reordering a category
type UpdateCategoryInput struct {
	CategoryID uuid.UUID `json:"-"`
	Name       string    `json:"name" binding:"required,max=100"`
	SortOrder  int       `json:"sort_order"`
}

// CategoryInfo is the category representation returned to clients
type CategoryInfo struct {
	ID       uuid.UUID  `json:"id"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
	Name     string     `json:"name"`
	Slug     string     `json:"slug"`
	Active   bool       `json:"active"`
}

// ToCategoryInfo converts a domain category to its client representation
func ToCategoryInfo(c *catalog.Category) CategoryInfo {
	return CategoryInfo{
		ID:       c.ID,
		ParentID: c.ParentID,
		Name:     c.Name,
		Slug:     c.Slug,
		Active:   c.Active,
	}
}
