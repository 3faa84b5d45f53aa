package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/mercato/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the lifecycle status of a product listing
type ProductStatus string

const (
	ProductStatusDraft         ProductStatus = "DRAFT"
	ProductStatusPendingReview ProductStatus = "PENDING_REVIEW"
	ProductStatusActive        ProductStatus = "ACTIVE"
	ProductStatusRejected      ProductStatus = "REJECTED"
	ProductStatusArchived      ProductStatus = "ARCHIVED"
)

// IsValid checks if the status is a valid ProductStatus
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusDraft, ProductStatusPendingReview, ProductStatusActive,
		ProductStatusRejected, ProductStatusArchived:
		return true
	}
	return false
}

// String returns the string representation of ProductStatus
func (s ProductStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ProductStatus) CanTransitionTo(target ProductStatus) bool {
	switch s {
	case ProductStatusDraft:
		return target == ProductStatusPendingReview || target == ProductStatusArchived
	case ProductStatusPendingReview:
		return target == ProductStatusActive || target == ProductStatusRejected
	case ProductStatusActive:
		return target == ProductStatusArchived
	case ProductStatusRejected:
		return target == ProductStatusPendingReview || target == ProductStatusArchived
	case ProductStatusArchived:
		return false // Terminal state
	}
	return false
}

// Product is the aggregate root for a seller's listing.
// Listings go through admin review before they are publicly visible.
type Product struct {
	shared.BaseAggregateRoot
	SellerID     uuid.UUID
	CategoryID   uuid.UUID
	SKU          string
	Name         string
	Description  string
	Price        decimal.Decimal
	StockQty     int
	Status       ProductStatus
	RejectReason string
	SubmittedAt  *time.Time
	ActivatedAt  *time.Time
	ArchivedAt   *time.Time
}

// NewProduct creates a new draft product for a seller
func NewProduct(sellerID, categoryID uuid.UUID, sku, name, description string, price valueobject.Money, stockQty int) (*Product, error) {
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stockQty < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SellerID:          sellerID,
		CategoryID:        categoryID,
		SKU:               strings.ToUpper(strings.TrimSpace(sku)),
		Name:              strings.TrimSpace(name),
		Description:       description,
		Price:             price.Amount(),
		StockQty:          stockQty,
		Status:            ProductStatusDraft,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's editable fields.
// Allowed in DRAFT and REJECTED status; active products only allow
// price and stock changes through their dedicated methods.
func (p *Product) Update(name, description string, categoryID uuid.UUID) error {
	if p.Status != ProductStatusDraft && p.Status != ProductStatusRejected {
		return shared.NewDomainError("INVALID_STATE", "Only draft or rejected products can be edited")
	}
	if err := validateName(name); err != nil {
		return err
	}
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}

	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()

	return nil
}

// ChangePrice updates the unit price
func (p *Product) ChangePrice(price valueobject.Money) error {
	if p.Status == ProductStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Cannot change price of an archived product")
	}
	if !price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be positive")
	}

	p.Price = price.Amount()
	p.UpdatedAt = time.Now()

	return nil
}

// AdjustStock applies a relative stock adjustment (positive or negative)
func (p *Product) AdjustStock(delta int) error {
	if p.Status == ProductStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Cannot adjust stock of an archived product")
	}
	newQty := p.StockQty + delta
	if newQty < 0 {
		return shared.ErrInsufficientStock
	}

	p.StockQty = newQty
	p.UpdatedAt = time.Now()

	return nil
}

// ReserveStock decrements stock for a confirmed purchase
func (p *Product) ReserveStock(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if p.Status != ProductStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Product is not available for purchase")
	}
	if p.StockQty < qty {
		return shared.ErrInsufficientStock
	}

	p.StockQty -= qty
	p.UpdatedAt = time.Now()

	return nil
}

// RestoreStock returns stock after a cancellation or approved return
func (p *Product) RestoreStock(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	p.StockQty += qty
	p.UpdatedAt = time.Now()

	return nil
}

// SubmitForReview submits the product for admin review
func (p *Product) SubmitForReview() error {
	if !p.Status.CanTransitionTo(ProductStatusPendingReview) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit product in %s status", p.Status))
	}
	if !p.Price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be positive before review")
	}
	if p.Description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description is required before review")
	}

	now := time.Now()
	p.Status = ProductStatusPendingReview
	p.SubmittedAt = &now
	p.RejectReason = ""
	p.UpdatedAt = now

	p.AddDomainEvent(NewProductSubmittedEvent(p))

	return nil
}

// Approve activates the listing after admin review
func (p *Product) Approve() error {
	if !p.Status.CanTransitionTo(ProductStatusActive) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve product in %s status", p.Status))
	}

	now := time.Now()
	p.Status = ProductStatusActive
	p.ActivatedAt = &now
	p.UpdatedAt = now

	p.AddDomainEvent(NewProductApprovedEvent(p))

	return nil
}

// Reject returns the listing to the seller with a reason
func (p *Product) Reject(reason string) error {
	if !p.Status.CanTransitionTo(ProductStatusRejected) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject product in %s status", p.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Reject reason is required")
	}

	p.Status = ProductStatusRejected
	p.RejectReason = reason
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductRejectedEvent(p))

	return nil
}

// Archive removes the listing from sale permanently
func (p *Product) Archive() error {
	if !p.Status.CanTransitionTo(ProductStatusArchived) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot archive product in %s status", p.Status))
	}

	now := time.Now()
	p.Status = ProductStatusArchived
	p.ArchivedAt = &now
	p.UpdatedAt = now

	p.AddDomainEvent(NewProductArchivedEvent(p))

	return nil
}

// IsActive returns true if the product is publicly purchasable
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// IsOwnedBy returns true if the given seller owns this product
func (p *Product) IsOwnedBy(sellerID uuid.UUID) bool {
	return p.SellerID == sellerID
}

// GetPriceMoney returns the price as a Money value object
func (p *Product) GetPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Price)
}

func validateSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
