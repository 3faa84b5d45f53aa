package catalog

import (
	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for Product
const AggregateTypeProduct = "Product"

// Product domain event types
const (
	EventTypeProductCreated   = "ProductCreated"
	EventTypeProductSubmitted = "ProductSubmitted"
	EventTypeProductApproved  = "ProductApproved"
	EventTypeProductRejected  = "ProductRejected"
	EventTypeProductArchived  = "ProductArchived"
)

// ProductCreatedEvent is published when a seller creates a draft listing
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	SellerID uuid.UUID `json:"seller_id"`
	SKU      string    `json:"sku"`
	Name     string    `json:"name"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		SellerID:        product.SellerID,
		SKU:             product.SKU,
		Name:            product.Name,
	}
}

// ProductSubmittedEvent is published when a listing enters the review queue
type ProductSubmittedEvent struct {
	shared.BaseDomainEvent
	SellerID uuid.UUID       `json:"seller_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
}

// NewProductSubmittedEvent creates a new ProductSubmittedEvent
func NewProductSubmittedEvent(product *Product) *ProductSubmittedEvent {
	return &ProductSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductSubmitted, AggregateTypeProduct, product.ID),
		SellerID:        product.SellerID,
		Name:            product.Name,
		Price:           product.Price,
	}
}

// ProductApprovedEvent is published when a listing goes live
type ProductApprovedEvent struct {
	shared.BaseDomainEvent
	SellerID uuid.UUID `json:"seller_id"`
	Name     string    `json:"name"`
}

// NewProductApprovedEvent creates a new ProductApprovedEvent
func NewProductApprovedEvent(product *Product) *ProductApprovedEvent {
	return &ProductApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductApproved, AggregateTypeProduct, product.ID),
		SellerID:        product.SellerID,
		Name:            product.Name,
	}
}

// ProductRejectedEvent is published when review rejects a listing
type ProductRejectedEvent struct {
	shared.BaseDomainEvent
	SellerID uuid.UUID `json:"seller_id"`
	Reason   string    `json:"reason"`
}

// NewProductRejectedEvent creates a new ProductRejectedEvent
func NewProductRejectedEvent(product *Product) *ProductRejectedEvent {
	return &ProductRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductRejected, AggregateTypeProduct, product.ID),
		SellerID:        product.SellerID,
		Reason:          product.RejectReason,
	}
}

// ProductArchivedEvent is published when a listing is taken off sale
type ProductArchivedEvent struct {
	shared.BaseDomainEvent
	SellerID uuid.UUID `json:"seller_id"`
}

// NewProductArchivedEvent creates a new ProductArchivedEvent
func NewProductArchivedEvent(product *Product) *ProductArchivedEvent {
	return &ProductArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductArchived, AggregateTypeProduct, product.ID),
		SellerID:        product.SellerID,
	}
}
