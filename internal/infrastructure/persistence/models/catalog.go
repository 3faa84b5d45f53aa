package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercato/backend/internal/domain/catalog"
)

// CategoryModel is the persistence model for the Category entity.
type CategoryModel struct {
	BaseModel
	ParentID  *uuid.UUID `gorm:"type:uuid;index"`
	Name      string     `gorm:"type:varchar(100);not null"`
	Slug      string     `gorm:"type:varchar(120);not null;uniqueIndex"`
	SortOrder int        `gorm:"not null;default:0"`
	Active    bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity: m.BaseModel.ToDomain(),
		ParentID:   m.ParentID,
		Name:       m.Name,
		Slug:       m.Slug,
		SortOrder:  m.SortOrder,
		Active:     m.Active,
	}
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.ParentID = c.ParentID
	m.Name = c.Name
	m.Slug = c.Slug
	m.SortOrder = c.SortOrder
	m.Active = c.Active
}

// ProductModel is the persistence model for the Product aggregate root.
type ProductModel struct {
	AggregateModel
	SellerID     uuid.UUID             `gorm:"type:uuid;not null;index;uniqueIndex:idx_products_seller_sku,priority:1"`
	CategoryID   uuid.UUID             `gorm:"type:uuid;not null;index"`
	SKU          string                `gorm:"type:varchar(60);not null;uniqueIndex:idx_products_seller_sku,priority:2"`
	Name         string                `gorm:"type:varchar(200);not null"`
	Description  string                `gorm:"type:text"`
	Price        decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	StockQty     int                   `gorm:"not null;default:0"`
	Status       catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	RejectReason string                `gorm:"type:varchar(500)"`
	SubmittedAt  *time.Time
	ActivatedAt  *time.Time
	ArchivedAt   *time.Time
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SellerID:          m.SellerID,
		CategoryID:        m.CategoryID,
		SKU:               m.SKU,
		Name:              m.Name,
		Description:       m.Description,
		Price:             m.Price,
		StockQty:          m.StockQty,
		Status:            m.Status,
		RejectReason:      m.RejectReason,
		SubmittedAt:       m.SubmittedAt,
		ActivatedAt:       m.ActivatedAt,
		ArchivedAt:        m.ArchivedAt,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.SellerID = p.SellerID
	m.CategoryID = p.CategoryID
	m.SKU = p.SKU
	m.Name = p.Name
	m.Description = p.Description
	m.Price = p.Price
	m.StockQty = p.StockQty
	m.Status = p.Status
	m.RejectReason = p.RejectReason
	m.SubmittedAt = p.SubmittedAt
	m.ActivatedAt = p.ActivatedAt
	m.ArchivedAt = p.ArchivedAt
}
