package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercato/backend/internal/domain/cart"
)

// CartModel is the persistence model for the Cart aggregate root.
type CartModel struct {
	AggregateModel
	BuyerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Items        []CartItemModel `gorm:"foreignKey:CartID;references:ID"`
	Status       cart.CartStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	CheckedOutAt *time.Time
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel is the persistence model for a cart line.
type CartItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	CartID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	SellerID    uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity    int             `gorm:"not null"`
	AddedAt     time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain Cart entity.
func (m *CartModel) ToDomain() *cart.Cart {
	items := make([]cart.CartItem, 0, len(m.Items))
	for i := range m.Items {
		items = append(items, m.Items[i].toDomain())
	}
	return &cart.Cart{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		BuyerID:           m.BuyerID,
		Items:             items,
		Status:            m.Status,
		CheckedOutAt:      m.CheckedOutAt,
	}
}

// FromDomain populates the persistence model from a domain Cart entity.
func (m *CartModel) FromDomain(c *cart.Cart) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.BuyerID = c.BuyerID
	m.Status = c.Status
	m.CheckedOutAt = c.CheckedOutAt
	m.Items = make([]CartItemModel, 0, len(c.Items))
	for i := range c.Items {
		var item CartItemModel
		item.fromDomain(&c.Items[i])
		m.Items = append(m.Items, item)
	}
}

func (m *CartItemModel) toDomain() cart.CartItem {
	return cart.CartItem{
		ID:          m.ID,
		CartID:      m.CartID,
		ProductID:   m.ProductID,
		SellerID:    m.SellerID,
		ProductName: m.ProductName,
		UnitPrice:   m.UnitPrice,
		Quantity:    m.Quantity,
		AddedAt:     m.AddedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (m *CartItemModel) fromDomain(item *cart.CartItem) {
	m.ID = item.ID
	m.CartID = item.CartID
	m.ProductID = item.ProductID
	m.SellerID = item.SellerID
	m.ProductName = item.ProductName
	m.UnitPrice = item.UnitPrice
	m.Quantity = item.Quantity
	m.AddedAt = item.AddedAt
	m.UpdatedAt = item.UpdatedAt
}
