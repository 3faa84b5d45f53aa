package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercato/backend/internal/domain/order"
	"github.com/mercato/backend/internal/domain/shared/valueobject"
)

// OrderModel is the persistence model for the Order aggregate root.
// The shipping address is flattened into columns.
type OrderModel struct {
	AggregateModel
	OrderNumber   string            `gorm:"type:varchar(30);not null;uniqueIndex"`
	BuyerID       uuid.UUID         `gorm:"type:uuid;not null;index"`
	Items         []OrderItemModel  `gorm:"foreignKey:OrderID;references:ID"`
	ShipLine1     string            `gorm:"type:varchar(200);not null"`
	ShipLine2     string            `gorm:"type:varchar(200)"`
	ShipCity      string            `gorm:"type:varchar(100);not null"`
	ShipRegion    string            `gorm:"type:varchar(100);not null"`
	ShipPostal    string            `gorm:"type:varchar(20);not null"`
	ShipCountry   string            `gorm:"type:varchar(100);not null"`
	Subtotal      decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	ShippingFee   decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal    decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Status        order.OrderStatus `gorm:"type:varchar(30);not null;default:'PENDING_PAYMENT';index"`
	PaidAt        *time.Time
	ShippedAt     *time.Time
	DeliveredAt   *time.Time `gorm:"index"`
	CompletedAt   *time.Time
	CancelledAt   *time.Time
	CancelReason  string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the persistence model for an order line.
type OrderItemModel struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	SellerID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductName string           `gorm:"type:varchar(200);not null"`
	SKU         string           `gorm:"type:varchar(60);not null"`
	UnitPrice   decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Quantity    int              `gorm:"not null"`
	LineTotal   decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	ReturnedQty int              `gorm:"not null;default:0"`
	Status      order.LineStatus `gorm:"type:varchar(20);not null"`
	ShippedAt   *time.Time
	Carrier     string `gorm:"type:varchar(100)"`
	TrackingRef string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Order entity.
// The stored address was validated when the order was placed; a row that
// no longer rehydrates is corrupt and surfaces as an error.
func (m *OrderModel) ToDomain() (*order.Order, error) {
	address, err := valueobject.NewAddress(m.ShipLine1, m.ShipCity, m.ShipRegion, m.ShipPostal,
		valueobject.WithLine2(m.ShipLine2), valueobject.WithCountry(m.ShipCountry))
	if err != nil {
		return nil, fmt.Errorf("order %s: invalid stored address: %w", m.ID, err)
	}

	items := make([]order.OrderItem, 0, len(m.Items))
	for i := range m.Items {
		items = append(items, m.Items[i].toDomain())
	}
	return &order.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		BuyerID:           m.BuyerID,
		Items:             items,
		ShippingAddress:   address,
		Subtotal:          m.Subtotal,
		ShippingFee:       m.ShippingFee,
		GrandTotal:        m.GrandTotal,
		Status:            m.Status,
		PaidAt:            m.PaidAt,
		ShippedAt:         m.ShippedAt,
		DeliveredAt:       m.DeliveredAt,
		CompletedAt:       m.CompletedAt,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
	}, nil
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.BuyerID = o.BuyerID
	m.ShipLine1 = o.ShippingAddress.Line1()
	m.ShipLine2 = o.ShippingAddress.Line2()
	m.ShipCity = o.ShippingAddress.City()
	m.ShipRegion = o.ShippingAddress.Region()
	m.ShipPostal = o.ShippingAddress.PostalCode()
	m.ShipCountry = o.ShippingAddress.Country()
	m.Subtotal = o.Subtotal
	m.ShippingFee = o.ShippingFee
	m.GrandTotal = o.GrandTotal
	m.Status = o.Status
	m.PaidAt = o.PaidAt
	m.ShippedAt = o.ShippedAt
	m.DeliveredAt = o.DeliveredAt
	m.CompletedAt = o.CompletedAt
	m.CancelledAt = o.CancelledAt
	m.CancelReason = o.CancelReason
	m.Items = make([]OrderItemModel, 0, len(o.Items))
	for i := range o.Items {
		var item OrderItemModel
		item.fromDomain(&o.Items[i])
		m.Items = append(m.Items, item)
	}
}

func (m *OrderItemModel) toDomain() order.OrderItem {
	return order.OrderItem{
		ID:          m.ID,
		OrderID:     m.OrderID,
		ProductID:   m.ProductID,
		SellerID:    m.SellerID,
		ProductName: m.ProductName,
		SKU:         m.SKU,
		UnitPrice:   m.UnitPrice,
		Quantity:    m.Quantity,
		LineTotal:   m.LineTotal,
		ReturnedQty: m.ReturnedQty,
		Status:      m.Status,
		ShippedAt:   m.ShippedAt,
		Carrier:     m.Carrier,
		TrackingRef: m.TrackingRef,
	}
}

func (m *OrderItemModel) fromDomain(item *order.OrderItem) {
	m.ID = item.ID
	m.OrderID = item.OrderID
	m.ProductID = item.ProductID
	m.SellerID = item.SellerID
	m.ProductName = item.ProductName
	m.SKU = item.SKU
	m.UnitPrice = item.UnitPrice
	m.Quantity = item.Quantity
	m.LineTotal = item.LineTotal
	m.ReturnedQty = item.ReturnedQty
	m.Status = item.Status
	m.ShippedAt = item.ShippedAt
	m.Carrier = item.Carrier
	m.TrackingRef = item.TrackingRef
}

// ReturnRequestModel is the persistence model for the ReturnRequest
// aggregate root.
type ReturnRequestModel struct {
	AggregateModel
	OrderID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	OrderItemID  uuid.UUID            `gorm:"type:uuid;not null;index"`
	BuyerID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	SellerID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	Quantity     int                  `gorm:"not null"`
	UnitPrice    decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	RefundAmount decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Reason       string               `gorm:"type:varchar(500);not null"`
	Status       order.ReturnStatus   `gorm:"type:varchar(20);not null;index"`
	RejectReason string               `gorm:"type:varchar(500)"`
	Messages     []ReturnMessageModel `gorm:"foreignKey:ReturnID;references:ID"`
	ApprovedAt   *time.Time
	ReceivedAt   *time.Time
	RefundedAt   *time.Time
	ClosedAt     *time.Time
}

// TableName returns the table name for GORM
func (ReturnRequestModel) TableName() string {
	return "return_requests"
}

// ReturnMessageModel is the persistence model for a return thread message.
type ReturnMessageModel struct {
	ID         uuid.UUID               `gorm:"type:uuid;primary_key"`
	ReturnID   uuid.UUID               `gorm:"type:uuid;not null;index"`
	AuthorID   uuid.UUID               `gorm:"type:uuid;not null"`
	AuthorRole order.MessageAuthorRole `gorm:"type:varchar(20);not null"`
	Body       string                  `gorm:"type:text;not null"`
	CreatedAt  time.Time               `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReturnMessageModel) TableName() string {
	return "return_messages"
}

// ToDomain converts the persistence model to a domain ReturnRequest entity.
func (m *ReturnRequestModel) ToDomain() *order.ReturnRequest {
	messages := make([]order.ReturnMessage, 0, len(m.Messages))
	for i := range m.Messages {
		msg := m.Messages[i]
		messages = append(messages, order.ReturnMessage{
			ID:         msg.ID,
			ReturnID:   msg.ReturnID,
			AuthorID:   msg.AuthorID,
			AuthorRole: msg.AuthorRole,
			Body:       msg.Body,
			CreatedAt:  msg.CreatedAt,
		})
	}
	return &order.ReturnRequest{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrderID:           m.OrderID,
		OrderItemID:       m.OrderItemID,
		BuyerID:           m.BuyerID,
		SellerID:          m.SellerID,
		Quantity:          m.Quantity,
		UnitPrice:         m.UnitPrice,
		RefundAmount:      m.RefundAmount,
		Reason:            m.Reason,
		Status:            m.Status,
		RejectReason:      m.RejectReason,
		Messages:          messages,
		ApprovedAt:        m.ApprovedAt,
		ReceivedAt:        m.ReceivedAt,
		RefundedAt:        m.RefundedAt,
		ClosedAt:          m.ClosedAt,
	}
}

// FromDomain populates the persistence model from a domain ReturnRequest.
func (m *ReturnRequestModel) FromDomain(r *order.ReturnRequest) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.OrderID = r.OrderID
	m.OrderItemID = r.OrderItemID
	m.BuyerID = r.BuyerID
	m.SellerID = r.SellerID
	m.Quantity = r.Quantity
	m.UnitPrice = r.UnitPrice
	m.RefundAmount = r.RefundAmount
	m.Reason = r.Reason
	m.Status = r.Status
	m.RejectReason = r.RejectReason
	m.ApprovedAt = r.ApprovedAt
	m.ReceivedAt = r.ReceivedAt
	m.RefundedAt = r.RefundedAt
	m.ClosedAt = r.ClosedAt
	m.Messages = make([]ReturnMessageModel, 0, len(r.Messages))
	for i := range r.Messages {
		msg := r.Messages[i]
		m.Messages = append(m.Messages, ReturnMessageModel{
			ID:         msg.ID,
			ReturnID:   msg.ReturnID,
			AuthorID:   msg.AuthorID,
			AuthorRole: msg.AuthorRole,
			Body:       msg.Body,
			CreatedAt:  msg.CreatedAt,
		})
	}
}
