package order

import (
	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeOrder         = "Order"
	AggregateTypeReturnRequest = "ReturnRequest"
)

// Order domain event types
const (
	EventTypeOrderCreated   = "OrderCreated"
	EventTypeOrderPaid      = "OrderPaid"
	EventTypeOrderShipped   = "OrderShipped"
	EventTypeOrderDelivered = "OrderDelivered"
	EventTypeOrderCompleted = "OrderCompleted"
	EventTypeOrderCancelled = "OrderCancelled"

	EventTypeReturnRequested = "ReturnRequested"
	EventTypeReturnApproved  = "ReturnApproved"
	EventTypeReturnRejected  = "ReturnRejected"
	EventTypeReturnReceived  = "ReturnReceived"
)

// OrderCreatedEvent is published when checkout creates an order
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	BuyerID     uuid.UUID       `json:"buyer_id"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	SellerIDs   []uuid.UUID     `json:"seller_ids"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		BuyerID:         o.BuyerID,
		GrandTotal:      o.GrandTotal,
		SellerIDs:       o.SellerIDs(),
	}
}

// OrderPaidEvent is published when payment is captured for an order
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	BuyerID     uuid.UUID       `json:"buyer_id"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
}

// NewOrderPaidEvent creates a new OrderPaidEvent
func NewOrderPaidEvent(o *Order) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		BuyerID:         o.BuyerID,
		GrandTotal:      o.GrandTotal,
	}
}

// OrderShippedEvent is published when every line of an order has shipped
type OrderShippedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewOrderShippedEvent creates a new OrderShippedEvent
func NewOrderShippedEvent(o *Order) *OrderShippedEvent {
	return &OrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderShipped, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
	}
}

// OrderDeliveredEvent is published when the buyer confirms delivery
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewOrderDeliveredEvent creates a new OrderDeliveredEvent
func NewOrderDeliveredEvent(o *Order) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDelivered, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
	}
}

// OrderCompletedEvent is published when an order is finalized.
// The payments context reacts by releasing seller escrow.
type OrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string      `json:"order_number"`
	SellerIDs   []uuid.UUID `json:"seller_ids"`
}

// NewOrderCompletedEvent creates a new OrderCompletedEvent
func NewOrderCompletedEvent(o *Order) *OrderCompletedEvent {
	return &OrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCompleted, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		SellerIDs:       o.SellerIDs(),
	}
}

// OrderCancelledEvent is published when an unpaid order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	Reason      string `json:"reason"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		Reason:          o.CancelReason,
	}
}

// ReturnRequestedEvent is published when a buyer opens a return
type ReturnRequestedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	SellerID     uuid.UUID       `json:"seller_id"`
	Quantity     int             `json:"quantity"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
}

// NewReturnRequestedEvent creates a new ReturnRequestedEvent
func NewReturnRequestedEvent(r *ReturnRequest) *ReturnRequestedEvent {
	return &ReturnRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnRequested, AggregateTypeReturnRequest, r.ID),
		OrderID:         r.OrderID,
		SellerID:        r.SellerID,
		Quantity:        r.Quantity,
		RefundAmount:    r.RefundAmount,
	}
}

// ReturnApprovedEvent is published when the seller accepts a return
type ReturnApprovedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
	BuyerID uuid.UUID `json:"buyer_id"`
}

// NewReturnApprovedEvent creates a new ReturnApprovedEvent
func NewReturnApprovedEvent(r *ReturnRequest) *ReturnApprovedEvent {
	return &ReturnApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnApproved, AggregateTypeReturnRequest, r.ID),
		OrderID:         r.OrderID,
		BuyerID:         r.BuyerID,
	}
}

// ReturnRejectedEvent is published when the seller declines a return
type ReturnRejectedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
	Reason  string    `json:"reason"`
}

// NewReturnRejectedEvent creates a new ReturnRejectedEvent
func NewReturnRejectedEvent(r *ReturnRequest) *ReturnRejectedEvent {
	return &ReturnRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnRejected, AggregateTypeReturnRequest, r.ID),
		OrderID:         r.OrderID,
		Reason:          r.RejectReason,
	}
}

// ReturnReceivedEvent is published when the seller confirms receipt of a
// returned item. The payments context reacts by issuing the refund.
type ReturnReceivedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	OrderItemID  uuid.UUID       `json:"order_item_id"`
	SellerID     uuid.UUID       `json:"seller_id"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
}

// NewReturnReceivedEvent creates a new ReturnReceivedEvent
func NewReturnReceivedEvent(r *ReturnRequest) *ReturnReceivedEvent {
	return &ReturnReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnReceived, AggregateTypeReturnRequest, r.ID),
		OrderID:         r.OrderID,
		OrderItemID:     r.OrderItemID,
		SellerID:        r.SellerID,
		RefundAmount:    r.RefundAmount,
	}
}
