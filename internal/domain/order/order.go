package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/mercato/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a marketplace order
type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "PENDING_PAYMENT"
	OrderStatusPaid           OrderStatus = "PAID"
	OrderStatusProcessing     OrderStatus = "PROCESSING"
	OrderStatusShipped        OrderStatus = "SHIPPED"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCompleted      OrderStatus = "COMPLETED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPendingPayment, OrderStatusPaid, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCompleted,
		OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPendingPayment:
		return target == OrderStatusPaid || target == OrderStatusCancelled
	case OrderStatusPaid:
		return target == OrderStatusProcessing || target == OrderStatusShipped
	case OrderStatusProcessing:
		return target == OrderStatusShipped
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered:
		return target == OrderStatusCompleted
	case OrderStatusCompleted, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// LineStatus tracks per-seller fulfilment of an order line
type LineStatus string

const (
	LineStatusPending LineStatus = "PENDING"
	LineStatusShipped LineStatus = "SHIPPED"
)

// OrderItem represents a line item in an order.
// Product name and price are immutable snapshots taken at checkout.
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	SellerID    uuid.UUID
	ProductName string
	SKU         string
	UnitPrice   decimal.Decimal
	Quantity    int
	LineTotal   decimal.Decimal
	ReturnedQty int
	Status      LineStatus
	ShippedAt   *time.Time
	Carrier     string
	TrackingRef string
}

// RemainingQty returns the quantity not yet returned
func (i *OrderItem) RemainingQty() int {
	return i.Quantity - i.ReturnedQty
}

// Order is the aggregate root for a buyer's purchase across one or more
// sellers. Lines are fulfilled per seller; the order ships when every
// line has shipped.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     string
	BuyerID         uuid.UUID
	Items           []OrderItem
	ShippingAddress valueobject.Address
	Subtotal        decimal.Decimal
	ShippingFee     decimal.Decimal
	GrandTotal      decimal.Decimal
	Status          OrderStatus
	PaidAt          *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CompletedAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string
}

// NewOrderItemInput carries checkout line data into NewOrder
type NewOrderItemInput struct {
	ProductID   uuid.UUID
	SellerID    uuid.UUID
	ProductName string
	SKU         string
	UnitPrice   valueobject.Money
	Quantity    int
}

// NewOrder creates a new order in PENDING_PAYMENT status from checkout lines
func NewOrder(orderNumber string, buyerID uuid.UUID, shippingAddress valueobject.Address, shippingFee valueobject.Money, items []NewOrderItemInput) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer ID cannot be empty")
	}
	if shippingAddress.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address is required")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Order must contain at least one item")
	}
	if shippingFee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_SHIPPING_FEE", "Shipping fee cannot be negative")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		BuyerID:           buyerID,
		ShippingAddress:   shippingAddress,
		ShippingFee:       shippingFee.Amount(),
		Status:            OrderStatusPendingPayment,
		Items:             make([]OrderItem, 0, len(items)),
	}

	for _, input := range items {
		if input.ProductID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
		}
		if input.SellerID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
		}
		if input.Quantity < 1 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
		}
		if !input.UnitPrice.IsPositive() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Unit price must be positive")
		}

		lineTotal := input.UnitPrice.Amount().Mul(decimal.NewFromInt(int64(input.Quantity)))
		o.Items = append(o.Items, OrderItem{
			ID:          uuid.New(),
			OrderID:     o.ID,
			ProductID:   input.ProductID,
			SellerID:    input.SellerID,
			ProductName: input.ProductName,
			SKU:         input.SKU,
			UnitPrice:   input.UnitPrice.Amount(),
			Quantity:    input.Quantity,
			LineTotal:   lineTotal,
			Status:      LineStatusPending,
		})
	}

	o.recalculateTotals()
	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return o, nil
}

// MarkPaid records a successful payment capture
func (o *Order) MarkPaid() error {
	if !o.Status.CanTransitionTo(OrderStatusPaid) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark order paid in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusPaid
	o.PaidAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderPaidEvent(o))

	return nil
}

// ShipLine marks one line shipped by its seller. The order moves to
// PROCESSING on the first shipped line and to SHIPPED once every line
// has shipped.
func (o *Order) ShipLine(itemID, sellerID uuid.UUID, carrier, trackingRef string) error {
	if o.Status != OrderStatusPaid && o.Status != OrderStatusProcessing {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot ship lines of an order in %s status", o.Status))
	}

	item := o.GetItem(itemID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
	}
	if item.SellerID != sellerID {
		return shared.ErrForbidden
	}
	if item.Status == LineStatusShipped {
		return shared.NewDomainError("INVALID_STATE", "Line has already shipped")
	}

	now := time.Now()
	item.Status = LineStatusShipped
	item.ShippedAt = &now
	item.Carrier = carrier
	item.TrackingRef = trackingRef
	o.UpdatedAt = now

	if o.allLinesShipped() {
		o.Status = OrderStatusShipped
		o.ShippedAt = &now
		o.AddDomainEvent(NewOrderShippedEvent(o))
	} else {
		o.Status = OrderStatusProcessing
	}

	return nil
}

// ConfirmDelivery records that the buyer received the goods
func (o *Order) ConfirmDelivery() error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm delivery in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusDelivered
	o.DeliveredAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderDeliveredEvent(o))

	return nil
}

// Complete finalizes a delivered order, releasing seller escrow.
// Called by the buyer or by the auto-completion job after the delivery
// window elapses.
func (o *Order) Complete() error {
	if !o.Status.CanTransitionTo(OrderStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusCompleted
	o.CompletedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderCompletedEvent(o))

	return nil
}

// Cancel cancels an unpaid order
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderCancelledEvent(o))

	return nil
}

// RecordReturn increments the returned quantity on a line after a
// completed return flow
func (o *Order) RecordReturn(itemID uuid.UUID, qty int) error {
	item := o.GetItem(itemID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
	}
	if qty < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Return quantity must be at least 1")
	}
	if qty > item.RemainingQty() {
		return shared.NewDomainError("INVALID_QUANTITY", "Return quantity exceeds remaining quantity")
	}

	item.ReturnedQty += qty
	o.UpdatedAt = time.Now()

	return nil
}

// SellerLines returns the order lines belonging to a seller
func (o *Order) SellerLines(sellerID uuid.UUID) []OrderItem {
	lines := make([]OrderItem, 0)
	for idx := range o.Items {
		if o.Items[idx].SellerID == sellerID {
			lines = append(lines, o.Items[idx])
		}
	}
	return lines
}

// SellerSubtotal returns a seller's share of the order subtotal
func (o *Order) SellerSubtotal(sellerID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for idx := range o.Items {
		if o.Items[idx].SellerID == sellerID {
			total = total.Add(o.Items[idx].LineTotal)
		}
	}
	return total
}

// SellerIDs returns the distinct sellers represented in the order
func (o *Order) SellerIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(o.Items))
	ids := make([]uuid.UUID, 0, len(o.Items))
	for idx := range o.Items {
		if _, ok := seen[o.Items[idx].SellerID]; !ok {
			seen[o.Items[idx].SellerID] = struct{}{}
			ids = append(ids, o.Items[idx].SellerID)
		}
	}
	return ids
}

// GetItem returns an item by its ID
func (o *Order) GetItem(itemID uuid.UUID) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// IsTerminal returns true if the order is completed or cancelled
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}

// GetGrandTotalMoney returns the grand total as Money
func (o *Order) GetGrandTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.GrandTotal)
}

func (o *Order) allLinesShipped() bool {
	for idx := range o.Items {
		if o.Items[idx].Status != LineStatusShipped {
			return false
		}
	}
	return true
}

func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	for idx := range o.Items {
		subtotal = subtotal.Add(o.Items[idx].LineTotal)
	}
	o.Subtotal = subtotal
	o.GrandTotal = subtotal.Add(o.ShippingFee)
}
