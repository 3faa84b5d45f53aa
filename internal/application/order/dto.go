package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/order"
	"github.com/mercato/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AddressInput carries a shipping address from the client
type AddressInput struct {
	Line1      string `json:"line1" binding:"required,max=200"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required,max=100"`
	Region     string `json:"region" binding:"required,max=100"`
	PostalCode string `json:"postal_code" binding:"required,max=20"`
	Country    string `json:"country"`
}

// ToAddress converts the input to an Address value object
func (a AddressInput) ToAddress() (valueobject.Address, error) {
	opts := make([]valueobject.AddressOption, 0, 2)
	if a.Line2 != "" {
		opts = append(opts, valueobject.WithLine2(a.Line2))
	}
	if a.Country != "" {
		opts = append(opts, valueobject.WithCountry(a.Country))
	}
	return valueobject.NewAddress(a.Line1, a.City, a.Region, a.PostalCode, opts...)
}

// CheckoutInput is the input for converting a cart into an order
type CheckoutInput struct {
	BuyerID         uuid.UUID    `json:"-"`
	ShippingAddress AddressInput `json:"shipping_address" binding:"required"`
	PaymentMethod   string       `json:"payment_method" binding:"required,oneof=CARD BANK_TRANSFER WALLET"`
}

// CheckoutResult is returned after a successful checkout
type CheckoutResult struct {
	Order     OrderInfo `json:"order"`
	PaymentID uuid.UUID `json:"payment_id"`
}

// ShipLineInput is the input for a seller shipping one order line
type ShipLineInput struct {
	OrderID     uuid.UUID `json:"-"`
	ItemID      uuid.UUID `json:"-"`
	SellerID    uuid.UUID `json:"-"`
	Carrier     string    `json:"carrier" binding:"required,max=100"`
	TrackingRef string    `json:"tracking_ref" binding:"required,max=100"`
}

// CancelOrderInput is the input for cancelling an unpaid order
type CancelOrderInput struct {
	OrderID uuid.UUID `json:"-"`
	BuyerID uuid.UUID `json:"-"`
	Reason  string    `json:"reason" binding:"required"`
}

// OrderItemInfo is the order line representation returned to clients
type OrderItemInfo struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	SellerID    uuid.UUID       `json:"seller_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
	ReturnedQty int             `json:"returned_qty"`
	Status      string          `json:"status"`
	Carrier     string          `json:"carrier,omitempty"`
	TrackingRef string          `json:"tracking_ref,omitempty"`
	ShippedAt   *time.Time      `json:"shipped_at,omitempty"`
}

// OrderInfo is the order representation returned to clients
type OrderInfo struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	BuyerID         uuid.UUID           `json:"buyer_id"`
	Items           []OrderItemInfo     `json:"items"`
	ShippingAddress valueobject.Address `json:"shipping_address"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	ShippingFee     decimal.Decimal     `json:"shipping_fee"`
	GrandTotal      decimal.Decimal     `json:"grand_total"`
	Status          string              `json:"status"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty"`
	CancelReason    string              `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

// ToOrderInfo converts a domain order to its client representation
func ToOrderInfo(o *order.Order) OrderInfo {
	items := make([]OrderItemInfo, 0, len(o.Items))
	for idx := range o.Items {
		item := &o.Items[idx]
		items = append(items, OrderItemInfo{
			ID:          item.ID,
			ProductID:   item.ProductID,
			SellerID:    item.SellerID,
			ProductName: item.ProductName,
			SKU:         item.SKU,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
			ReturnedQty: item.ReturnedQty,
			Status:      string(item.Status),
			Carrier:     item.Carrier,
			TrackingRef: item.TrackingRef,
			ShippedAt:   item.ShippedAt,
		})
	}
	return OrderInfo{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		BuyerID:         o.BuyerID,
		Items:           items,
		ShippingAddress: o.ShippingAddress,
		Subtotal:        o.Subtotal,
		ShippingFee:     o.ShippingFee,
		GrandTotal:      o.GrandTotal,
		Status:          o.Status.String(),
		PaidAt:          o.PaidAt,
		DeliveredAt:     o.DeliveredAt,
		CompletedAt:     o.CompletedAt,
		CancelReason:    o.CancelReason,
		CreatedAt:       o.CreatedAt,
	}
}

// RequestReturnInput is the input for opening a return
type RequestReturnInput struct {
	BuyerID     uuid.UUID `json:"-"`
	OrderID     uuid.UUID `json:"order_id" binding:"required"`
	OrderItemID uuid.UUID `json:"order_item_id" binding:"required"`
	Quantity    int       `json:"quantity" binding:"required,min=1"`
	Reason      string    `json:"reason" binding:"required,max=2000"`
}

// RejectReturnInput is the input for a seller declining a return
type RejectReturnInput struct {
	ReturnID uuid.UUID `json:"-"`
	SellerID uuid.UUID `json:"-"`
	Reason   string    `json:"reason" binding:"required,max=2000"`
}

// PostReturnMessageInput is the input for posting to a return thread
type PostReturnMessageInput struct {
	ReturnID   uuid.UUID `json:"-"`
	AuthorID   uuid.UUID `json:"-"`
	AuthorRole string    `json:"-"`
	Body       string    `json:"body" binding:"required,max=2000"`
}

// ReturnMessageInfo is the thread message representation
type ReturnMessageInfo struct {
	ID         uuid.UUID `json:"id"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorRole string    `json:"author_role"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReturnInfo is the return request representation returned to clients
type ReturnInfo struct {
	ID           uuid.UUID           `json:"id"`
	OrderID      uuid.UUID           `json:"order_id"`
	OrderItemID  uuid.UUID           `json:"order_item_id"`
	BuyerID      uuid.UUID           `json:"buyer_id"`
	SellerID     uuid.UUID           `json:"seller_id"`
	Quantity     int                 `json:"quantity"`
	RefundAmount decimal.Decimal     `json:"refund_amount"`
	Reason       string              `json:"reason"`
	Status       string              `json:"status"`
	RejectReason string              `json:"reject_reason,omitempty"`
	Messages     []ReturnMessageInfo `json:"messages,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

// ToReturnInfo converts a domain return request to its client representation
func ToReturnInfo(r *order.ReturnRequest) ReturnInfo {
	messages := make([]ReturnMessageInfo, 0, len(r.Messages))
	for idx := range r.Messages {
		msg := &r.Messages[idx]
		messages = append(messages, ReturnMessageInfo{
			ID:         msg.ID,
			AuthorID:   msg.AuthorID,
			AuthorRole: string(msg.AuthorRole),
			Body:       msg.Body,
			CreatedAt:  msg.CreatedAt,
		})
	}
	return ReturnInfo{
		ID:           r.ID,
		OrderID:      r.OrderID,
		OrderItemID:  r.OrderItemID,
		BuyerID:      r.BuyerID,
		SellerID:     r.SellerID,
		Quantity:     r.Quantity,
		RefundAmount: r.RefundAmount,
		Reason:       r.Reason,
		Status:       r.Status.String(),
		RejectReason: r.RejectReason,
		Messages:     messages,
		CreatedAt:    r.CreatedAt,
	}
}
