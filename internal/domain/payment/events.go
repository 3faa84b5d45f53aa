package payment

import (
	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypePayment     = "Payment"
	AggregateTypeEscrowEntry = "EscrowEntry"
	AggregateTypeRefund      = "Refund"
	AggregateTypeSettlement  = "Settlement"
	AggregateTypePayout      = "Payout"
)

// Payment domain event types
const (
	EventTypePaymentInitiated = "PaymentInitiated"
	EventTypePaymentCaptured  = "PaymentCaptured"
	EventTypePaymentFailed    = "PaymentFailed"

	EventTypeEscrowReleased = "EscrowReleased"
	EventTypeEscrowRefunded = "EscrowRefunded"

	EventTypeRefundCompleted = "RefundCompleted"
	EventTypeRefundFailed    = "RefundFailed"

	EventTypeSettlementFinalized = "SettlementFinalized"

	EventTypePayoutScheduled = "PayoutScheduled"
	EventTypePayoutPaid      = "PayoutPaid"
	EventTypePayoutFailed    = "PayoutFailed"
)

// PaymentInitiatedEvent is published when a payment attempt starts
type PaymentInitiatedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID       `json:"order_id"`
	BuyerID uuid.UUID       `json:"buyer_id"`
	Amount  decimal.Decimal `json:"amount"`
	Method  PaymentMethod   `json:"method"`
}

// NewPaymentInitiatedEvent creates a new PaymentInitiatedEvent
func NewPaymentInitiatedEvent(p *Payment) *PaymentInitiatedEvent {
	return &PaymentInitiatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentInitiated, AggregateTypePayment, p.ID),
		OrderID:         p.OrderID,
		BuyerID:         p.BuyerID,
		Amount:          p.Amount,
		Method:          p.Method,
	}
}

// PaymentCapturedEvent is published when the gateway confirms capture.
// Order and escrow handling hang off this event.
type PaymentCapturedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID       `json:"order_id"`
	BuyerID    uuid.UUID       `json:"buyer_id"`
	Amount     decimal.Decimal `json:"amount"`
	GatewayRef string          `json:"gateway_ref"`
}

// NewPaymentCapturedEvent creates a new PaymentCapturedEvent
func NewPaymentCapturedEvent(p *Payment) *PaymentCapturedEvent {
	return &PaymentCapturedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCaptured, AggregateTypePayment, p.ID),
		OrderID:         p.OrderID,
		BuyerID:         p.BuyerID,
		Amount:          p.Amount,
		GatewayRef:      p.GatewayRef,
	}
}

// PaymentFailedEvent is published when the gateway declines a payment
type PaymentFailedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
	Reason  string    `json:"reason"`
}

// NewPaymentFailedEvent creates a new PaymentFailedEvent
func NewPaymentFailedEvent(p *Payment) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentFailed, AggregateTypePayment, p.ID),
		OrderID:         p.OrderID,
		Reason:          p.FailReason,
	}
}

// EscrowReleasedEvent is published when a seller's held funds release
type EscrowReleasedEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID       `json:"payment_id"`
	OrderID   uuid.UUID       `json:"order_id"`
	SellerID  uuid.UUID       `json:"seller_id"`
	NetAmount decimal.Decimal `json:"net_amount"`
}

// NewEscrowReleasedEvent creates a new EscrowReleasedEvent
func NewEscrowReleasedEvent(e *EscrowEntry) *EscrowReleasedEvent {
	return &EscrowReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEscrowReleased, AggregateTypeEscrowEntry, e.ID),
		PaymentID:       e.PaymentID,
		OrderID:         e.OrderID,
		SellerID:        e.SellerID,
		NetAmount:       e.NetAmount,
	}
}

// EscrowRefundedEvent is published when held funds return to the buyer
type EscrowRefundedEvent struct {
	shared.BaseDomainEvent
	PaymentID      uuid.UUID       `json:"payment_id"`
	OrderID        uuid.UUID       `json:"order_id"`
	SellerID       uuid.UUID       `json:"seller_id"`
	RefundedAmount decimal.Decimal `json:"refunded_amount"`
}

// NewEscrowRefundedEvent creates a new EscrowRefundedEvent
func NewEscrowRefundedEvent(e *EscrowEntry, portion decimal.Decimal) *EscrowRefundedEvent {
	return &EscrowRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEscrowRefunded, AggregateTypeEscrowEntry, e.ID),
		PaymentID:       e.PaymentID,
		OrderID:         e.OrderID,
		SellerID:        e.SellerID,
		RefundedAmount:  portion,
	}
}

// RefundCompletedEvent is published when the gateway confirms a refund
type RefundCompletedEvent struct {
	shared.BaseDomainEvent
	PaymentID       uuid.UUID       `json:"payment_id"`
	OrderID         uuid.UUID       `json:"order_id"`
	SellerID        uuid.UUID       `json:"seller_id"`
	ReturnRequestID *uuid.UUID      `json:"return_request_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
}

// NewRefundCompletedEvent creates a new RefundCompletedEvent
func NewRefundCompletedEvent(r *Refund) *RefundCompletedEvent {
	return &RefundCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRefundCompleted, AggregateTypeRefund, r.ID),
		PaymentID:       r.PaymentID,
		OrderID:         r.OrderID,
		SellerID:        r.SellerID,
		ReturnRequestID: r.ReturnRequestID,
		Amount:          r.Amount,
	}
}

// RefundFailedEvent is published when the gateway rejects a refund
type RefundFailedEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID       `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason"`
}

// NewRefundFailedEvent creates a new RefundFailedEvent
func NewRefundFailedEvent(r *Refund) *RefundFailedEvent {
	return &RefundFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRefundFailed, AggregateTypeRefund, r.ID),
		PaymentID:       r.PaymentID,
		Amount:          r.Amount,
		Reason:          r.FailReason,
	}
}

// SettlementFinalizedEvent is published when a statement locks
type SettlementFinalizedEvent struct {
	shared.BaseDomainEvent
	SellerID   uuid.UUID       `json:"seller_id"`
	Period     string          `json:"period"`
	NetPayable decimal.Decimal `json:"net_payable"`
}

// NewSettlementFinalizedEvent creates a new SettlementFinalizedEvent
func NewSettlementFinalizedEvent(s *Settlement) *SettlementFinalizedEvent {
	return &SettlementFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSettlementFinalized, AggregateTypeSettlement, s.ID),
		SellerID:        s.SellerID,
		Period:          s.Period(),
		NetPayable:      s.NetPayable,
	}
}

// PayoutScheduledEvent is published when a payout enters the queue
type PayoutScheduledEvent struct {
	shared.BaseDomainEvent
	SellerID uuid.UUID       `json:"seller_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// NewPayoutScheduledEvent creates a new PayoutScheduledEvent
func NewPayoutScheduledEvent(p *Payout) *PayoutScheduledEvent {
	return &PayoutScheduledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayoutScheduled, AggregateTypePayout, p.ID),
		SellerID:        p.SellerID,
		Amount:          p.Amount,
	}
}

// PayoutPaidEvent is published when the transfer completes
type PayoutPaidEvent struct {
	shared.BaseDomainEvent
	SellerID uuid.UUID       `json:"seller_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// NewPayoutPaidEvent creates a new PayoutPaidEvent
func NewPayoutPaidEvent(p *Payout) *PayoutPaidEvent {
	return &PayoutPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayoutPaid, AggregateTypePayout, p.ID),
		SellerID:        p.SellerID,
		Amount:          p.Amount,
	}
}

// PayoutFailedEvent is published when retries are exhausted
type PayoutFailedEvent struct {
	shared.BaseDomainEvent
	SellerID  uuid.UUID       `json:"seller_id"`
	Amount    decimal.Decimal `json:"amount"`
	LastError string          `json:"last_error"`
}

// NewPayoutFailedEvent creates a new PayoutFailedEvent
func NewPayoutFailedEvent(p *Payout) *PayoutFailedEvent {
	return &PayoutFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayoutFailed, AggregateTypePayout, p.ID),
		SellerID:        p.SellerID,
		Amount:          p.Amount,
		LastError:       p.LastError,
	}
}
