package payment

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/mercato/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	// PaymentStatusInitiated indicates the payment was created and handed to the gateway
	PaymentStatusInitiated PaymentStatus = "INITIATED"
	// PaymentStatusSucceeded indicates the gateway confirmed capture
	PaymentStatusSucceeded PaymentStatus = "SUCCEEDED"
	// PaymentStatusFailed indicates the gateway declined or the attempt expired
	PaymentStatusFailed PaymentStatus = "FAILED"
	// PaymentStatusRefunded indicates the full amount was refunded
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
	// PaymentStatusPartiallyRefunded indicates part of the amount was refunded
	PaymentStatusPartiallyRefunded PaymentStatus = "PARTIALLY_REFUNDED"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusInitiated, PaymentStatusSucceeded, PaymentStatusFailed,
		PaymentStatusRefunded, PaymentStatusPartiallyRefunded:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// PaymentMethod identifies how the buyer paid
type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodWallet       PaymentMethod = "WALLET"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodWallet:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// Payment is the aggregate root for a buyer's payment attempt against an
// order. The captured amount is split into per-seller escrow entries; the
// payment itself only tracks the gateway-facing lifecycle and how much of
// it has been handed back through refunds.
type Payment struct {
	shared.BaseAggregateRoot
	OrderID        uuid.UUID
	BuyerID        uuid.UUID
	Amount         decimal.Decimal
	Currency       string
	Method         PaymentMethod
	GatewayRef     string
	Status         PaymentStatus
	FailReason     string
	RefundedAmount decimal.Decimal
	CapturedAt     *time.Time
	FailedAt       *time.Time
}

// NewPayment creates a payment in INITIATED status for an order's grand total
func NewPayment(orderID, buyerID uuid.UUID, amount valueobject.Money, method PaymentMethod) (*Payment, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Invalid payment method: "+method.String())
	}

	p := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		BuyerID:           buyerID,
		Amount:            amount.Amount(),
		Currency:          string(amount.Currency()),
		Method:            method,
		Status:            PaymentStatusInitiated,
		RefundedAmount:    decimal.Zero,
	}
	p.AddDomainEvent(NewPaymentInitiatedEvent(p))
	return p, nil
}

// MarkSucceeded records a successful capture reported by the gateway
func (p *Payment) MarkSucceeded(gatewayRef string) error {
	if p.Status != PaymentStatusInitiated {
		return shared.NewDomainError("INVALID_STATUS",
			"Only initiated payments can succeed, current status: "+p.Status.String())
	}
	gatewayRef = strings.TrimSpace(gatewayRef)
	if gatewayRef == "" {
		return shared.NewDomainError("INVALID_GATEWAY_REF", "Gateway reference cannot be empty")
	}

	now := time.Now()
	p.Status = PaymentStatusSucceeded
	p.GatewayRef = gatewayRef
	p.CapturedAt = &now
	p.UpdatedAt = now
	p.AddDomainEvent(NewPaymentCapturedEvent(p))
	return nil
}

// MarkFailed records a gateway decline or expiry
func (p *Payment) MarkFailed(reason string) error {
	if p.Status != PaymentStatusInitiated {
		return shared.NewDomainError("INVALID_STATUS",
			"Only initiated payments can fail, current status: "+p.Status.String())
	}

	now := time.Now()
	p.Status = PaymentStatusFailed
	p.FailReason = strings.TrimSpace(reason)
	p.FailedAt = &now
	p.UpdatedAt = now
	p.AddDomainEvent(NewPaymentFailedEvent(p))
	return nil
}

// RecordRefund increases the refunded amount after a refund completes.
// The payment moves to PARTIALLY_REFUNDED, or REFUNDED once the full
// amount has been handed back.
func (p *Payment) RecordRefund(amount decimal.Decimal) error {
	if p.Status != PaymentStatusSucceeded && p.Status != PaymentStatusPartiallyRefunded {
		return shared.NewDomainError("INVALID_STATUS",
			"Only captured payments can be refunded, current status: "+p.Status.String())
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Refund amount must be positive")
	}

	newTotal := p.RefundedAmount.Add(amount)
	if newTotal.GreaterThan(p.Amount) {
		return shared.NewDomainError("REFUND_EXCEEDS_PAYMENT",
			"Refunded total cannot exceed the payment amount")
	}

	p.RefundedAmount = newTotal
	if newTotal.Equal(p.Amount) {
		p.Status = PaymentStatusRefunded
	} else {
		p.Status = PaymentStatusPartiallyRefunded
	}
	p.UpdatedAt = time.Now()
	return nil
}

// RefundableAmount returns how much of the payment can still be refunded
func (p *Payment) RefundableAmount() decimal.Decimal {
	return p.Amount.Sub(p.RefundedAmount)
}

// IsCaptured returns true once the gateway confirmed the charge
func (p *Payment) IsCaptured() bool {
	return p.Status == PaymentStatusSucceeded ||
		p.Status == PaymentStatusPartiallyRefunded ||
		p.Status == PaymentStatusRefunded
}
