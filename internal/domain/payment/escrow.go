package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EscrowStatus represents the status of an escrow entry
type EscrowStatus string

const (
	// EscrowStatusHeld indicates funds are held pending order completion
	EscrowStatusHeld EscrowStatus = "HELD"
	// EscrowStatusReleased indicates the net amount became payable to the seller
	EscrowStatusReleased EscrowStatus = "RELEASED"
	// EscrowStatusRefunded indicates the full gross amount was returned to the buyer
	EscrowStatusRefunded EscrowStatus = "REFUNDED"
	// EscrowStatusPartiallyRefunded indicates part of the gross amount was returned
	EscrowStatusPartiallyRefunded EscrowStatus = "PARTIALLY_REFUNDED"
)

// IsValid checks if the status is a valid EscrowStatus
func (s EscrowStatus) IsValid() bool {
	switch s {
	case EscrowStatusHeld, EscrowStatusReleased,
		EscrowStatusRefunded, EscrowStatusPartiallyRefunded:
		return true
	}
	return false
}

// String returns the string representation of EscrowStatus
func (s EscrowStatus) String() string {
	return string(s)
}

// EscrowEntry is the aggregate root holding one seller's share of a
// captured payment. Gross is the seller's portion of the order amount,
// commission is the platform's cut, and net is what the seller is owed
// once the entry releases. Gross always equals commission plus net.
type EscrowEntry struct {
	shared.BaseAggregateRoot
	PaymentID        uuid.UUID
	OrderID          uuid.UUID
	SellerID         uuid.UUID
	GrossAmount      decimal.Decimal
	CommissionAmount decimal.Decimal
	NetAmount        decimal.Decimal
	RefundedAmount   decimal.Decimal
	Status           EscrowStatus
	ReleasedAt       *time.Time
	RefundedAt       *time.Time
	// SettledIn points at the finalized settlement that covered this
	// entry, nil while the entry is still unsettled.
	SettledIn *uuid.UUID
}

// NewEscrowEntry creates a HELD entry for one seller's share of a payment
func NewEscrowEntry(paymentID, orderID, sellerID uuid.UUID, gross, commission decimal.Decimal) (*EscrowEntry, error) {
	if paymentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment ID cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if !gross.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Gross amount must be positive")
	}
	if commission.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COMMISSION", "Commission cannot be negative")
	}
	if commission.GreaterThan(gross) {
		return nil, shared.NewDomainError("INVALID_COMMISSION", "Commission cannot exceed the gross amount")
	}

	return &EscrowEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PaymentID:         paymentID,
		OrderID:           orderID,
		SellerID:          sellerID,
		GrossAmount:       gross,
		CommissionAmount:  commission,
		NetAmount:         gross.Sub(commission),
		RefundedAmount:    decimal.Zero,
		Status:            EscrowStatusHeld,
	}, nil
}

// Release moves a HELD or PARTIALLY_REFUNDED entry to RELEASED, making
// the remaining net amount payable. A partial refund before completion
// only shrinks the seller's share, it does not forfeit the remainder.
func (e *EscrowEntry) Release() error {
	if e.Status != EscrowStatusHeld && e.Status != EscrowStatusPartiallyRefunded {
		return shared.NewDomainError("INVALID_STATUS",
			"Only held or partially refunded escrow can be released, current status: "+e.Status.String())
	}

	now := time.Now()
	e.Status = EscrowStatusReleased
	e.ReleasedAt = &now
	e.UpdatedAt = now
	e.AddDomainEvent(NewEscrowReleasedEvent(e))
	return nil
}

// ApplyRefund returns part or all of the gross amount to the buyer and
// reduces the commission accordingly. Refunding the remaining balance
// moves the entry to REFUNDED, anything less to PARTIALLY_REFUNDED.
// RELEASED entries can still be refunded; the reduction is then settled
// against the seller's next settlement period.
func (e *EscrowEntry) ApplyRefund(grossPortion, commissionReversal decimal.Decimal) error {
	if e.Status == EscrowStatusRefunded {
		return shared.NewDomainError("INVALID_STATUS", "Escrow entry is already fully refunded")
	}
	if !grossPortion.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Refund portion must be positive")
	}
	if commissionReversal.IsNegative() || commissionReversal.GreaterThan(grossPortion) {
		return shared.NewDomainError("INVALID_COMMISSION", "Commission reversal must be between zero and the refund portion")
	}

	newRefunded := e.RefundedAmount.Add(grossPortion)
	if newRefunded.GreaterThan(e.GrossAmount) {
		return shared.NewDomainError("REFUND_EXCEEDS_ESCROW",
			"Refunded total cannot exceed the held gross amount")
	}

	now := time.Now()
	e.RefundedAmount = newRefunded
	e.CommissionAmount = e.CommissionAmount.Sub(commissionReversal)
	e.NetAmount = e.GrossAmount.Sub(e.RefundedAmount).Sub(e.CommissionAmount)
	if newRefunded.Equal(e.GrossAmount) {
		e.Status = EscrowStatusRefunded
		e.RefundedAt = &now
	} else if e.Status == EscrowStatusHeld {
		e.Status = EscrowStatusPartiallyRefunded
	}
	e.UpdatedAt = now
	e.AddDomainEvent(NewEscrowRefundedEvent(e, grossPortion))
	return nil
}

// MarkSettled links the entry to the finalized settlement that covered it
func (e *EscrowEntry) MarkSettled(settlementID uuid.UUID) error {
	if e.Status == EscrowStatusHeld {
		return shared.NewDomainError("INVALID_STATUS", "Held escrow cannot be settled")
	}
	if settlementID == uuid.Nil {
		return shared.NewDomainError("INVALID_SETTLEMENT", "Settlement ID cannot be empty")
	}
	e.SettledIn = &settlementID
	e.UpdatedAt = time.Now()
	return nil
}

// RemainingGross returns the gross amount not yet refunded
func (e *EscrowEntry) RemainingGross() decimal.Decimal {
	return e.GrossAmount.Sub(e.RefundedAmount)
}

// IsPayable returns true when the net amount can enter a payout
func (e *EscrowEntry) IsPayable() bool {
	return e.Status == EscrowStatusReleased && e.NetAmount.IsPositive()
}
