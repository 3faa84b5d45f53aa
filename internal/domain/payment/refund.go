package payment

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RefundStatus represents the status of a refund
type RefundStatus string

const (
	// RefundStatusPending indicates the refund was recorded and handed to the gateway
	RefundStatusPending RefundStatus = "PENDING"
	// RefundStatusCompleted indicates the gateway confirmed the refund
	RefundStatusCompleted RefundStatus = "COMPLETED"
	// RefundStatusFailed indicates the gateway rejected the refund
	RefundStatusFailed RefundStatus = "FAILED"
)

// IsValid checks if the status is a valid RefundStatus
func (s RefundStatus) IsValid() bool {
	switch s {
	case RefundStatusPending, RefundStatusCompleted, RefundStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of RefundStatus
func (s RefundStatus) String() string {
	return string(s)
}

// Refund is the aggregate root for money handed back to a buyer, either
// for a received return or a cancelled order. It references the original
// payment and, when triggered by a return, the order item and return
// request behind it.
type Refund struct {
	shared.BaseAggregateRoot
	PaymentID       uuid.UUID
	OrderID         uuid.UUID
	SellerID        uuid.UUID
	OrderItemID     *uuid.UUID
	ReturnRequestID *uuid.UUID
	Amount          decimal.Decimal
	Reason          string
	Status          RefundStatus
	GatewayRef      string
	FailReason      string
	CompletedAt     *time.Time
}

// NewRefund creates a PENDING refund against a captured payment
func NewRefund(p *Payment, sellerID uuid.UUID, amount decimal.Decimal, reason string) (*Refund, error) {
	if p == nil {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment is required")
	}
	if !p.IsCaptured() {
		return nil, shared.NewDomainError("PAYMENT_NOT_CAPTURED", "Only captured payments can be refunded")
	}
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Refund amount must be positive")
	}
	if amount.GreaterThan(p.RefundableAmount()) {
		return nil, shared.NewDomainError("REFUND_EXCEEDS_PAYMENT",
			"Refund amount exceeds the remaining refundable balance")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Refund reason cannot be empty")
	}

	return &Refund{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PaymentID:         p.ID,
		OrderID:           p.OrderID,
		SellerID:          sellerID,
		Amount:            amount,
		Reason:            reason,
		Status:            RefundStatusPending,
	}, nil
}

// LinkReturn ties the refund to the return request that triggered it
func (r *Refund) LinkReturn(returnRequestID, orderItemID uuid.UUID) error {
	if returnRequestID == uuid.Nil || orderItemID == uuid.Nil {
		return shared.NewDomainError("INVALID_RETURN", "Return reference cannot be empty")
	}
	r.ReturnRequestID = &returnRequestID
	r.OrderItemID = &orderItemID
	return nil
}

// MarkCompleted records gateway confirmation of the refund
func (r *Refund) MarkCompleted(gatewayRef string) error {
	if r.Status != RefundStatusPending {
		return shared.NewDomainError("INVALID_STATUS",
			"Only pending refunds can complete, current status: "+r.Status.String())
	}

	now := time.Now()
	r.Status = RefundStatusCompleted
	r.GatewayRef = strings.TrimSpace(gatewayRef)
	r.CompletedAt = &now
	r.UpdatedAt = now
	r.AddDomainEvent(NewRefundCompletedEvent(r))
	return nil
}

// MarkFailed records a gateway rejection. Failed refunds stay on the
// books for an operator to retry as a fresh refund.
func (r *Refund) MarkFailed(reason string) error {
	if r.Status != RefundStatusPending {
		return shared.NewDomainError("INVALID_STATUS",
			"Only pending refunds can fail, current status: "+r.Status.String())
	}

	r.Status = RefundStatusFailed
	r.FailReason = strings.TrimSpace(reason)
	r.UpdatedAt = time.Now()
	r.AddDomainEvent(NewRefundFailedEvent(r))
	return nil
}
