package payment

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SellerShareInput describes one seller's slice of a captured order for
// the escrow split: the seller's merchandise subtotal plus the dominant
// category used for commission matching.
type SellerShareInput struct {
	SellerID   uuid.UUID
	Subtotal   decimal.Decimal
	CategoryID uuid.UUID
}

// EscrowSplit pairs an escrow entry with its commission record
type EscrowSplit struct {
	Entry      *EscrowEntry
	Commission *CommissionRecord
}

// CaptureService splits a captured payment into per-seller escrow entries
// and computes the platform commission on each. A pure domain service; it
// touches no storage, the caller loads the candidate rules and persists
// the result.
type CaptureService struct{}

// NewCaptureService creates a capture service
func NewCaptureService() *CaptureService {
	return &CaptureService{}
}

// Split divides the payment amount across sellers. Each seller's gross is
// their merchandise subtotal plus a proportional share of the shipping
// fee; rounding residue lands on the largest share so the entry grosses
// sum exactly to the payment amount. Commission is computed per seller at
// the most specific matching rule.
func (s *CaptureService) Split(p *Payment, shares []SellerShareInput, shippingFee decimal.Decimal, rules []*CommissionRule) ([]EscrowSplit, error) {
	if p == nil {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment is required")
	}
	if !p.IsCaptured() {
		return nil, shared.NewDomainError("PAYMENT_NOT_CAPTURED", "Only captured payments can be split into escrow")
	}
	if len(shares) == 0 {
		return nil, shared.NewDomainError("NO_SHARES", "At least one seller share is required")
	}
	if shippingFee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_SHIPPING_FEE", "Shipping fee cannot be negative")
	}

	merchandise := decimal.Zero
	for _, share := range shares {
		if share.SellerID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
		}
		if !share.Subtotal.IsPositive() {
			return nil, shared.NewDomainError("INVALID_SUBTOTAL", "Seller subtotal must be positive")
		}
		merchandise = merchandise.Add(share.Subtotal)
	}
	if !merchandise.Add(shippingFee).Equal(p.Amount) {
		return nil, shared.NewDomainError("AMOUNT_MISMATCH",
			"Seller subtotals plus shipping must equal the payment amount")
	}

	grosses := allocateProportionally(shares, merchandise, shippingFee)

	capturedAt := time.Now()
	if p.CapturedAt != nil {
		capturedAt = *p.CapturedAt
	}

	splits := make([]EscrowSplit, 0, len(shares))
	for i, share := range shares {
		rule := MatchCommissionRule(rules, share.SellerID, share.CategoryID, capturedAt)
		commission := decimal.Zero
		if rule != nil {
			commission = commissionOn(grosses[i], rule.RatePercent)
		}

		entry, err := NewEscrowEntry(p.ID, p.OrderID, share.SellerID, grosses[i], commission)
		if err != nil {
			return nil, err
		}
		record, err := NewCommissionRecord(p.OrderID, share.SellerID, entry.ID, grosses[i], rule)
		if err != nil {
			return nil, err
		}
		splits = append(splits, EscrowSplit{Entry: entry, Commission: record})
	}

	return splits, nil
}

// allocateProportionally gives each seller their subtotal plus a shipping
// share proportional to it, rounded to cents, with the residue assigned
// to the largest subtotal.
func allocateProportionally(shares []SellerShareInput, merchandise, shippingFee decimal.Decimal) []decimal.Decimal {
	grosses := make([]decimal.Decimal, len(shares))
	allocated := decimal.Zero
	for i, share := range shares {
		portion := shippingFee.Mul(share.Subtotal).Div(merchandise).Round(2)
		grosses[i] = share.Subtotal.Add(portion)
		allocated = allocated.Add(portion)
	}

	residue := shippingFee.Sub(allocated)
	if !residue.IsZero() {
		largest := 0
		for i := range shares {
			if shares[i].Subtotal.GreaterThan(shares[largest].Subtotal) {
				largest = i
			}
		}
		grosses[largest] = grosses[largest].Add(residue)
	}
	return grosses
}

// SortRulesByPriority orders rules highest priority first, useful for
// admin listings. Matching itself does not depend on input order.
func SortRulesByPriority(rules []*CommissionRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
}
