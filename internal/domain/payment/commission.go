package payment

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CommissionRule defines the platform's cut for a slice of the catalog.
// SellerID and CategoryID are both optional; a rule with both set is the
// most specific, a rule with neither is the global default.
type CommissionRule struct {
	shared.BaseAggregateRoot
	SellerID    *uuid.UUID
	CategoryID  *uuid.UUID
	RatePercent decimal.Decimal
	Priority    int
	ActiveFrom  time.Time
	ActiveTo    *time.Time
	Enabled     bool
}

// NewCommissionRule creates a commission rule. The rate is a percentage
// between 0 and 100.
func NewCommissionRule(sellerID, categoryID *uuid.UUID, ratePercent decimal.Decimal, priority int, activeFrom time.Time) (*CommissionRule, error) {
	if ratePercent.IsNegative() || ratePercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_RATE", "Commission rate must be between 0 and 100 percent")
	}
	if sellerID != nil && *sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be the nil UUID")
	}
	if categoryID != nil && *categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be the nil UUID")
	}

	return &CommissionRule{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SellerID:          sellerID,
		CategoryID:        categoryID,
		RatePercent:       ratePercent,
		Priority:          priority,
		ActiveFrom:        activeFrom,
		Enabled:           true,
	}, nil
}

// Disable takes the rule out of matching without deleting its history
func (r *CommissionRule) Disable() {
	r.Enabled = false
	r.UpdatedAt = time.Now()
}

// Expire closes the rule's active window at the given time
func (r *CommissionRule) Expire(at time.Time) error {
	if at.Before(r.ActiveFrom) {
		return shared.NewDomainError("INVALID_WINDOW", "Expiry cannot precede the active-from time")
	}
	r.ActiveTo = &at
	r.UpdatedAt = time.Now()
	return nil
}

// IsActiveAt reports whether the rule's window covers the given time
func (r *CommissionRule) IsActiveAt(at time.Time) bool {
	if !r.Enabled {
		return false
	}
	if at.Before(r.ActiveFrom) {
		return false
	}
	if r.ActiveTo != nil && !at.Before(*r.ActiveTo) {
		return false
	}
	return true
}

// Specificity ranks the rule for matching: seller+category beats
// seller-only, which beats category-only, which beats the global default.
func (r *CommissionRule) Specificity() int {
	score := 0
	if r.SellerID != nil {
		score += 2
	}
	if r.CategoryID != nil {
		score++
	}
	return score
}

// AppliesTo reports whether the rule's scope covers the seller and category
func (r *CommissionRule) AppliesTo(sellerID, categoryID uuid.UUID) bool {
	if r.SellerID != nil && *r.SellerID != sellerID {
		return false
	}
	if r.CategoryID != nil && *r.CategoryID != categoryID {
		return false
	}
	return true
}

// MatchCommissionRule scans the candidate rules and returns the one that
// applies to the seller and category at the given time, preferring higher
// specificity and breaking ties on priority. Returns nil when no rule
// matches; the caller decides what a missing rule means (zero commission).
func MatchCommissionRule(rules []*CommissionRule, sellerID, categoryID uuid.UUID, at time.Time) *CommissionRule {
	var best *CommissionRule
	for _, rule := range rules {
		if !rule.IsActiveAt(at) || !rule.AppliesTo(sellerID, categoryID) {
			continue
		}
		if best == nil {
			best = rule
			continue
		}
		if rule.Specificity() > best.Specificity() {
			best = rule
			continue
		}
		if rule.Specificity() == best.Specificity() && rule.Priority > best.Priority {
			best = rule
		}
	}
	return best
}

// CommissionAdjustment is an audit row recording a change to a commission
// record, typically a reversal after a refund.
type CommissionAdjustment struct {
	ID           uuid.UUID
	RecordID     uuid.UUID
	Delta        decimal.Decimal
	RefundedBase decimal.Decimal
	Reason       string
	CreatedAt    time.Time
}

// CommissionRecord is the aggregate root capturing the platform's cut of
// one escrow entry. Amount stays equal to rate times the unrefunded base;
// refunds append adjustment rows rather than rewriting history silently.
type CommissionRecord struct {
	shared.BaseAggregateRoot
	OrderID       uuid.UUID
	SellerID      uuid.UUID
	EscrowEntryID uuid.UUID
	RuleID        *uuid.UUID
	BaseAmount    decimal.Decimal
	RefundedBase  decimal.Decimal
	RatePercent   decimal.Decimal
	Amount        decimal.Decimal
	Adjustments   []CommissionAdjustment
}

// NewCommissionRecord computes the commission on an escrow entry's gross
// amount at the matched rule's rate. A nil rule means zero commission.
func NewCommissionRecord(orderID, sellerID, escrowEntryID uuid.UUID, base decimal.Decimal, rule *CommissionRule) (*CommissionRecord, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if escrowEntryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ESCROW", "Escrow entry ID cannot be empty")
	}
	if !base.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Commission base must be positive")
	}

	rate := decimal.Zero
	var ruleID *uuid.UUID
	if rule != nil {
		rate = rule.RatePercent
		id := rule.ID
		ruleID = &id
	}

	return &CommissionRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		SellerID:          sellerID,
		EscrowEntryID:     escrowEntryID,
		RuleID:            ruleID,
		BaseAmount:        base,
		RefundedBase:      decimal.Zero,
		RatePercent:       rate,
		Amount:            commissionOn(base, rate),
	}, nil
}

// AdjustForRefund recomputes the commission after part of the base was
// refunded and records the delta as an adjustment row. Returns the
// commission reversal (a non-negative amount to hand back).
func (c *CommissionRecord) AdjustForRefund(refundedBase decimal.Decimal, reason string) (decimal.Decimal, error) {
	if !refundedBase.IsPositive() {
		return decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Refunded base must be positive")
	}
	newRefunded := c.RefundedBase.Add(refundedBase)
	if newRefunded.GreaterThan(c.BaseAmount) {
		return decimal.Zero, shared.NewDomainError("REFUND_EXCEEDS_BASE",
			"Refunded base cannot exceed the original commission base")
	}

	newAmount := commissionOn(c.BaseAmount.Sub(newRefunded), c.RatePercent)
	delta := newAmount.Sub(c.Amount)

	c.Adjustments = append(c.Adjustments, CommissionAdjustment{
		ID:           uuid.New(),
		RecordID:     c.ID,
		Delta:        delta,
		RefundedBase: refundedBase,
		Reason:       strings.TrimSpace(reason),
		CreatedAt:    time.Now(),
	})
	c.RefundedBase = newRefunded
	c.Amount = newAmount
	c.UpdatedAt = time.Now()

	return delta.Neg(), nil
}

// commissionOn rounds the platform's cut to cents, half up
func commissionOn(base, ratePercent decimal.Decimal) decimal.Decimal {
	return base.Mul(ratePercent).Div(decimal.NewFromInt(100)).Round(2)
}
