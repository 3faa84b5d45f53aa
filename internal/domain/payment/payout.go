package payment

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PayoutStatus represents the status of a payout
type PayoutStatus string

const (
	// PayoutStatusScheduled indicates the payout waits for its scheduled time
	PayoutStatusScheduled PayoutStatus = "SCHEDULED"
	// PayoutStatusProcessing indicates the payout was submitted to the payout rail
	PayoutStatusProcessing PayoutStatus = "PROCESSING"
	// PayoutStatusPaid indicates the transfer completed
	PayoutStatusPaid PayoutStatus = "PAID"
	// PayoutStatusFailed indicates retries were exhausted and an operator must step in
	PayoutStatusFailed PayoutStatus = "FAILED"
)

// IsValid checks if the status is a valid PayoutStatus
func (s PayoutStatus) IsValid() bool {
	switch s {
	case PayoutStatusScheduled, PayoutStatusProcessing, PayoutStatusPaid, PayoutStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of PayoutStatus
func (s PayoutStatus) String() string {
	return string(s)
}

const (
	// MaxPayoutAttempts caps transfer retries before the payout fails hard
	MaxPayoutAttempts = 5
	// payoutRetryBase is the first retry delay; each failure doubles it
	payoutRetryBase = 15 * time.Minute
)

// PayoutLine ties one released escrow entry into a payout
type PayoutLine struct {
	ID            uuid.UUID
	PayoutID      uuid.UUID
	EscrowEntryID uuid.UUID
	NetAmount     decimal.Decimal
}

// PayoutLineInput carries a released escrow entry's net into NewPayout
type PayoutLineInput struct {
	EscrowEntryID uuid.UUID
	NetAmount     decimal.Decimal
}

// Payout is the aggregate root for one bank transfer of a seller's
// released balance. The amount is the sum of the covered escrow entries'
// net amounts; the bank reference is snapshotted from the seller profile
// at scheduling time so later profile edits never redirect money in
// flight.
type Payout struct {
	shared.BaseAggregateRoot
	SellerID     uuid.UUID
	BatchID      uuid.UUID
	Amount       decimal.Decimal
	BankRef      string
	ScheduledFor time.Time
	Status       PayoutStatus
	Lines        []PayoutLine
	AttemptCount int
	LastError    string
	NextRetryAt  *time.Time
	GatewayRef   string
	PaidAt       *time.Time
}

// NewPayout schedules a transfer covering the given released escrow entries
func NewPayout(sellerID, batchID uuid.UUID, bankRef string, scheduledFor time.Time, lines []PayoutLineInput) (*Payout, error) {
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	bankRef = strings.TrimSpace(bankRef)
	if bankRef == "" {
		return nil, shared.NewDomainError("INVALID_BANK_REF", "Bank reference cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_PAYOUT", "Payout must cover at least one escrow entry")
	}

	p := &Payout{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SellerID:          sellerID,
		BatchID:           batchID,
		Amount:            decimal.Zero,
		BankRef:           bankRef,
		ScheduledFor:      scheduledFor,
		Status:            PayoutStatusScheduled,
		Lines:             make([]PayoutLine, 0, len(lines)),
	}

	for _, in := range lines {
		if in.EscrowEntryID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_ESCROW", "Escrow entry ID cannot be empty")
		}
		if !in.NetAmount.IsPositive() {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Payout line net must be positive")
		}
		p.Lines = append(p.Lines, PayoutLine{
			ID:            uuid.New(),
			PayoutID:      p.ID,
			EscrowEntryID: in.EscrowEntryID,
			NetAmount:     in.NetAmount,
		})
		p.Amount = p.Amount.Add(in.NetAmount)
	}

	p.AddDomainEvent(NewPayoutScheduledEvent(p))
	return p, nil
}

// StartProcessing claims the payout for a transfer attempt
func (p *Payout) StartProcessing() error {
	if p.Status != PayoutStatusScheduled {
		return shared.NewDomainError("INVALID_STATUS",
			"Only scheduled payouts can be processed, current status: "+p.Status.String())
	}

	p.Status = PayoutStatusProcessing
	p.AttemptCount++
	p.UpdatedAt = time.Now()
	return nil
}

// MarkPaid records a completed transfer
func (p *Payout) MarkPaid(gatewayRef string) error {
	if p.Status != PayoutStatusProcessing {
		return shared.NewDomainError("INVALID_STATUS",
			"Only processing payouts can be paid, current status: "+p.Status.String())
	}

	now := time.Now()
	p.Status = PayoutStatusPaid
	p.GatewayRef = strings.TrimSpace(gatewayRef)
	p.PaidAt = &now
	p.NextRetryAt = nil
	p.UpdatedAt = now
	p.AddDomainEvent(NewPayoutPaidEvent(p))
	return nil
}

// RecordFailure handles a failed transfer attempt. Under the attempt cap
// the payout goes back to SCHEDULED with an exponentially backed-off
// retry time; at the cap it moves to FAILED for manual intervention.
func (p *Payout) RecordFailure(errMsg string) error {
	if p.Status != PayoutStatusProcessing {
		return shared.NewDomainError("INVALID_STATUS",
			"Only processing payouts can record failures, current status: "+p.Status.String())
	}

	now := time.Now()
	p.LastError = strings.TrimSpace(errMsg)
	p.UpdatedAt = now

	if p.AttemptCount >= MaxPayoutAttempts {
		p.Status = PayoutStatusFailed
		p.NextRetryAt = nil
		p.AddDomainEvent(NewPayoutFailedEvent(p))
		return nil
	}

	retryAt := now.Add(p.retryDelay())
	p.Status = PayoutStatusScheduled
	p.NextRetryAt = &retryAt
	return nil
}

// IsDue reports whether the payout should be picked up at the given time
func (p *Payout) IsDue(at time.Time) bool {
	if p.Status != PayoutStatusScheduled {
		return false
	}
	if p.NextRetryAt != nil {
		return !at.Before(*p.NextRetryAt)
	}
	return !at.Before(p.ScheduledFor)
}

// retryDelay doubles per attempt: 15m, 30m, 1h, 2h
func (p *Payout) retryDelay() time.Duration {
	delay := payoutRetryBase
	for i := 1; i < p.AttemptCount; i++ {
		delay *= 2
	}
	return delay
}
