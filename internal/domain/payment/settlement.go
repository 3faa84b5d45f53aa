package payment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SettlementStatus represents the status of a settlement
type SettlementStatus string

const (
	// SettlementStatusDraft indicates the statement can still be regenerated
	SettlementStatusDraft SettlementStatus = "DRAFT"
	// SettlementStatusFinalized indicates the statement is locked and payable
	SettlementStatusFinalized SettlementStatus = "FINALIZED"
	// SettlementStatusPaid indicates the covering payout completed
	SettlementStatusPaid SettlementStatus = "PAID"
)

// IsValid checks if the status is a valid SettlementStatus
func (s SettlementStatus) IsValid() bool {
	switch s {
	case SettlementStatusDraft, SettlementStatusFinalized, SettlementStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of SettlementStatus
func (s SettlementStatus) String() string {
	return string(s)
}

// SettlementLine ties one escrow entry into a settlement statement
type SettlementLine struct {
	ID            uuid.UUID
	SettlementID  uuid.UUID
	EscrowEntryID uuid.UUID
	OrderID       uuid.UUID
	Gross         decimal.Decimal
	Refunded      decimal.Decimal
	Commission    decimal.Decimal
	Net           decimal.Decimal
}

// SettlementLineInput carries aggregated escrow figures into a settlement
type SettlementLineInput struct {
	EscrowEntryID uuid.UUID
	OrderID       uuid.UUID
	Gross         decimal.Decimal
	Refunded      decimal.Decimal
	Commission    decimal.Decimal
}

// Settlement is the aggregate root for a seller's monthly statement. It
// aggregates the period's released escrow into gross sales, refunds,
// commission and a net payable figure. While DRAFT it can be regenerated;
// regeneration produces a successor with a bumped statement version and
// marks this one superseded. Only one non-superseded settlement exists
// per seller and period.
type Settlement struct {
	shared.BaseAggregateRoot
	SellerID        uuid.UUID
	PeriodYear      int
	PeriodMonth     time.Month
	GrossSales      decimal.Decimal
	RefundTotal     decimal.Decimal
	CommissionTotal decimal.Decimal
	NetPayable      decimal.Decimal
	StatementNo     int
	Status          SettlementStatus
	Superseded      bool
	Lines           []SettlementLine
	FinalizedAt     *time.Time
	PaidAt          *time.Time
	PayoutID        *uuid.UUID
}

// NewSettlement builds a DRAFT statement from the period's escrow figures
func NewSettlement(sellerID uuid.UUID, year int, month time.Month, lines []SettlementLineInput) (*Settlement, error) {
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if year < 2000 || year > 2200 {
		return nil, shared.NewDomainError("INVALID_PERIOD", fmt.Sprintf("Invalid settlement year: %d", year))
	}
	if month < time.January || month > time.December {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Invalid settlement month")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_SETTLEMENT", "Settlement must cover at least one escrow entry")
	}

	s := &Settlement{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SellerID:          sellerID,
		PeriodYear:        year,
		PeriodMonth:       month,
		GrossSales:        decimal.Zero,
		RefundTotal:       decimal.Zero,
		CommissionTotal:   decimal.Zero,
		StatementNo:       1,
		Status:            SettlementStatusDraft,
		Lines:             make([]SettlementLine, 0, len(lines)),
	}

	for _, in := range lines {
		if in.EscrowEntryID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_ESCROW", "Escrow entry ID cannot be empty")
		}
		net := in.Gross.Sub(in.Refunded).Sub(in.Commission)
		s.Lines = append(s.Lines, SettlementLine{
			ID:            uuid.New(),
			SettlementID:  s.ID,
			EscrowEntryID: in.EscrowEntryID,
			OrderID:       in.OrderID,
			Gross:         in.Gross,
			Refunded:      in.Refunded,
			Commission:    in.Commission,
			Net:           net,
		})
		s.GrossSales = s.GrossSales.Add(in.Gross)
		s.RefundTotal = s.RefundTotal.Add(in.Refunded)
		s.CommissionTotal = s.CommissionTotal.Add(in.Commission)
	}
	s.NetPayable = s.GrossSales.Sub(s.RefundTotal).Sub(s.CommissionTotal)

	return s, nil
}

// Regenerate supersedes this DRAFT and returns a successor built from
// fresh escrow figures with the statement number bumped.
func (s *Settlement) Regenerate(lines []SettlementLineInput) (*Settlement, error) {
	if s.Status != SettlementStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATUS",
			"Only draft settlements can be regenerated, current status: "+s.Status.String())
	}
	if s.Superseded {
		return nil, shared.NewDomainError("SETTLEMENT_SUPERSEDED", "Settlement was already superseded")
	}

	next, err := NewSettlement(s.SellerID, s.PeriodYear, s.PeriodMonth, lines)
	if err != nil {
		return nil, err
	}
	next.StatementNo = s.StatementNo + 1

	s.Superseded = true
	s.UpdatedAt = time.Now()
	return next, nil
}

// Finalize locks the statement so it can be covered by a payout
func (s *Settlement) Finalize() error {
	if s.Status != SettlementStatusDraft {
		return shared.NewDomainError("INVALID_STATUS",
			"Only draft settlements can be finalized, current status: "+s.Status.String())
	}
	if s.Superseded {
		return shared.NewDomainError("SETTLEMENT_SUPERSEDED", "Superseded settlements cannot be finalized")
	}

	now := time.Now()
	s.Status = SettlementStatusFinalized
	s.FinalizedAt = &now
	s.UpdatedAt = now
	s.AddDomainEvent(NewSettlementFinalizedEvent(s))
	return nil
}

// MarkPaid records that the covering payout completed
func (s *Settlement) MarkPaid(payoutID uuid.UUID) error {
	if s.Status != SettlementStatusFinalized {
		return shared.NewDomainError("INVALID_STATUS",
			"Only finalized settlements can be paid, current status: "+s.Status.String())
	}
	if payoutID == uuid.Nil {
		return shared.NewDomainError("INVALID_PAYOUT", "Payout ID cannot be empty")
	}

	now := time.Now()
	s.Status = SettlementStatusPaid
	s.PayoutID = &payoutID
	s.PaidAt = &now
	s.UpdatedAt = now
	return nil
}

// Period returns the statement period formatted as YYYY-MM
func (s *Settlement) Period() string {
	return fmt.Sprintf("%04d-%02d", s.PeriodYear, int(s.PeriodMonth))
}
