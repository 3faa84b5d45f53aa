package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercato/backend/internal/domain/payment"
)

// PaymentModel is the persistence model for the Payment aggregate root.
type PaymentModel struct {
	AggregateModel
	OrderID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	BuyerID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	Amount         decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Currency       string                `gorm:"type:varchar(3);not null"`
	Method         payment.PaymentMethod `gorm:"type:varchar(20);not null"`
	GatewayRef     string                `gorm:"type:varchar(100);index"`
	Status         payment.PaymentStatus `gorm:"type:varchar(30);not null;index"`
	FailReason     string                `gorm:"type:varchar(500)"`
	RefundedAmount decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	CapturedAt     *time.Time
	FailedAt       *time.Time
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *payment.Payment {
	return &payment.Payment{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrderID:           m.OrderID,
		BuyerID:           m.BuyerID,
		Amount:            m.Amount,
		Currency:          m.Currency,
		Method:            m.Method,
		GatewayRef:        m.GatewayRef,
		Status:            m.Status,
		FailReason:        m.FailReason,
		RefundedAmount:    m.RefundedAmount,
		CapturedAt:        m.CapturedAt,
		FailedAt:          m.FailedAt,
	}
}

// FromDomain populates the persistence model from a domain Payment entity.
func (m *PaymentModel) FromDomain(p *payment.Payment) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.OrderID = p.OrderID
	m.BuyerID = p.BuyerID
	m.Amount = p.Amount
	m.Currency = p.Currency
	m.Method = p.Method
	m.GatewayRef = p.GatewayRef
	m.Status = p.Status
	m.FailReason = p.FailReason
	m.RefundedAmount = p.RefundedAmount
	m.CapturedAt = p.CapturedAt
	m.FailedAt = p.FailedAt
}

// EscrowEntryModel is the persistence model for the EscrowEntry aggregate
// root.
type EscrowEntryModel struct {
	AggregateModel
	PaymentID        uuid.UUID            `gorm:"type:uuid;not null;index"`
	OrderID          uuid.UUID            `gorm:"type:uuid;not null;index"`
	SellerID         uuid.UUID            `gorm:"type:uuid;not null;index"`
	GrossAmount      decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	CommissionAmount decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	NetAmount        decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	RefundedAmount   decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Status           payment.EscrowStatus `gorm:"type:varchar(20);not null;index"`
	ReleasedAt       *time.Time
	RefundedAt       *time.Time
	SettledIn        *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (EscrowEntryModel) TableName() string {
	return "escrow_entries"
}

// ToDomain converts the persistence model to a domain EscrowEntry entity.
func (m *EscrowEntryModel) ToDomain() *payment.EscrowEntry {
	return &payment.EscrowEntry{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		PaymentID:         m.PaymentID,
		OrderID:           m.OrderID,
		SellerID:          m.SellerID,
		GrossAmount:       m.GrossAmount,
		CommissionAmount:  m.CommissionAmount,
		NetAmount:         m.NetAmount,
		RefundedAmount:    m.RefundedAmount,
		Status:            m.Status,
		ReleasedAt:        m.ReleasedAt,
		RefundedAt:        m.RefundedAt,
		SettledIn:         m.SettledIn,
	}
}

// FromDomain populates the persistence model from a domain EscrowEntry.
func (m *EscrowEntryModel) FromDomain(e *payment.EscrowEntry) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.PaymentID = e.PaymentID
	m.OrderID = e.OrderID
	m.SellerID = e.SellerID
	m.GrossAmount = e.GrossAmount
	m.CommissionAmount = e.CommissionAmount
	m.NetAmount = e.NetAmount
	m.RefundedAmount = e.RefundedAmount
	m.Status = e.Status
	m.ReleasedAt = e.ReleasedAt
	m.RefundedAt = e.RefundedAt
	m.SettledIn = e.SettledIn
}

// CommissionRuleModel is the persistence model for the CommissionRule
// aggregate root.
type CommissionRuleModel struct {
	AggregateModel
	SellerID    *uuid.UUID      `gorm:"type:uuid;index"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	RatePercent decimal.Decimal `gorm:"type:decimal(7,4);not null"`
	Priority    int             `gorm:"not null;default:0"`
	ActiveFrom  time.Time       `gorm:"not null;index"`
	ActiveTo    *time.Time      `gorm:"index"`
	Enabled     bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (CommissionRuleModel) TableName() string {
	return "commission_rules"
}

// ToDomain converts the persistence model to a domain CommissionRule.
func (m *CommissionRuleModel) ToDomain() *payment.CommissionRule {
	return &payment.CommissionRule{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SellerID:          m.SellerID,
		CategoryID:        m.CategoryID,
		RatePercent:       m.RatePercent,
		Priority:          m.Priority,
		ActiveFrom:        m.ActiveFrom,
		ActiveTo:          m.ActiveTo,
		Enabled:           m.Enabled,
	}
}

// FromDomain populates the persistence model from a domain CommissionRule.
func (m *CommissionRuleModel) FromDomain(r *payment.CommissionRule) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.SellerID = r.SellerID
	m.CategoryID = r.CategoryID
	m.RatePercent = r.RatePercent
	m.Priority = r.Priority
	m.ActiveFrom = r.ActiveFrom
	m.ActiveTo = r.ActiveTo
	m.Enabled = r.Enabled
}

// CommissionRecordModel is the persistence model for the CommissionRecord
// aggregate root.
type CommissionRecordModel struct {
	AggregateModel
	OrderID       uuid.UUID                   `gorm:"type:uuid;not null;index"`
	SellerID      uuid.UUID                   `gorm:"type:uuid;not null;index"`
	EscrowEntryID uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex"`
	RuleID        *uuid.UUID                  `gorm:"type:uuid;index"`
	BaseAmount    decimal.Decimal             `gorm:"type:decimal(18,4);not null"`
	RefundedBase  decimal.Decimal             `gorm:"type:decimal(18,4);not null;default:0"`
	RatePercent   decimal.Decimal             `gorm:"type:decimal(7,4);not null"`
	Amount        decimal.Decimal             `gorm:"type:decimal(18,4);not null"`
	Adjustments   []CommissionAdjustmentModel `gorm:"foreignKey:RecordID;references:ID"`
}

// TableName returns the table name for GORM
func (CommissionRecordModel) TableName() string {
	return "commission_records"
}

// CommissionAdjustmentModel is the persistence model for a refund-driven
// commission adjustment.
type CommissionAdjustmentModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	RecordID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Delta        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RefundedBase decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason       string          `gorm:"type:varchar(500)"`
	CreatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CommissionAdjustmentModel) TableName() string {
	return "commission_adjustments"
}

// ToDomain converts the persistence model to a domain CommissionRecord.
func (m *CommissionRecordModel) ToDomain() *payment.CommissionRecord {
	adjustments := make([]payment.CommissionAdjustment, 0, len(m.Adjustments))
	for i := range m.Adjustments {
		a := m.Adjustments[i]
		adjustments = append(adjustments, payment.CommissionAdjustment{
			ID:           a.ID,
			RecordID:     a.RecordID,
			Delta:        a.Delta,
			RefundedBase: a.RefundedBase,
			Reason:       a.Reason,
			CreatedAt:    a.CreatedAt,
		})
	}
	return &payment.CommissionRecord{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrderID:           m.OrderID,
		SellerID:          m.SellerID,
		EscrowEntryID:     m.EscrowEntryID,
		RuleID:            m.RuleID,
		BaseAmount:        m.BaseAmount,
		RefundedBase:      m.RefundedBase,
		RatePercent:       m.RatePercent,
		Amount:            m.Amount,
		Adjustments:       adjustments,
	}
}

// FromDomain populates the persistence model from a domain CommissionRecord.
func (m *CommissionRecordModel) FromDomain(r *payment.CommissionRecord) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.OrderID = r.OrderID
	m.SellerID = r.SellerID
	m.EscrowEntryID = r.EscrowEntryID
	m.RuleID = r.RuleID
	m.BaseAmount = r.BaseAmount
	m.RefundedBase = r.RefundedBase
	m.RatePercent = r.RatePercent
	m.Amount = r.Amount
	m.Adjustments = make([]CommissionAdjustmentModel, 0, len(r.Adjustments))
	for i := range r.Adjustments {
		a := r.Adjustments[i]
		m.Adjustments = append(m.Adjustments, CommissionAdjustmentModel{
			ID:           a.ID,
			RecordID:     a.RecordID,
			Delta:        a.Delta,
			RefundedBase: a.RefundedBase,
			Reason:       a.Reason,
			CreatedAt:    a.CreatedAt,
		})
	}
}

// RefundModel is the persistence model for the Refund aggregate root.
type RefundModel struct {
	AggregateModel
	PaymentID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	OrderID         uuid.UUID            `gorm:"type:uuid;not null;index"`
	SellerID        uuid.UUID            `gorm:"type:uuid;not null;index"`
	OrderItemID     *uuid.UUID           `gorm:"type:uuid"`
	ReturnRequestID *uuid.UUID           `gorm:"type:uuid;index"`
	Amount          decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Reason          string               `gorm:"type:varchar(500)"`
	Status          payment.RefundStatus `gorm:"type:varchar(20);not null;index"`
	GatewayRef      string               `gorm:"type:varchar(100)"`
	FailReason      string               `gorm:"type:varchar(500)"`
	CompletedAt     *time.Time
}

// TableName returns the table name for GORM
func (RefundModel) TableName() string {
	return "refunds"
}

// ToDomain converts the persistence model to a domain Refund entity.
func (m *RefundModel) ToDomain() *payment.Refund {
	return &payment.Refund{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		PaymentID:         m.PaymentID,
		OrderID:           m.OrderID,
		SellerID:          m.SellerID,
		OrderItemID:       m.OrderItemID,
		ReturnRequestID:   m.ReturnRequestID,
		Amount:            m.Amount,
		Reason:            m.Reason,
		Status:            m.Status,
		GatewayRef:        m.GatewayRef,
		FailReason:        m.FailReason,
		CompletedAt:       m.CompletedAt,
	}
}

// FromDomain populates the persistence model from a domain Refund entity.
func (m *RefundModel) FromDomain(r *payment.Refund) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.PaymentID = r.PaymentID
	m.OrderID = r.OrderID
	m.SellerID = r.SellerID
	m.OrderItemID = r.OrderItemID
	m.ReturnRequestID = r.ReturnRequestID
	m.Amount = r.Amount
	m.Reason = r.Reason
	m.Status = r.Status
	m.GatewayRef = r.GatewayRef
	m.FailReason = r.FailReason
	m.CompletedAt = r.CompletedAt
}

// SettlementModel is the persistence model for the Settlement aggregate
// root.
type SettlementModel struct {
	AggregateModel
	SellerID        uuid.UUID                `gorm:"type:uuid;not null;index:idx_settlements_seller_period"`
	PeriodYear      int                      `gorm:"not null;index:idx_settlements_seller_period"`
	PeriodMonth     int                      `gorm:"not null;index:idx_settlements_seller_period"`
	GrossSales      decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	RefundTotal     decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	CommissionTotal decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	NetPayable      decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	StatementNo     int                      `gorm:"not null;default:1"`
	Status          payment.SettlementStatus `gorm:"type:varchar(20);not null;index"`
	Superseded      bool                     `gorm:"not null;default:false;index"`
	Lines           []SettlementLineModel    `gorm:"foreignKey:SettlementID;references:ID"`
	FinalizedAt     *time.Time
	PaidAt          *time.Time
	PayoutID        *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (SettlementModel) TableName() string {
	return "settlements"
}

// SettlementLineModel is the persistence model for a settlement line.
type SettlementLineModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	SettlementID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	EscrowEntryID uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null"`
	Gross         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Refunded      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Commission    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Net           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SettlementLineModel) TableName() string {
	return "settlement_lines"
}

// ToDomain converts the persistence model to a domain Settlement entity.
func (m *SettlementModel) ToDomain() *payment.Settlement {
	lines := make([]payment.SettlementLine, 0, len(m.Lines))
	for i := range m.Lines {
		l := m.Lines[i]
		lines = append(lines, payment.SettlementLine{
			ID:            l.ID,
			SettlementID:  l.SettlementID,
			EscrowEntryID: l.EscrowEntryID,
			OrderID:       l.OrderID,
			Gross:         l.Gross,
			Refunded:      l.Refunded,
			Commission:    l.Commission,
			Net:           l.Net,
		})
	}
	return &payment.Settlement{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SellerID:          m.SellerID,
		PeriodYear:        m.PeriodYear,
		PeriodMonth:       time.Month(m.PeriodMonth),
		GrossSales:        m.GrossSales,
		RefundTotal:       m.RefundTotal,
		CommissionTotal:   m.CommissionTotal,
		NetPayable:        m.NetPayable,
		StatementNo:       m.StatementNo,
		Status:            m.Status,
		Superseded:        m.Superseded,
		Lines:             lines,
		FinalizedAt:       m.FinalizedAt,
		PaidAt:            m.PaidAt,
		PayoutID:          m.PayoutID,
	}
}

// FromDomain populates the persistence model from a domain Settlement.
func (m *SettlementModel) FromDomain(s *payment.Settlement) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.SellerID = s.SellerID
	m.PeriodYear = s.PeriodYear
	m.PeriodMonth = int(s.PeriodMonth)
	m.GrossSales = s.GrossSales
	m.RefundTotal = s.RefundTotal
	m.CommissionTotal = s.CommissionTotal
	m.NetPayable = s.NetPayable
	m.StatementNo = s.StatementNo
	m.Status = s.Status
	m.Superseded = s.Superseded
	m.FinalizedAt = s.FinalizedAt
	m.PaidAt = s.PaidAt
	m.PayoutID = s.PayoutID
	m.Lines = make([]SettlementLineModel, 0, len(s.Lines))
	for i := range s.Lines {
		l := s.Lines[i]
		m.Lines = append(m.Lines, SettlementLineModel{
			ID:            l.ID,
			SettlementID:  l.SettlementID,
			EscrowEntryID: l.EscrowEntryID,
			OrderID:       l.OrderID,
			Gross:         l.Gross,
			Refunded:      l.Refunded,
			Commission:    l.Commission,
			Net:           l.Net,
		})
	}
}

// PayoutModel is the persistence model for the Payout aggregate root.
type PayoutModel struct {
	AggregateModel
	SellerID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	BatchID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	Amount       decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	BankRef      string               `gorm:"type:varchar(50);not null"`
	ScheduledFor time.Time            `gorm:"not null;index"`
	Status       payment.PayoutStatus `gorm:"type:varchar(20);not null;index"`
	Lines        []PayoutLineModel    `gorm:"foreignKey:PayoutID;references:ID"`
	AttemptCount int                  `gorm:"not null;default:0"`
	LastError    string               `gorm:"type:varchar(500)"`
	NextRetryAt  *time.Time           `gorm:"index"`
	GatewayRef   string               `gorm:"type:varchar(100)"`
	PaidAt       *time.Time
}

// TableName returns the table name for GORM
func (PayoutModel) TableName() string {
	return "payouts"
}

// PayoutLineModel is the persistence model for a payout line.
type PayoutLineModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	PayoutID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	EscrowEntryID uuid.UUID       `gorm:"type:uuid;not null;index"`
	NetAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PayoutLineModel) TableName() string {
	return "payout_lines"
}

// ToDomain converts the persistence model to a domain Payout entity.
func (m *PayoutModel) ToDomain() *payment.Payout {
	lines := make([]payment.PayoutLine, 0, len(m.Lines))
	for i := range m.Lines {
		l := m.Lines[i]
		lines = append(lines, payment.PayoutLine{
			ID:            l.ID,
			PayoutID:      l.PayoutID,
			EscrowEntryID: l.EscrowEntryID,
			NetAmount:     l.NetAmount,
		})
	}
	return &payment.Payout{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SellerID:          m.SellerID,
		BatchID:           m.BatchID,
		Amount:            m.Amount,
		BankRef:           m.BankRef,
		ScheduledFor:      m.ScheduledFor,
		Status:            m.Status,
		Lines:             lines,
		AttemptCount:      m.AttemptCount,
		LastError:         m.LastError,
		NextRetryAt:       m.NextRetryAt,
		GatewayRef:        m.GatewayRef,
		PaidAt:            m.PaidAt,
	}
}

// FromDomain populates the persistence model from a domain Payout entity.
func (m *PayoutModel) FromDomain(p *payment.Payout) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.SellerID = p.SellerID
	m.BatchID = p.BatchID
	m.Amount = p.Amount
	m.BankRef = p.BankRef
	m.ScheduledFor = p.ScheduledFor
	m.Status = p.Status
	m.AttemptCount = p.AttemptCount
	m.LastError = p.LastError
	m.NextRetryAt = p.NextRetryAt
	m.GatewayRef = p.GatewayRef
	m.PaidAt = p.PaidAt
	m.Lines = make([]PayoutLineModel, 0, len(p.Lines))
	for i := range p.Lines {
		l := p.Lines[i]
		m.Lines = append(m.Lines, PayoutLineModel{
			ID:            l.ID,
			PayoutID:      l.PayoutID,
			EscrowEntryID: l.EscrowEntryID,
			NetAmount:     l.NetAmount,
		})
	}
}
