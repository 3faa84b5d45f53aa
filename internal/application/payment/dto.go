package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercato/backend/internal/domain/payment"
)

// StartChargeInput asks the gateway to open a charge for a payment
type StartChargeInput struct {
	PaymentID uuid.UUID `json:"payment_id" binding:"required"`
	BuyerID   uuid.UUID `json:"-"`
	ReturnURL string    `json:"return_url" binding:"omitempty,url"`
}

// StartChargeResult carries the gateway handoff back to the client
type StartChargeResult struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	GatewayRef  string    `json:"gateway_ref"`
	RedirectURL string    `json:"redirect_url,omitempty"`
	ClientToken string    `json:"client_token,omitempty"`
}

// PaymentInfo represents payment data for API responses
type PaymentInfo struct {
	ID             uuid.UUID       `json:"id"`
	OrderID        uuid.UUID       `json:"order_id"`
	BuyerID        uuid.UUID       `json:"buyer_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Method         string          `json:"method"`
	Status         string          `json:"status"`
	GatewayRef     string          `json:"gateway_ref,omitempty"`
	FailReason     string          `json:"fail_reason,omitempty"`
	RefundedAmount decimal.Decimal `json:"refunded_amount"`
	CapturedAt     *time.Time      `json:"captured_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToPaymentInfo converts a Payment aggregate to PaymentInfo
func ToPaymentInfo(p *payment.Payment) *PaymentInfo {
	return &PaymentInfo{
		ID:             p.ID,
		OrderID:        p.OrderID,
		BuyerID:        p.BuyerID,
		Amount:         p.Amount,
		Currency:       p.Currency,
		Method:         p.Method.String(),
		Status:         p.Status.String(),
		GatewayRef:     p.GatewayRef,
		FailReason:     p.FailReason,
		RefundedAmount: p.RefundedAmount,
		CapturedAt:     p.CapturedAt,
		CreatedAt:      p.CreatedAt,
	}
}

// EscrowInfo represents one seller's slice of a captured payment
type EscrowInfo struct {
	ID               uuid.UUID       `json:"id"`
	PaymentID        uuid.UUID       `json:"payment_id"`
	OrderID          uuid.UUID       `json:"order_id"`
	SellerID         uuid.UUID       `json:"seller_id"`
	GrossAmount      decimal.Decimal `json:"gross_amount"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	NetAmount        decimal.Decimal `json:"net_amount"`
	RefundedAmount   decimal.Decimal `json:"refunded_amount"`
	Status           string          `json:"status"`
	ReleasedAt       *time.Time      `json:"released_at,omitempty"`
	SettledIn        *uuid.UUID      `json:"settled_in,omitempty"`
}

// ToEscrowInfo converts an EscrowEntry aggregate to EscrowInfo
func ToEscrowInfo(e *payment.EscrowEntry) *EscrowInfo {
	return &EscrowInfo{
		ID:               e.ID,
		PaymentID:        e.PaymentID,
		OrderID:          e.OrderID,
		SellerID:         e.SellerID,
		GrossAmount:      e.GrossAmount,
		CommissionAmount: e.CommissionAmount,
		NetAmount:        e.NetAmount,
		RefundedAmount:   e.RefundedAmount,
		Status:           e.Status.String(),
		ReleasedAt:       e.ReleasedAt,
		SettledIn:        e.SettledIn,
	}
}

// CreateRuleInput represents input for creating a commission rule
type CreateRuleInput struct {
	SellerID    *uuid.UUID `json:"seller_id"`
	CategoryID  *uuid.UUID `json:"category_id"`
	RatePercent float64    `json:"rate_percent" binding:"required,gte=0,lte=100"`
	Priority    int        `json:"priority"`
	ActiveFrom  *time.Time `json:"active_from"`
}

// ExpireRuleInput closes a rule's active window
type ExpireRuleInput struct {
	RuleID uuid.UUID  `json:"-"`
	At     *time.Time `json:"at"`
}

// RuleInfo represents commission rule data for API responses
type RuleInfo struct {
	ID          uuid.UUID       `json:"id"`
	SellerID    *uuid.UUID      `json:"seller_id,omitempty"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty"`
	RatePercent decimal.Decimal `json:"rate_percent"`
	Priority    int             `json:"priority"`
	ActiveFrom  time.Time       `json:"active_from"`
	ActiveTo    *time.Time      `json:"active_to,omitempty"`
	Enabled     bool            `json:"enabled"`
}

// ToRuleInfo converts a CommissionRule aggregate to RuleInfo
func ToRuleInfo(r *payment.CommissionRule) *RuleInfo {
	return &RuleInfo{
		ID:          r.ID,
		SellerID:    r.SellerID,
		CategoryID:  r.CategoryID,
		RatePercent: r.RatePercent,
		Priority:    r.Priority,
		ActiveFrom:  r.ActiveFrom,
		ActiveTo:    r.ActiveTo,
		Enabled:     r.Enabled,
	}
}

// RefundInfo represents refund data for API responses
type RefundInfo struct {
	ID              uuid.UUID       `json:"id"`
	PaymentID       uuid.UUID       `json:"payment_id"`
	OrderID         uuid.UUID       `json:"order_id"`
	SellerID        uuid.UUID       `json:"seller_id"`
	ReturnRequestID *uuid.UUID      `json:"return_request_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Reason          string          `json:"reason"`
	Status          string          `json:"status"`
	GatewayRef      string          `json:"gateway_ref,omitempty"`
	FailReason      string          `json:"fail_reason,omitempty"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
}

// ToRefundInfo converts a Refund aggregate to RefundInfo
func ToRefundInfo(r *payment.Refund) *RefundInfo {
	return &RefundInfo{
		ID:              r.ID,
		PaymentID:       r.PaymentID,
		OrderID:         r.OrderID,
		SellerID:        r.SellerID,
		ReturnRequestID: r.ReturnRequestID,
		Amount:          r.Amount,
		Reason:          r.Reason,
		Status:          r.Status.String(),
		GatewayRef:      r.GatewayRef,
		FailReason:      r.FailReason,
		CompletedAt:     r.CompletedAt,
	}
}

// SettlementLineInfo represents one covered escrow entry in a statement
type SettlementLineInfo struct {
	EscrowEntryID uuid.UUID       `json:"escrow_entry_id"`
	OrderID       uuid.UUID       `json:"order_id"`
	Gross         decimal.Decimal `json:"gross"`
	Refunded      decimal.Decimal `json:"refunded"`
	Commission    decimal.Decimal `json:"commission"`
	Net           decimal.Decimal `json:"net"`
}

// SettlementInfo represents settlement data for API responses
type SettlementInfo struct {
	ID              uuid.UUID            `json:"id"`
	SellerID        uuid.UUID            `json:"seller_id"`
	Period          string               `json:"period"`
	StatementNo     int                  `json:"statement_no"`
	GrossSales      decimal.Decimal      `json:"gross_sales"`
	RefundTotal     decimal.Decimal      `json:"refund_total"`
	CommissionTotal decimal.Decimal      `json:"commission_total"`
	NetPayable      decimal.Decimal      `json:"net_payable"`
	Status          string               `json:"status"`
	Superseded      bool                 `json:"superseded"`
	Lines           []SettlementLineInfo `json:"lines"`
	FinalizedAt     *time.Time           `json:"finalized_at,omitempty"`
	PaidAt          *time.Time           `json:"paid_at,omitempty"`
}

// ToSettlementInfo converts a Settlement aggregate to SettlementInfo
func ToSettlementInfo(s *payment.Settlement) *SettlementInfo {
	lines := make([]SettlementLineInfo, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, SettlementLineInfo{
			EscrowEntryID: l.EscrowEntryID,
			OrderID:       l.OrderID,
			Gross:         l.Gross,
			Refunded:      l.Refunded,
			Commission:    l.Commission,
			Net:           l.Net,
		})
	}
	return &SettlementInfo{
		ID:              s.ID,
		SellerID:        s.SellerID,
		Period:          s.Period(),
		StatementNo:     s.StatementNo,
		GrossSales:      s.GrossSales,
		RefundTotal:     s.RefundTotal,
		CommissionTotal: s.CommissionTotal,
		NetPayable:      s.NetPayable,
		Status:          s.Status.String(),
		Superseded:      s.Superseded,
		Lines:           lines,
		FinalizedAt:     s.FinalizedAt,
		PaidAt:          s.PaidAt,
	}
}

// PayoutInfo represents payout data for API responses
type PayoutInfo struct {
	ID           uuid.UUID       `json:"id"`
	SellerID     uuid.UUID       `json:"seller_id"`
	BatchID      uuid.UUID       `json:"batch_id"`
	Amount       decimal.Decimal `json:"amount"`
	BankRef      string          `json:"bank_ref"`
	ScheduledFor time.Time       `json:"scheduled_for"`
	Status       string          `json:"status"`
	AttemptCount int             `json:"attempt_count"`
	LastError    string          `json:"last_error,omitempty"`
	NextRetryAt  *time.Time      `json:"next_retry_at,omitempty"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
}

// ToPayoutInfo converts a Payout aggregate to PayoutInfo
func ToPayoutInfo(p *payment.Payout) *PayoutInfo {
	return &PayoutInfo{
		ID:           p.ID,
		SellerID:     p.SellerID,
		BatchID:      p.BatchID,
		Amount:       p.Amount,
		BankRef:      p.BankRef,
		ScheduledFor: p.ScheduledFor,
		Status:       p.Status.String(),
		AttemptCount: p.AttemptCount,
		LastError:    p.LastError,
		NextRetryAt:  p.NextRetryAt,
		PaidAt:       p.PaidAt,
	}
}

// BatchResult summarizes one payout scheduling run
type BatchResult struct {
	BatchID   uuid.UUID       `json:"batch_id"`
	Scheduled int             `json:"scheduled"`
	Total     decimal.Decimal `json:"total"`
}
