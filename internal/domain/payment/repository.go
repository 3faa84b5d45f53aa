package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/shared"
)

// PaymentRepository persists payments
type PaymentRepository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByOrderID finds all payment attempts for an order
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]Payment, error)

	// FindByGatewayRef finds a payment by its gateway reference
	FindByGatewayRef(ctx context.Context, gatewayRef string) (*Payment, error)

	// FindAll finds payments with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Payment, error)

	// Save creates or updates a payment
	Save(ctx context.Context, p *Payment) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, p *Payment) error

	// Count counts payments matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// EscrowRepository persists escrow entries
type EscrowRepository interface {
	// FindByID finds an escrow entry by ID
	FindByID(ctx context.Context, id uuid.UUID) (*EscrowEntry, error)

	// FindByPaymentID finds the entries carved out of a payment
	FindByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]EscrowEntry, error)

	// FindByOrderID finds the entries backing an order
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]EscrowEntry, error)

	// FindByOrderAndSeller finds a seller's entry for an order
	FindByOrderAndSeller(ctx context.Context, orderID, sellerID uuid.UUID) (*EscrowEntry, error)

	// FindReleasedUnsettled returns entries released in the window that
	// no settlement has covered yet
	FindReleasedUnsettled(ctx context.Context, sellerID uuid.UUID, from, to time.Time) ([]EscrowEntry, error)

	// FindPayable returns released entries with a positive net that are
	// not yet covered by a payout
	FindPayable(ctx context.Context, sellerID uuid.UUID) ([]EscrowEntry, error)

	// FindBySeller finds a seller's entries with filtering
	FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]EscrowEntry, error)

	// SellersWithReleasedUnsettled lists sellers owed a settlement in the window
	SellersWithReleasedUnsettled(ctx context.Context, from, to time.Time) ([]uuid.UUID, error)

	// Save creates or updates an escrow entry
	Save(ctx context.Context, e *EscrowEntry) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, e *EscrowEntry) error
}

// CommissionRuleRepository persists commission rules
type CommissionRuleRepository interface {
	// FindByID finds a rule by ID
	FindByID(ctx context.Context, id uuid.UUID) (*CommissionRule, error)

	// FindCandidates returns enabled rules whose scope could cover the
	// seller or category, including global rules. Matching happens in
	// the domain layer.
	FindCandidates(ctx context.Context, sellerID, categoryID uuid.UUID) ([]*CommissionRule, error)

	// FindAll finds rules with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]CommissionRule, error)

	// Save creates or updates a rule
	Save(ctx context.Context, r *CommissionRule) error

	// Count counts rules matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// CommissionRecordRepository persists commission records and adjustments
type CommissionRecordRepository interface {
	// FindByID finds a record by ID
	FindByID(ctx context.Context, id uuid.UUID) (*CommissionRecord, error)

	// FindByEscrowEntryID finds the record computed for an escrow entry
	FindByEscrowEntryID(ctx context.Context, escrowEntryID uuid.UUID) (*CommissionRecord, error)

	// FindByOrderID finds the records for an order
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]CommissionRecord, error)

	// Save creates or updates a record and its adjustments
	Save(ctx context.Context, r *CommissionRecord) error
}

// RefundRepository persists refunds
type RefundRepository interface {
	// FindByID finds a refund by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Refund, error)

	// FindByPaymentID finds all refunds against a payment
	FindByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]Refund, error)

	// FindByReturnRequestID finds the refund for a return, if created
	FindByReturnRequestID(ctx context.Context, returnRequestID uuid.UUID) (*Refund, error)

	// FindPending returns refunds awaiting gateway confirmation
	FindPending(ctx context.Context, limit int) ([]Refund, error)

	// Save creates or updates a refund
	Save(ctx context.Context, r *Refund) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, r *Refund) error
}

// SettlementRepository persists settlements
type SettlementRepository interface {
	// FindByID finds a settlement by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Settlement, error)

	// FindCurrent returns the non-superseded settlement for the seller
	// and period, or shared.ErrNotFound
	FindCurrent(ctx context.Context, sellerID uuid.UUID, year int, month time.Month) (*Settlement, error)

	// FindBySeller finds a seller's settlements with filtering
	FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]Settlement, error)

	// FindAll finds settlements with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Settlement, error)

	// Save creates or updates a settlement and its lines
	Save(ctx context.Context, s *Settlement) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, s *Settlement) error

	// Count counts settlements matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// PayoutRepository persists payouts
type PayoutRepository interface {
	// FindByID finds a payout by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payout, error)

	// FindBySeller finds a seller's payouts with filtering
	FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]Payout, error)

	// FindDue returns scheduled payouts whose scheduled or retry time
	// has passed
	FindDue(ctx context.Context, at time.Time, limit int) ([]Payout, error)

	// FindByBatch finds the payouts in a batch
	FindByBatch(ctx context.Context, batchID uuid.UUID) ([]Payout, error)

	// Save creates or updates a payout and its lines
	Save(ctx context.Context, p *Payout) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, p *Payout) error
}
