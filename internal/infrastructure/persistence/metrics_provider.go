package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mercato/backend/internal/domain/payment"
)

// EscrowMetricsProvider answers the aggregate queries the business
// metrics collector polls on its interval. Amounts are reported in
// cents to keep the metric integral.
type EscrowMetricsProvider struct {
	db *gorm.DB
}

// NewEscrowMetricsProvider creates a new EscrowMetricsProvider
func NewEscrowMetricsProvider(db *gorm.DB) *EscrowMetricsProvider {
	return &EscrowMetricsProvider{db: db}
}

type sellerHeldRow struct {
	SellerID  uuid.UUID
	HeldCents int64
}

// GetHeldAmountBySeller returns the held escrow amount in cents per seller
func (p *EscrowMetricsProvider) GetHeldAmountBySeller(ctx context.Context) (map[uuid.UUID]int64, error) {
	var rows []sellerHeldRow
	err := p.db.WithContext(ctx).
		Table("escrow_entries").
		Select("seller_id, CAST(SUM((net_amount - refunded_amount) * 100) AS BIGINT) AS held_cents").
		Where("status = ?", payment.EscrowStatusHeld).
		Group("seller_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	held := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		held[row.SellerID] = row.HeldCents
	}
	return held, nil
}

// GetPendingRefundCount returns the number of refunds awaiting gateway processing
func (p *EscrowMetricsProvider) GetPendingRefundCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("refunds").
		Where("status = ?", payment.RefundStatusPending).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
