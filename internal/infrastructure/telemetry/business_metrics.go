// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides marketplace business metrics.
// It tracks checkout activity, payment outcomes, refunds, and the money
// currently held in escrow.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	orderPlacedTotal *Counter
	orderAmountTotal *Counter
	paymentTotal     *Counter
	refundTotal      *Counter
	payoutTotal      *Counter

	// Gauge metrics (point-in-time values)
	escrowHeldAmount   *Gauge
	pendingRefundCount *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	escrowProvider EscrowMetricsProvider
}

// EscrowMetricsProvider provides escrow data for periodic metrics collection.
// This interface lets the telemetry layer query held balances without
// depending on the payment domain directly.
type EscrowMetricsProvider interface {
	// GetHeldAmountBySeller returns the held escrow amount in cents per seller
	GetHeldAmountBySeller(ctx context.Context) (map[uuid.UUID]int64, error)

	// GetPendingRefundCount returns the number of refunds awaiting gateway processing
	GetPendingRefundCount(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	EscrowProvider  EscrowMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:          cfg.Meter,
		logger:         logger,
		stopChan:       make(chan struct{}),
		escrowProvider: cfg.EscrowProvider,
	}

	var err error

	bm.orderPlacedTotal, err = NewCounter(
		cfg.Meter,
		"mercato_order_placed_total",
		"Total number of orders placed at checkout",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.orderAmountTotal, err = NewCounter(
		cfg.Meter,
		"mercato_order_amount_total",
		"Total order amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	bm.paymentTotal, err = NewCounter(
		cfg.Meter,
		"mercato_payment_total",
		"Total number of payment webhook outcomes",
		"{payments}",
	)
	if err != nil {
		return nil, err
	}

	bm.refundTotal, err = NewCounter(
		cfg.Meter,
		"mercato_refund_total",
		"Total number of refunds processed",
		"{refunds}",
	)
	if err != nil {
		return nil, err
	}

	bm.payoutTotal, err = NewCounter(
		cfg.Meter,
		"mercato_payout_total",
		"Total number of payout dispatch attempts",
		"{payouts}",
	)
	if err != nil {
		return nil, err
	}

	bm.escrowHeldAmount, err = NewGauge(
		cfg.Meter,
		"mercato_escrow_held_amount",
		"Escrow amount currently held per seller, in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	bm.pendingRefundCount, err = NewGauge(
		cfg.Meter,
		"mercato_refund_pending_count",
		"Number of refunds awaiting gateway processing",
		"{refunds}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Order Metrics
// =============================================================================

// RecordOrderPlaced records a successful checkout, with the grand total.
func (bm *BusinessMetrics) RecordOrderPlaced(ctx context.Context, amount decimal.Decimal) {
	bm.orderPlacedTotal.Inc(ctx)

	amountCents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.orderAmountTotal.Add(ctx, amountCents)
}

// =============================================================================
// Payment Metrics
// =============================================================================

// PaymentOutcome represents the outcome of a payment for metrics labeling.
type PaymentOutcome string

const (
	PaymentOutcomeSuccess PaymentOutcome = "success"
	PaymentOutcomeFailed  PaymentOutcome = "failed"
)

// RecordPayment records a payment outcome.
// This should be called when a gateway webhook is processed.
func (bm *BusinessMetrics) RecordPayment(ctx context.Context, method string, outcome PaymentOutcome) {
	bm.paymentTotal.Inc(ctx,
		AttrPaymentMethod.String(method),
		AttrPaymentStatus.String(string(outcome)),
	)
}

// RecordRefund records a refund reaching a terminal status.
func (bm *BusinessMetrics) RecordRefund(ctx context.Context, status string) {
	bm.refundTotal.Inc(ctx,
		AttrRefundStatus.String(status),
	)
}

// RecordPayout records a payout dispatch attempt outcome.
func (bm *BusinessMetrics) RecordPayout(ctx context.Context, status string) {
	bm.payoutTotal.Inc(ctx,
		AttrPayoutStatus.String(status),
	)
}

// =============================================================================
// Escrow Metrics
// =============================================================================

// RecordHeldAmount records the escrow amount currently held for a seller.
// This is a gauge metric updated by the periodic collector.
func (bm *BusinessMetrics) RecordHeldAmount(ctx context.Context, sellerID uuid.UUID, amountCents int64) {
	bm.escrowHeldAmount.Record(ctx, amountCents,
		AttrSellerID.String(sellerID.String()),
	)
}

// RecordPendingRefundCount records the number of refunds still pending.
func (bm *BusinessMetrics) RecordPendingRefundCount(ctx context.Context, count int64) {
	bm.pendingRefundCount.Record(ctx, count)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects escrow metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectEscrowMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectEscrowMetrics(ctx)
		}
	}
}

func (bm *BusinessMetrics) collectEscrowMetrics(ctx context.Context) {
	if bm.escrowProvider == nil {
		bm.logger.Debug("No escrow provider configured, skipping escrow metrics collection")
		return
	}

	heldBySeller, err := bm.escrowProvider.GetHeldAmountBySeller(ctx)
	if err != nil {
		bm.logger.Warn("Failed to get held escrow amounts", zap.Error(err))
	} else {
		for sellerID, amountCents := range heldBySeller {
			bm.RecordHeldAmount(ctx, sellerID, amountCents)
		}
	}

	pending, err := bm.escrowProvider.GetPendingRefundCount(ctx)
	if err != nil {
		bm.logger.Warn("Failed to get pending refund count", zap.Error(err))
	} else {
		bm.RecordPendingRefundCount(ctx, pending)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
