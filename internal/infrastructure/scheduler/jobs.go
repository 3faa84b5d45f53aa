package scheduler

import (
	"context"
	"time"

	orderapp "github.com/mercato/backend/internal/application/order"
	paymentapp "github.com/mercato/backend/internal/application/payment"
)

// NewPayoutDispatchJob processes payouts whose scheduled or retry time has
// arrived, submitting each to the payout rail.
func NewPayoutDispatchJob(payouts *paymentapp.PayoutService, limit int) Job {
	return NewJobFunc("payout_dispatch", func(ctx context.Context) error {
		_, err := payouts.ProcessDue(ctx, time.Now(), limit)
		return err
	})
}

// NewRefundProcessingJob pushes pending refunds through the payment gateway.
func NewRefundProcessingJob(refunds *paymentapp.RefundService, limit int) Job {
	return NewJobFunc("refund_processing", func(ctx context.Context) error {
		_, err := refunds.ProcessPending(ctx, limit)
		return err
	})
}

// NewSettlementGenerationJob generates monthly statements for the period
// that just closed. Intended to run on a cron early in the new month.
func NewSettlementGenerationJob(settlements *paymentapp.SettlementService) Job {
	return NewJobFunc("settlement_generation", func(ctx context.Context) error {
		// Step back one day so a run on the 1st covers the month that ended.
		ref := time.Now().AddDate(0, 0, -1)
		_, err := settlements.GenerateMonthly(ctx, ref.Year(), ref.Month())
		return err
	})
}

// NewOrderAutoCompleteJob completes delivered orders whose confirmation
// window has lapsed without buyer action.
func NewOrderAutoCompleteJob(orders *orderapp.OrderService, limit int) Job {
	return NewJobFunc("order_auto_complete", func(ctx context.Context) error {
		_, err := orders.AutoCompleteDelivered(ctx, limit)
		return err
	})
}
