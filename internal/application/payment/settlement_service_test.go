package payment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mercato/backend/internal/domain/payment"
	"github.com/mercato/backend/internal/domain/shared"
)

type settlementServiceFixture struct {
	settlements *MockSettlementRepository
	escrow      *MockEscrowRepository
	svc         *SettlementService
}

func newSettlementServiceFixture() *settlementServiceFixture {
	f := &settlementServiceFixture{
		settlements: new(MockSettlementRepository),
		escrow:      new(MockEscrowRepository),
	}
	f.svc = NewSettlementService(f.settlements, f.escrow, zap.NewNop())
	return f
}

// releasedEntry builds a released escrow entry with a 10% commission
func releasedEntry(t *testing.T, sellerID uuid.UUID, gross int64) *payment.EscrowEntry {
	t.Helper()
	grossDec := decimal.NewFromInt(gross)
	entry, err := payment.NewEscrowEntry(uuid.New(), uuid.New(), sellerID,
		grossDec, grossDec.Div(decimal.NewFromInt(10)).Round(2))
	require.NoError(t, err)
	require.NoError(t, entry.Release())
	entry.ClearDomainEvents()
	return entry
}

func TestSettlementService_GenerateForSeller(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()
	from := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	t.Run("builds a draft statement from released escrow", func(t *testing.T) {
		f := newSettlementServiceFixture()
		first := releasedEntry(t, sellerID, 100)
		second := releasedEntry(t, sellerID, 40)

		f.escrow.On("FindReleasedUnsettled", ctx, sellerID, from, to).
			Return([]payment.EscrowEntry{*first, *second}, nil)
		f.settlements.On("FindCurrent", ctx, sellerID, 2026, time.July).
			Return(nil, shared.ErrNotFound)
		f.settlements.On("Save", ctx, mock.AnythingOfType("*payment.Settlement")).Return(nil)

		info, err := f.svc.GenerateForSeller(ctx, sellerID, 2026, time.July)

		require.NoError(t, err)
		assert.Equal(t, "2026-07", info.Period)
		assert.Equal(t, 1, info.StatementNo)
		assert.Equal(t, payment.SettlementStatusDraft.String(), info.Status)
		assert.True(t, info.GrossSales.Equal(decimal.NewFromInt(140)))
		assert.True(t, info.CommissionTotal.Equal(decimal.NewFromInt(14)))
		assert.True(t, info.NetPayable.Equal(decimal.NewFromInt(126)))
		assert.Len(t, info.Lines, 2)
	})

	t.Run("regenerating supersedes the existing draft", func(t *testing.T) {
		f := newSettlementServiceFixture()
		entry := releasedEntry(t, sellerID, 100)
		existing, err := payment.NewSettlement(sellerID, 2026, time.July, []payment.SettlementLineInput{{
			EscrowEntryID: entry.ID,
			OrderID:       entry.OrderID,
			Gross:         decimal.NewFromInt(100),
			Refunded:      decimal.Zero,
			Commission:    decimal.NewFromInt(10),
		}})
		require.NoError(t, err)

		// A refund landed after the first draft was cut.
		require.NoError(t, entry.ApplyRefund(decimal.NewFromInt(20), decimal.NewFromInt(2)))
		entry.ClearDomainEvents()

		f.escrow.On("FindReleasedUnsettled", ctx, sellerID, from, to).
			Return([]payment.EscrowEntry{*entry}, nil)
		f.settlements.On("FindCurrent", ctx, sellerID, 2026, time.July).Return(existing, nil)
		f.settlements.On("SaveWithLock", ctx, existing).Return(nil)
		f.settlements.On("Save", ctx, mock.AnythingOfType("*payment.Settlement")).Return(nil)

		info, err := f.svc.GenerateForSeller(ctx, sellerID, 2026, time.July)

		require.NoError(t, err)
		assert.True(t, existing.Superseded)
		assert.Equal(t, 2, info.StatementNo)
		assert.True(t, info.RefundTotal.Equal(decimal.NewFromInt(20)))
		assert.True(t, info.NetPayable.Equal(decimal.NewFromInt(72)))
	})

	t.Run("a period with no released escrow yields nothing", func(t *testing.T) {
		f := newSettlementServiceFixture()
		f.escrow.On("FindReleasedUnsettled", ctx, sellerID, from, to).
			Return([]payment.EscrowEntry{}, nil)

		_, err := f.svc.GenerateForSeller(ctx, sellerID, 2026, time.July)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NO_ESCROW", domainErr.Code)
	})
}

func TestSettlementService_GenerateMonthly(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	t.Run("generates one statement per seller owed", func(t *testing.T) {
		f := newSettlementServiceFixture()
		sellerOne := uuid.New()
		sellerTwo := uuid.New()

		f.escrow.On("SellersWithReleasedUnsettled", ctx, from, to).
			Return([]uuid.UUID{sellerOne, sellerTwo}, nil)
		for _, sellerID := range []uuid.UUID{sellerOne, sellerTwo} {
			f.escrow.On("FindReleasedUnsettled", ctx, sellerID, from, to).
				Return([]payment.EscrowEntry{*releasedEntry(t, sellerID, 50)}, nil)
			f.settlements.On("FindCurrent", ctx, sellerID, 2026, time.July).
				Return(nil, shared.ErrNotFound)
		}
		f.settlements.On("Save", ctx, mock.AnythingOfType("*payment.Settlement")).
			Return(nil).Times(2)

		generated, err := f.svc.GenerateMonthly(ctx, 2026, time.July)

		require.NoError(t, err)
		assert.Equal(t, 2, generated)
		f.settlements.AssertExpectations(t)
	})
}

func TestSettlementService_Finalize(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()

	t.Run("finalizing stamps the covered escrow as settled", func(t *testing.T) {
		f := newSettlementServiceFixture()
		entry := releasedEntry(t, sellerID, 100)
		settlement, err := payment.NewSettlement(sellerID, 2026, time.July, []payment.SettlementLineInput{{
			EscrowEntryID: entry.ID,
			OrderID:       entry.OrderID,
			Gross:         decimal.NewFromInt(100),
			Refunded:      decimal.Zero,
			Commission:    decimal.NewFromInt(10),
		}})
		require.NoError(t, err)

		f.settlements.On("FindByID", ctx, settlement.ID).Return(settlement, nil)
		f.settlements.On("SaveWithLock", ctx, settlement).Return(nil)
		f.escrow.On("FindByID", ctx, entry.ID).Return(entry, nil)
		f.escrow.On("SaveWithLock", ctx, entry).Return(nil)

		info, err := f.svc.Finalize(ctx, settlement.ID)

		require.NoError(t, err)
		assert.Equal(t, payment.SettlementStatusFinalized.String(), info.Status)
		require.NotNil(t, entry.SettledIn)
		assert.Equal(t, settlement.ID, *entry.SettledIn)
	})

	t.Run("a finalized statement cannot be finalized again", func(t *testing.T) {
		f := newSettlementServiceFixture()
		entry := releasedEntry(t, sellerID, 100)
		settlement, err := payment.NewSettlement(sellerID, 2026, time.July, []payment.SettlementLineInput{{
			EscrowEntryID: entry.ID,
			OrderID:       entry.OrderID,
			Gross:         decimal.NewFromInt(100),
		}})
		require.NoError(t, err)
		require.NoError(t, settlement.Finalize())
		settlement.ClearDomainEvents()

		f.settlements.On("FindByID", ctx, settlement.ID).Return(settlement, nil)

		_, err = f.svc.Finalize(ctx, settlement.ID)
		assert.Error(t, err)
		f.settlements.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestSettlementService_MarkPaid(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()

	t.Run("links the statement to its payout", func(t *testing.T) {
		f := newSettlementServiceFixture()
		entry := releasedEntry(t, sellerID, 100)
		settlement, err := payment.NewSettlement(sellerID, 2026, time.July, []payment.SettlementLineInput{{
			EscrowEntryID: entry.ID,
			OrderID:       entry.OrderID,
			Gross:         decimal.NewFromInt(100),
		}})
		require.NoError(t, err)
		require.NoError(t, settlement.Finalize())
		settlement.ClearDomainEvents()
		payoutID := uuid.New()

		f.settlements.On("FindByID", ctx, settlement.ID).Return(settlement, nil)
		f.settlements.On("SaveWithLock", ctx, settlement).Return(nil)

		require.NoError(t, f.svc.MarkPaid(ctx, settlement.ID, payoutID))

		assert.Equal(t, payment.SettlementStatusPaid, settlement.Status)
		require.NotNil(t, settlement.PayoutID)
		assert.Equal(t, payoutID, *settlement.PayoutID)
	})
}
