package payment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLines() []SettlementLineInput {
	return []SettlementLineInput{
		{
			EscrowEntryID: uuid.New(),
			OrderID:       uuid.New(),
			Gross:         decimal.NewFromInt(100),
			Refunded:      decimal.NewFromInt(20),
			Commission:    decimal.NewFromInt(8),
		},
		{
			EscrowEntryID: uuid.New(),
			OrderID:       uuid.New(),
			Gross:         decimal.NewFromInt(50),
			Refunded:      decimal.Zero,
			Commission:    decimal.NewFromInt(5),
		},
	}
}

func TestNewSettlement(t *testing.T) {
	t.Run("aggregates totals from lines", func(t *testing.T) {
		s, err := NewSettlement(uuid.New(), 2026, time.August, sampleLines())
		require.NoError(t, err)

		assert.Equal(t, SettlementStatusDraft, s.Status)
		assert.Equal(t, 1, s.StatementNo)
		assert.Equal(t, "150", s.GrossSales.String())
		assert.Equal(t, "20", s.RefundTotal.String())
		assert.Equal(t, "13", s.CommissionTotal.String())
		assert.Equal(t, "117", s.NetPayable.String(), "150 - 20 - 13")
		assert.Equal(t, "2026-08", s.Period())
		assert.Len(t, s.Lines, 2)
	})

	t.Run("rejects empty period", func(t *testing.T) {
		_, err := NewSettlement(uuid.New(), 2026, time.August, nil)
		assert.Error(t, err)
	})

	t.Run("rejects invalid month", func(t *testing.T) {
		_, err := NewSettlement(uuid.New(), 2026, time.Month(13), sampleLines())
		assert.Error(t, err)
	})
}

func TestSettlement_Regenerate(t *testing.T) {
	t.Run("bumps statement number and supersedes prior", func(t *testing.T) {
		s, err := NewSettlement(uuid.New(), 2026, time.August, sampleLines())
		require.NoError(t, err)

		next, err := s.Regenerate(sampleLines()[:1])
		require.NoError(t, err)

		assert.True(t, s.Superseded)
		assert.Equal(t, 2, next.StatementNo)
		assert.Equal(t, s.SellerID, next.SellerID)
		assert.Equal(t, s.Period(), next.Period())
		assert.Equal(t, "72", next.NetPayable.String())
	})

	t.Run("superseded draft cannot regenerate again", func(t *testing.T) {
		s, err := NewSettlement(uuid.New(), 2026, time.August, sampleLines())
		require.NoError(t, err)
		_, err = s.Regenerate(sampleLines())
		require.NoError(t, err)

		_, err = s.Regenerate(sampleLines())
		assert.Error(t, err)
	})

	t.Run("finalized settlements cannot regenerate", func(t *testing.T) {
		s, err := NewSettlement(uuid.New(), 2026, time.August, sampleLines())
		require.NoError(t, err)
		require.NoError(t, s.Finalize())

		_, err = s.Regenerate(sampleLines())
		assert.Error(t, err)
	})
}

func TestSettlement_FinalizeAndPay(t *testing.T) {
	s, err := NewSettlement(uuid.New(), 2026, time.July, sampleLines())
	require.NoError(t, err)
	s.ClearDomainEvents()

	require.NoError(t, s.Finalize())
	assert.Equal(t, SettlementStatusFinalized, s.Status)
	require.NotNil(t, s.FinalizedAt)

	events := s.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeSettlementFinalized, events[0].EventType())

	payoutID := uuid.New()
	require.NoError(t, s.MarkPaid(payoutID))
	assert.Equal(t, SettlementStatusPaid, s.Status)
	require.NotNil(t, s.PayoutID)
	assert.Equal(t, payoutID, *s.PayoutID)

	t.Run("superseded draft cannot finalize", func(t *testing.T) {
		draft, err := NewSettlement(uuid.New(), 2026, time.July, sampleLines())
		require.NoError(t, err)
		_, err = draft.Regenerate(sampleLines())
		require.NoError(t, err)

		assert.Error(t, draft.Finalize())
	})

	t.Run("draft cannot be paid directly", func(t *testing.T) {
		draft, err := NewSettlement(uuid.New(), 2026, time.July, sampleLines())
		require.NoError(t, err)
		assert.Error(t, draft.MarkPaid(uuid.New()))
	})
}
