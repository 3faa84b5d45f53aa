package payment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScheduledPayout(t *testing.T) *Payout {
	lines := []PayoutLineInput{
		{EscrowEntryID: uuid.New(), NetAmount: decimal.NewFromInt(90)},
		{EscrowEntryID: uuid.New(), NetAmount: decimal.NewFromInt(45)},
	}
	p, err := NewPayout(uuid.New(), uuid.New(), "****1234", time.Now().Add(-time.Minute), lines)
	require.NoError(t, err)
	return p
}

func TestNewPayout(t *testing.T) {
	t.Run("amount equals sum of line nets", func(t *testing.T) {
		p := newScheduledPayout(t)

		assert.Equal(t, PayoutStatusScheduled, p.Status)
		assert.Equal(t, "135", p.Amount.String())
		assert.Len(t, p.Lines, 2)
		assert.Equal(t, 0, p.AttemptCount)

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePayoutScheduled, events[0].EventType())
	})

	t.Run("rejects empty lines", func(t *testing.T) {
		_, err := NewPayout(uuid.New(), uuid.New(), "****1234", time.Now(), nil)
		assert.Error(t, err)
	})

	t.Run("rejects missing bank reference", func(t *testing.T) {
		_, err := NewPayout(uuid.New(), uuid.New(), " ", time.Now(), []PayoutLineInput{
			{EscrowEntryID: uuid.New(), NetAmount: decimal.NewFromInt(10)},
		})
		assert.Error(t, err)
	})
}

func TestPayout_Lifecycle(t *testing.T) {
	t.Run("process and pay", func(t *testing.T) {
		p := newScheduledPayout(t)
		p.ClearDomainEvents()

		require.NoError(t, p.StartProcessing())
		assert.Equal(t, PayoutStatusProcessing, p.Status)
		assert.Equal(t, 1, p.AttemptCount)

		require.NoError(t, p.MarkPaid("tr_999"))
		assert.Equal(t, PayoutStatusPaid, p.Status)
		assert.Equal(t, "tr_999", p.GatewayRef)
		require.NotNil(t, p.PaidAt)

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePayoutPaid, events[0].EventType())
	})

	t.Run("failure schedules backed-off retry", func(t *testing.T) {
		p := newScheduledPayout(t)
		require.NoError(t, p.StartProcessing())

		before := time.Now()
		require.NoError(t, p.RecordFailure("rail timeout"))

		assert.Equal(t, PayoutStatusScheduled, p.Status)
		assert.Equal(t, "rail timeout", p.LastError)
		require.NotNil(t, p.NextRetryAt)
		assert.WithinDuration(t, before.Add(15*time.Minute), *p.NextRetryAt, 5*time.Second)

		assert.False(t, p.IsDue(time.Now()))
		assert.True(t, p.IsDue(time.Now().Add(16*time.Minute)))
	})

	t.Run("backoff doubles per attempt", func(t *testing.T) {
		p := newScheduledPayout(t)

		require.NoError(t, p.StartProcessing())
		require.NoError(t, p.RecordFailure("fail 1"))

		before := time.Now()
		require.NoError(t, p.StartProcessing())
		require.NoError(t, p.RecordFailure("fail 2"))

		require.NotNil(t, p.NextRetryAt)
		assert.WithinDuration(t, before.Add(30*time.Minute), *p.NextRetryAt, 5*time.Second)
	})

	t.Run("exhausted retries fail hard", func(t *testing.T) {
		p := newScheduledPayout(t)
		p.ClearDomainEvents()

		for i := 0; i < MaxPayoutAttempts; i++ {
			require.NoError(t, p.StartProcessing())
			require.NoError(t, p.RecordFailure("persistent failure"))
		}

		assert.Equal(t, PayoutStatusFailed, p.Status)
		assert.Nil(t, p.NextRetryAt)
		assert.Equal(t, MaxPayoutAttempts, p.AttemptCount)

		events := p.GetDomainEvents()
		require.NotEmpty(t, events)
		assert.Equal(t, EventTypePayoutFailed, events[len(events)-1].EventType())

		t.Run("failed payouts cannot restart", func(t *testing.T) {
			assert.Error(t, p.StartProcessing())
		})
	})
}
