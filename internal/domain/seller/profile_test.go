package seller

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingProfile(t *testing.T) *SellerProfile {
	p, err := NewSellerProfile(uuid.New(), "Acme Outdoor", "acme-outdoor", "Camping gear", "1234567890123456")
	require.NoError(t, err)
	return p
}

func TestNewSellerProfile(t *testing.T) {
	t.Run("creates pending profile with masked bank account", func(t *testing.T) {
		p := newPendingProfile(t)

		assert.Equal(t, ProfileStatusPending, p.Status)
		assert.Equal(t, "****3456", p.BankRef)
		assert.False(t, p.CanSell())
		assert.False(t, p.CanReceivePayouts())

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeSellerApplied, events[0].EventType())
	})

	t.Run("bank account with separators", func(t *testing.T) {
		p, err := NewSellerProfile(uuid.New(), "Store", "store", "", "1234-5678-9012")
		require.NoError(t, err)
		assert.Equal(t, "****9012", p.BankRef)
	})

	t.Run("invalid slugs", func(t *testing.T) {
		for _, slug := range []string{"", "Has-Upper", "ends-", "-starts", "two--dashes", "spa ce"} {
			_, err := NewSellerProfile(uuid.New(), "Store", slug, "", "1234567890")
			assert.Error(t, err, "slug %q", slug)
		}
	})

	t.Run("bank account too short", func(t *testing.T) {
		_, err := NewSellerProfile(uuid.New(), "Store", "store", "", "1234567")
		assert.Error(t, err)
	})

	t.Run("empty store name", func(t *testing.T) {
		_, err := NewSellerProfile(uuid.New(), "  ", "store", "", "1234567890")
		assert.Error(t, err)
	})
}

func TestSellerProfile_Lifecycle(t *testing.T) {
	t.Run("approve", func(t *testing.T) {
		p := newPendingProfile(t)
		p.ClearDomainEvents()

		require.NoError(t, p.Approve())
		assert.Equal(t, ProfileStatusApproved, p.Status)
		assert.True(t, p.CanSell())
		assert.True(t, p.CanReceivePayouts())
		require.NotNil(t, p.ApprovedAt)

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeSellerApproved, events[0].EventType())
	})

	t.Run("cannot approve twice", func(t *testing.T) {
		p := newPendingProfile(t)
		require.NoError(t, p.Approve())
		assert.Error(t, p.Approve())
	})

	t.Run("suspend and reinstate", func(t *testing.T) {
		p := newPendingProfile(t)
		require.NoError(t, p.Approve())

		require.NoError(t, p.Suspend("policy violation"))
		assert.Equal(t, ProfileStatusSuspended, p.Status)
		assert.False(t, p.CanSell())
		assert.False(t, p.CanReceivePayouts())

		require.NoError(t, p.Reinstate())
		assert.Equal(t, ProfileStatusApproved, p.Status)
		assert.Nil(t, p.SuspendedAt)
	})

	t.Run("pending profiles cannot be suspended", func(t *testing.T) {
		p := newPendingProfile(t)
		assert.Error(t, p.Suspend("reason"))
	})

	t.Run("suspend requires reason", func(t *testing.T) {
		p := newPendingProfile(t)
		require.NoError(t, p.Approve())
		assert.Error(t, p.Suspend("  "))
	})
}

func TestSellerProfile_Updates(t *testing.T) {
	p := newPendingProfile(t)

	t.Run("store details", func(t *testing.T) {
		require.NoError(t, p.UpdateStore("Acme Outdoors Inc", "Camping and hiking gear"))
		assert.Equal(t, "Acme Outdoors Inc", p.StoreName)
		assert.Equal(t, "acme-outdoor", p.Slug, "slug stays fixed")
	})

	t.Run("bank account", func(t *testing.T) {
		require.NoError(t, p.UpdateBankAccount("9876543210987654"))
		assert.Equal(t, "****7654", p.BankRef)
	})

	t.Run("invalid bank account keeps old value", func(t *testing.T) {
		assert.Error(t, p.UpdateBankAccount("123"))
		assert.Equal(t, "****7654", p.BankRef)
	})
}
