package auth_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mercato/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_AddToBlacklist(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-logout-1", time.Hour))

	blacklisted, err := blacklist.IsBlacklisted(ctx, "jti-logout-1")
	require.NoError(t, err)
	assert.True(t, blacklisted)

	blacklisted, err = blacklist.IsBlacklisted(ctx, "jti-other")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}

func TestInMemoryTokenBlacklist_ExpiredEntriesClear(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-short", time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	blacklisted, err := blacklist.IsBlacklisted(ctx, "jti-short")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}

func TestInMemoryTokenBlacklist_UserTokenInvalidation(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()
	issuedBefore := time.Now().Add(-time.Hour)

	invalidated, err := blacklist.IsUserTokenInvalidated(ctx, "usr-1", issuedBefore)
	require.NoError(t, err)
	assert.False(t, invalidated)

	require.NoError(t, blacklist.AddUserTokensToBlacklist(ctx, "usr-1", time.Hour))

	// tokens issued before the sweep are dead, later ones survive
	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "usr-1", issuedBefore)
	require.NoError(t, err)
	assert.True(t, invalidated)

	issuedAfter := time.Now().Add(time.Second)
	time.Sleep(2 * time.Millisecond)
	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "usr-1", issuedAfter)
	require.NoError(t, err)
	assert.False(t, invalidated)

	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "usr-2", issuedBefore)
	require.NoError(t, err)
	assert.False(t, invalidated)
}

func TestInMemoryTokenBlacklist_MultipleTokens(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, blacklist.AddToBlacklist(ctx, fmt.Sprintf("jti-%d", i), time.Hour))
	}

	for i := 0; i < 10; i++ {
		blacklisted, err := blacklist.IsBlacklisted(ctx, fmt.Sprintf("jti-%d", i))
		require.NoError(t, err)
		assert.True(t, blacklisted, "jti-%d should be blacklisted", i)
	}

	blacklisted, err := blacklist.IsBlacklisted(ctx, "jti-missing")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}

func TestTokenBlacklist_Interfaces(t *testing.T) {
	var _ auth.TokenBlacklist = (*auth.InMemoryTokenBlacklist)(nil)
	var _ auth.TokenBlacklist = (*auth.RedisTokenBlacklist)(nil)
	var _ auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
}
