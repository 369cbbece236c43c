package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	ctx := context.Background()

	t.Run("first claim wins", func(t *testing.T) {
		claimed, err := store.MarkProcessed(ctx, "rule:2025-04-01T00:00:00Z", time.Minute)
		require.NoError(t, err)
		assert.True(t, claimed)

		claimed, err = store.MarkProcessed(ctx, "rule:2025-04-01T00:00:00Z", time.Minute)
		require.NoError(t, err)
		assert.False(t, claimed)

		processed, err := store.IsProcessed(ctx, "rule:2025-04-01T00:00:00Z")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("expired keys can be reclaimed", func(t *testing.T) {
		claimed, err := store.MarkProcessed(ctx, "short-lived", time.Nanosecond)
		require.NoError(t, err)
		assert.True(t, claimed)

		time.Sleep(time.Millisecond)

		claimed, err = store.MarkProcessed(ctx, "short-lived", time.Minute)
		require.NoError(t, err)
		assert.True(t, claimed)
	})

	t.Run("released keys can be reclaimed", func(t *testing.T) {
		claimed, err := store.MarkProcessed(ctx, "rolled-back", time.Minute)
		require.NoError(t, err)
		assert.True(t, claimed)

		require.NoError(t, store.Release(ctx, "rolled-back"))

		claimed, err = store.MarkProcessed(ctx, "rolled-back", time.Minute)
		require.NoError(t, err)
		assert.True(t, claimed)
	})

	t.Run("releasing an unclaimed key is a no-op", func(t *testing.T) {
		require.NoError(t, store.Release(ctx, "never-claimed"))
	})

	t.Run("close clears state", func(t *testing.T) {
		require.NoError(t, store.Close())
		processed, err := store.IsProcessed(ctx, "rule:2025-04-01T00:00:00Z")
		require.NoError(t, err)
		assert.False(t, processed)
	})
}

func TestInMemoryTokenBlacklist(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	revoked, err := blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, blacklist.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	t.Run("revocation expires with the token", func(t *testing.T) {
		require.NoError(t, blacklist.Revoke(ctx, "jti-2", time.Nanosecond))
		time.Sleep(time.Millisecond)
		revoked, err := blacklist.IsRevoked(ctx, "jti-2")
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}
