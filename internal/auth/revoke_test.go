package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRevocationList(t *testing.T) (*RevocationList, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRevocationList(client), mr
}

func TestRevocationListRoundTrip(t *testing.T) {
	list, _ := newTestRevocationList(t)
	ctx := context.Background()

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Other token ids are unaffected.
	revoked, err = list.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationEntryExpiresWithToken(t *testing.T) {
	list, mr := newTestRevocationList(t)
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))
	mr.FastForward(2 * time.Minute)

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "entries vanish once the token would have expired anyway")
}

func TestRevokeAlreadyExpiredIsNoop(t *testing.T) {
	list, _ := newTestRevocationList(t)
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Now().Add(-time.Minute)))

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokeEmptyID(t *testing.T) {
	list, _ := newTestRevocationList(t)
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "", time.Now().Add(time.Hour)))

	revoked, err := list.IsRevoked(ctx, "")
	require.NoError(t, err)
	assert.False(t, revoked)
}
