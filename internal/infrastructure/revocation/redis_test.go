package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLedger(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedis(rdb), mr
}

func TestRedis_RevokeAndCheck(t *testing.T) {
	ctx := context.Background()
	l, mr := newRedisLedger(t)

	ok, err := l.IsRevoked(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Revoke(ctx, "t1", time.Now().Add(time.Hour)))
	require.NoError(t, l.Revoke(ctx, "t1", time.Now().Add(time.Hour)))

	ok, err = l.IsRevoked(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, ok)

	// the raw token never lands in Redis
	for _, k := range mr.Keys() {
		assert.NotContains(t, k, "t1")
	}
}

func TestRedis_EntryExpiresWithToken(t *testing.T) {
	ctx := context.Background()
	l, mr := newRedisLedger(t)

	require.NoError(t, l.Revoke(ctx, "t1", time.Now().Add(time.Hour)))
	assert.InDelta(t, time.Hour.Seconds(), mr.TTL(redisKey("t1")).Seconds(), 5)

	mr.FastForward(time.Hour + time.Second)

	ok, err := l.IsRevoked(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_AlreadyExpiredTokenStillRecordedBriefly(t *testing.T) {
	ctx := context.Background()
	l, mr := newRedisLedger(t)

	require.NoError(t, l.Revoke(ctx, "old", time.Now().Add(-time.Hour)))
	ok, err := l.IsRevoked(ctx, "old")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Second, mr.TTL(redisKey("old")))
}

func TestRedis_Unavailable(t *testing.T) {
	ctx := context.Background()
	l, mr := newRedisLedger(t)
	mr.Close()

	_, err := l.IsRevoked(ctx, "t1")
	assert.Error(t, err)
	assert.Error(t, l.Revoke(ctx, "t1", time.Now().Add(time.Hour)))
}
