package revocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/recruitment-accounts/internal/domain/repository"
)

const redisKeyPrefix = "auth:revoked:"

// Redis keeps revoked tokens in Redis so several API instances share them.
// Each key lives until the token's own expiry.
type Redis struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb, now: time.Now}
}

func redisKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return redisKeyPrefix + hex.EncodeToString(sum[:])
}

func (r *Redis) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl < time.Second {
		ttl = time.Second
	}
	err := r.rdb.SetArgs(ctx, redisKey(token), "1", redis.SetArgs{Mode: "NX", TTL: ttl}).Err()
	if errors.Is(err, redis.Nil) {
		// already revoked
		return nil
	}
	return err
}

func (r *Redis) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.rdb.Exists(ctx, redisKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

var _ repository.RevocationLedger = (*Redis)(nil)
