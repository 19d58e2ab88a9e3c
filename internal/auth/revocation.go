package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore remembers logged-out tokens until they would have expired.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const revokedKeyPrefix = "koinonia:revoked:"

type RedisRevocations struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisRevocations(rdb *redis.Client) *RedisRevocations {
	return &RedisRevocations{rdb: rdb, now: time.Now}
}

func (r *RedisRevocations) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return errors.New("missing jti")
	}

	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		// already expired, nothing to remember
		return nil
	}

	return r.rdb.Set(ctx, revokedKeyPrefix+jti, 1, ttl).Err()
}

func (r *RedisRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.rdb.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// NopRevocations is used when no Redis is configured; logout stays stateless.
type NopRevocations struct{}

func (NopRevocations) Revoke(context.Context, string, time.Time) error { return nil }

func (NopRevocations) IsRevoked(context.Context, string) (bool, error) { return false, nil }
