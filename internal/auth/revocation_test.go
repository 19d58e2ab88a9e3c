package auth

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("redis integration test skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisRevocations(t *testing.T) {
	rdb := startRedis(t)
	store := NewRedisRevocations(rdb)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "abc", time.Now().Add(time.Hour)))

	revoked, err = store.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	require.True(t, revoked)

	ttl, err := rdb.TTL(ctx, revokedKeyPrefix+"abc").Result()
	require.NoError(t, err)
	require.Greater(t, ttl, 50*time.Minute)

	// an already expired token leaves nothing behind
	require.NoError(t, store.Revoke(ctx, "old", time.Now().Add(-time.Minute)))
	revoked, err = store.IsRevoked(ctx, "old")
	require.NoError(t, err)
	require.False(t, revoked)

	require.Error(t, store.Revoke(ctx, "", time.Now().Add(time.Hour)))
}
