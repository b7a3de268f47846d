package storage

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestRedisAdapter_MissingKey(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client, "stockroom-test:missing")
	client.Del(ctx, "stockroom-test:missing", "stockroom-test:missing"+revisionKeySuffix)

	snap, err := adapter.LoadState(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)

	rev, err := adapter.Revision(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rev)
}

func TestRedisAdapter_RoundTrip(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	key := "stockroom-test:roundtrip"
	client.Del(ctx, key, key+revisionKeySuffix)
	defer client.Del(ctx, key, key+revisionKeySuffix)

	adapter := NewRedisAdapter(client, key)
	want := sampleSnapshot()

	require.NoError(t, adapter.SaveState(ctx, want))
	require.NoError(t, adapter.SaveState(ctx, want))

	got, err := adapter.LoadState(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	rev, err := adapter.Revision(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rev)
}

func TestRedisAdapter_CorruptValue(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	key := "stockroom-test:corrupt"
	client.Set(ctx, key, "{not json", 0)
	defer client.Del(ctx, key)

	_, err := NewRedisAdapter(client, key).LoadState(ctx)
	assert.Error(t, err)
}
