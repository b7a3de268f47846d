package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/stockroom/internal/core/domain"
)

const revisionKeySuffix = ":rev"

// RedisAdapter keeps the snapshot as one JSON string value. A companion
// counter under key+":rev" is bumped in the same transaction on every save.
type RedisAdapter struct {
	client *redis.Client
	key    string
}

func NewRedisAdapter(client *redis.Client, key string) *RedisAdapter {
	return &RedisAdapter{client: client, key: key}
}

func (r *RedisAdapter) LoadState(ctx context.Context) (*domain.Snapshot, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", r.key, err)
	}
	return decodeSnapshot(data)
}

func (r *RedisAdapter) SaveState(ctx context.Context, snapshot domain.Snapshot) error {
	data, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key, data, 0)
		pipe.Incr(ctx, r.key+revisionKeySuffix)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", r.key, err)
	}
	return nil
}

// Revision returns how many times the snapshot has been saved.
func (r *RedisAdapter) Revision(ctx context.Context) (int64, error) {
	rev, err := r.client.Get(ctx, r.key+revisionKeySuffix).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return rev, err
}
