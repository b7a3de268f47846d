package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rl1809/stockroom/internal/config"
	"github.com/rl1809/stockroom/internal/port"
)

// Open connects the configured backend. When it cannot be reached the
// in-memory store is returned instead, with a warning, so the service still
// starts; the returned func releases whatever was opened.
func Open(ctx context.Context, cfg config.Config, log *zap.Logger) (port.StateRepository, func(), error) {
	noop := func() {}

	switch cfg.Store.Backend {
	case config.BackendMemory:
		log.Info("using in-memory state store")
		return NewMemoryAdapter(), noop, nil

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			MaxRetries:   3,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unavailable, falling back to in-memory state store",
				zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			rdb.Close()
			return NewMemoryAdapter(), noop, nil
		}
		log.Info("connected to redis", zap.String("addr", cfg.Redis.Addr), zap.String("key", cfg.Store.Key))
		return NewRedisAdapter(rdb, cfg.Store.Key), func() { rdb.Close() }, nil

	case config.BackendMySQL:
		db, err := sql.Open("mysql", cfg.MySQL.DSN)
		if err != nil {
			return nil, noop, fmt.Errorf("open mysql: %w", err)
		}
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			log.Warn("mysql unavailable, falling back to in-memory state store", zap.Error(err))
			db.Close()
			return NewMemoryAdapter(), noop, nil
		}
		adapter := NewMySQLAdapter(db, cfg.Store.Key)
		if err := adapter.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, noop, err
		}
		log.Info("connected to mysql", zap.String("key", cfg.Store.Key))
		return adapter, func() { db.Close() }, nil
	}

	return nil, noop, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
