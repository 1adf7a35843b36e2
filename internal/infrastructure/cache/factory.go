package cache

import (
	"context"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdempotencyStore returns a Redis store when Redis is enabled and
// reachable, and an in-memory store otherwise. An unreachable Redis is
// logged as a warning: keys are then not shared between instances.
func NewIdempotencyStore(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) shared.IdempotencyStore {
	if !cfg.Enabled {
		logger.Info("using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(DefaultCleanupInterval)
	}

	store, err := NewRedisIdempotencyStore(ctx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory idempotency store",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return NewInMemoryIdempotencyStore(DefaultCleanupInterval)
	}
	logger.Info("using Redis idempotency store", zap.String("addr", cfg.Addr()))
	return store
}
