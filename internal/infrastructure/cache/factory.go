package cache

import (
	"context"
	"io"

	"github.com/erp/workbench/internal/domain/gridlayout"
	"github.com/erp/workbench/internal/infrastructure/config"
	"go.uber.org/zap"
)

// LayoutCacheCloser is a layout cache that owns resources
type LayoutCacheCloser interface {
	gridlayout.LayoutCache
	io.Closer
}

// NewLayoutCache builds the cache selected by cfg.Backend. When Redis is
// selected but unreachable it falls back to an in-memory cache. Backend
// "none" returns nil, which the layout service treats as no caching.
func NewLayoutCache(ctx context.Context, cfg config.CacheConfig, redisCfg config.RedisConfig, logger *zap.Logger) LayoutCacheCloser {
	switch cfg.Backend {
	case "none":
		logger.Info("Layout cache disabled")
		return nil
	case "memory":
		logger.Info("Using in-memory layout cache", zap.Duration("ttl", cfg.LayoutTTL))
		return NewInMemoryLayoutCache(cfg.LayoutTTL)
	}

	client, err := NewRedisClient(ctx, redisCfg)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory layout cache. "+
			"Layouts saved on other instances may be served stale until the TTL expires.",
			zap.Error(err),
		)
		return NewInMemoryLayoutCache(cfg.LayoutTTL)
	}
	logger.Info("Using Redis layout cache", zap.String("addr", redisCfg.Addr()))
	return NewRedisLayoutCache(client, cfg.KeyPrefix, cfg.LayoutTTL)
}
