package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/workbench/internal/domain/gridlayout"
	"github.com/erp/workbench/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hash fields mirror the grid wire format
const (
	fieldVisible = "grdColVisible"
	fieldOrder   = "grdColOrder"
	fieldSize    = "grdColSize"
	fieldSort    = "grdSort"
)

// RedisLayoutCache stores each layout as a Redis hash of its four wire strings
type RedisLayoutCache struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisLayoutCache wraps an existing client
func NewRedisLayoutCache(client redis.UniversalClient, keyPrefix string, ttl time.Duration) *RedisLayoutCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisLayoutCache{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

// Get returns the cached state. Redis errors and undecodable entries are misses.
func (c *RedisLayoutCache) Get(ctx context.Context, tenantID, userID uuid.UUID, key gridlayout.GridKey) (*gridlayout.LayoutState, bool) {
	fields, err := c.client.HGetAll(ctx, layoutKey(c.keyPrefix, tenantID, userID, key)).Result()
	if err != nil || len(fields) == 0 {
		return nil, false
	}
	state, err := gridlayout.DecodeState(gridlayout.EncodedLayout{
		ColVisible: fields[fieldVisible],
		ColOrder:   fields[fieldOrder],
		ColSize:    fields[fieldSize],
		Sort:       fields[fieldSort],
	})
	if err != nil {
		return nil, false
	}
	return &state, true
}

// Set writes all four fields and the TTL in one MULTI/EXEC
func (c *RedisLayoutCache) Set(ctx context.Context, tenantID, userID uuid.UUID, key gridlayout.GridKey, state gridlayout.LayoutState) error {
	enc, err := gridlayout.EncodeState(state)
	if err != nil {
		return err
	}
	k := layoutKey(c.keyPrefix, tenantID, userID, key)
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, k)
		pipe.HSet(ctx, k,
			fieldVisible, enc.ColVisible,
			fieldOrder, enc.ColOrder,
			fieldSize, enc.ColSize,
			fieldSort, enc.Sort,
		)
		if c.ttl > 0 {
			pipe.Expire(ctx, k, c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache layout %s: %w", key, err)
	}
	return nil
}

// Invalidate drops the cached entry; a missing key is not an error
func (c *RedisLayoutCache) Invalidate(ctx context.Context, tenantID, userID uuid.UUID, key gridlayout.GridKey) error {
	if err := c.client.Del(ctx, layoutKey(c.keyPrefix, tenantID, userID, key)).Err(); err != nil {
		return fmt.Errorf("invalidate layout %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisLayoutCache) Close() error {
	return c.client.Close()
}

var _ gridlayout.LayoutCache = (*RedisLayoutCache)(nil)
