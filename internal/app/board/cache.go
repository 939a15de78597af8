package board

import (
	"context"
	"time"

	redisprovider "crudboard/internal/providers/redis"

	"go.uber.org/zap"
)

const (
	recentCacheKey  = "boards:recent"
	popularCacheKey = "boards:popular"
)

// Cache holds the short highlight lists shown on the landing page.
type Cache interface {
	GetBoards(ctx context.Context, key string) ([]BoardResponse, bool)
	SetBoards(ctx context.Context, key string, boards []BoardResponse)
	Invalidate(ctx context.Context, keys ...string)
}

type redisCache struct {
	redisP *redisprovider.RedisProvider
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewRedisCache(redisP *redisprovider.RedisProvider, ttl time.Duration, logger *zap.Logger) Cache {
	return &redisCache{
		redisP: redisP,
		ttl:    ttl,
		logger: logger.Sugar(),
	}
}

func (c *redisCache) GetBoards(ctx context.Context, key string) ([]BoardResponse, bool) {
	var boards []BoardResponse
	ok, err := c.redisP.GetJSON(ctx, key, &boards)
	if err != nil {
		c.logger.Warnw("Board cache read failed", "key", key, "error", err)
		return nil, false
	}
	return boards, ok
}

func (c *redisCache) SetBoards(ctx context.Context, key string, boards []BoardResponse) {
	if err := c.redisP.SetJSON(ctx, key, boards, c.ttl); err != nil {
		c.logger.Warnw("Board cache write failed", "key", key, "error", err)
	}
}

func (c *redisCache) Invalidate(ctx context.Context, keys ...string) {
	if err := c.redisP.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warnw("Board cache invalidation failed", "keys", keys, "error", err)
	}
}
