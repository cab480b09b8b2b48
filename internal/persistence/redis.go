package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/config"
)

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

const (
	postCacheKeyPrefix = "post:slug:"
	postViewsKeyPrefix = "post:views:"
)

// PostCache stores rendered post payloads by slug and tracks view counters.
// Failures are reported to the caller, who treats them as cache misses.
type PostCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPostCache builds a cache over the shared Redis client. Returns nil when
// Redis is not configured; all methods tolerate a nil receiver.
func (r *Redis) NewPostCache(ttl time.Duration) *PostCache {
	if r == nil || r.Client == nil {
		return nil
	}
	return &PostCache{client: r.Client, ttl: ttl}
}

// GetPost returns the cached payload for a slug, or redis.Nil when absent.
func (c *PostCache) GetPost(ctx context.Context, slug string) ([]byte, error) {
	if c == nil {
		return nil, redis.Nil
	}
	return c.client.Get(ctx, postCacheKeyPrefix+slug).Bytes()
}

// SetPost caches the payload for a slug.
func (c *PostCache) SetPost(ctx context.Context, slug string, payload []byte) error {
	if c == nil {
		return nil
	}
	return c.client.Set(ctx, postCacheKeyPrefix+slug, payload, c.ttl).Err()
}

// InvalidatePost drops the cached payload for a slug.
func (c *PostCache) InvalidatePost(ctx context.Context, slug string) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, postCacheKeyPrefix+slug).Err()
}

// IncrementViews bumps and returns the view counter for a post.
func (c *PostCache) IncrementViews(ctx context.Context, postID string) (int64, error) {
	if c == nil {
		return 0, nil
	}
	return c.client.Incr(ctx, postViewsKeyPrefix+postID).Result()
}

// IsMiss reports whether the error is a cache miss rather than a failure.
func IsMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}
