// Package redis implements the Redis-backed leaderboard cache.
// Caching is purely an optimization: every cached value derives from the
// event set, so the cache is wrapped in a circuit breaker and any failure
// degrades reads to direct computation instead of failing the request.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kudos-hub/kudos-engine/internal/domain/leaderboard"
	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
	"github.com/kudos-hub/kudos-engine/pkg/circuitbreaker"
)

// leaderboardKey holds the serialized tri-dimension leaderboards.
const leaderboardKey = "kudos:leaderboard:v1"

// DefaultTTL bounds staleness when invalidation is missed.
const DefaultTTL = 5 * time.Minute

// LeaderboardCache implements leaderboard.Cache on Redis.
type LeaderboardCache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *circuitbreaker.Breaker
}

// NewLeaderboardCache creates a cache with the given TTL (0 = DefaultTTL).
func NewLeaderboardCache(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &LeaderboardCache{
		client:  client,
		ttl:     ttl,
		breaker: circuitbreaker.New(circuitbreaker.DefaultConfig("leaderboard_cache")),
	}
}

// Get implements leaderboard.Cache.
func (c *LeaderboardCache) Get(ctx context.Context) (*leaderboard.Leaderboards, error) {
	var boards leaderboard.Leaderboards

	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		data, err := c.client.Get(ctx, leaderboardKey).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// A miss is not a cache failure; don't trip the breaker.
				return nil
			}
			return err
		}
		if len(data) == 0 {
			return nil
		}
		return json.Unmarshal(data, &boards)
	})
	if err != nil {
		return nil, shared.WrapError("redis", "Get", shared.ErrServiceUnavailable, "leaderboard cache read failed", err)
	}

	if boards.GeneratedAt.IsZero() {
		return nil, shared.NewDomainError("redis", "Get", shared.ErrNotFound, "leaderboard cache miss")
	}
	return &boards, nil
}

// Set implements leaderboard.Cache.
func (c *LeaderboardCache) Set(ctx context.Context, boards *leaderboard.Leaderboards) error {
	data, err := json.Marshal(boards)
	if err != nil {
		return shared.WrapError("redis", "Set", shared.ErrInvalidInput, "leaderboard marshal failed", err)
	}

	err = c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.client.Set(ctx, leaderboardKey, data, c.ttl).Err()
	})
	if err != nil {
		return shared.WrapError("redis", "Set", shared.ErrServiceUnavailable, "leaderboard cache write failed", err)
	}
	return nil
}

// Invalidate implements leaderboard.Cache.
func (c *LeaderboardCache) Invalidate(ctx context.Context) error {
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.client.Del(ctx, leaderboardKey).Err()
	})
	if err != nil {
		return shared.WrapError("redis", "Invalidate", shared.ErrServiceUnavailable, "leaderboard cache delete failed", err)
	}
	return nil
}

// NewClient creates a Redis client from a URL and verifies connectivity.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, shared.WrapError("redis", "NewClient", shared.ErrInvalidInput, "invalid Redis URL", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, shared.WrapError("redis", "NewClient", shared.ErrServiceUnavailable, "Redis ping failed", err)
	}
	return client, nil
}
