package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

const keyPrefix = "salon:commission"

// RedisReportCache keeps reports in Redis. Every tenant has a generation
// counter that is part of the report key; invalidation bumps the counter so
// stale generations are never read again and age out through their TTL.
type RedisReportCache struct {
	client *redis.Client
}

// NewRedisReportCache connects a cache to the given Redis server
func NewRedisReportCache(addr string, password string, db int) *RedisReportCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisReportCache{client: client}
}

func (c *RedisReportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisReportCache) Close() error {
	return c.client.Close()
}

func generationKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:gen", keyPrefix, tenantID)
}

func reportKey(tenantID uuid.UUID, generation int64, period string) string {
	return fmt.Sprintf("%s:%s:%d:%s", keyPrefix, tenantID, generation, period)
}

func (c *RedisReportCache) generation(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(tenantID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisReportCache) Get(ctx context.Context, tenantID uuid.UUID, period string) ([]byte, bool, error) {
	gen, err := c.generation(ctx, tenantID)
	if err != nil {
		return nil, false, err
	}

	val, err := c.client.Get(ctx, reportKey(tenantID, gen, period)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisReportCache) Set(ctx context.Context, tenantID uuid.UUID, period string, payload []byte, ttl time.Duration) error {
	if payload == nil {
		return nil
	}
	gen, err := c.generation(ctx, tenantID)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, reportKey(tenantID, gen, period), payload, ttl).Err()
}

func (c *RedisReportCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	return c.client.Incr(ctx, generationKey(tenantID)).Err()
}
