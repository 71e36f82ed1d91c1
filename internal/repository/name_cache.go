package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const managerNameKeyPrefix = "leave:manager_fname:"

// NameCache caches display names by staff id.
type NameCache interface {
	Get(ctx context.Context, staffID int64) (string, bool, error)
	Set(ctx context.Context, staffID int64, name string) error
}

type redisNameCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisNameCache returns a Redis-backed cache. A nil client yields a cache that never hits.
func NewRedisNameCache(client *redis.Client, ttl time.Duration) NameCache {
	if client == nil || ttl <= 0 {
		return noopNameCache{}
	}
	return &redisNameCache{client: client, ttl: ttl}
}

func (c *redisNameCache) Get(ctx context.Context, staffID int64) (string, bool, error) {
	val, err := c.client.Get(ctx, managerNameKey(staffID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *redisNameCache) Set(ctx context.Context, staffID int64, name string) error {
	return c.client.Set(ctx, managerNameKey(staffID), name, c.ttl).Err()
}

func managerNameKey(staffID int64) string {
	return managerNameKeyPrefix + strconv.FormatInt(staffID, 10)
}

type noopNameCache struct{}

func (noopNameCache) Get(context.Context, int64) (string, bool, error) { return "", false, nil }
func (noopNameCache) Set(context.Context, int64, string) error         { return nil }
