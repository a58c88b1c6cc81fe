package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/echo-cqy/codeling/pkg/logger"
)

var Redis *redis.Client
var Ctx = context.Background()

// InitRedis connects the optional Redis client used for rate limiting and the
// question-catalog response cache. A missing Redis just degrades those
// features; nothing in the sync path depends on it.
func InitRedis(addr, password string) {
	if addr == "" {
		logger.Info().Msg("REDIS_ADDR not set, rate limiting falls back to in-process limiter")
		return
	}

	Redis = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if _, err := Redis.Ping(Ctx).Result(); err != nil {
		logger.Warn().Err(err).Msg("Failed to connect to Redis, caching and distributed rate limiting disabled")
		Redis = nil
		return
	}
	logger.Info().Msg("Connected to Redis")
}

// CheckRateLimit increments the per-client counter and reports whether the
// client is still under limit within the window.
func CheckRateLimit(clientID string, limit int, window time.Duration) (bool, error) {
	if Redis == nil {
		return true, nil
	}
	key := fmt.Sprintf("rate_limit:%s", clientID)
	count, err := Redis.Incr(Ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		Redis.Expire(Ctx, key, window)
	}
	return count <= int64(limit), nil
}

// CacheSet stores a JSON-serialized value with a TTL.
func CacheSet(key string, value interface{}, expiration time.Duration) error {
	if Redis == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return Redis.Set(Ctx, key, data, expiration).Err()
}

// CacheGet loads a cached value into dest. Returns redis.Nil on a miss.
func CacheGet(key string, dest interface{}) error {
	if Redis == nil {
		return redis.Nil
	}
	val, err := Redis.Get(Ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// CacheInvalidate deletes every key matching the pattern.
func CacheInvalidate(pattern string) error {
	if Redis == nil {
		return nil
	}
	keys, err := Redis.Keys(Ctx, pattern).Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return Redis.Del(Ctx, keys...).Err()
	}
	return nil
}
