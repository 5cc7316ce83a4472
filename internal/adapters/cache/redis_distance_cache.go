package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"trip-itinerary-service/internal/ports"
)

const redisKeyPrefix = "distance:"

// RedisDistanceCache is the shared-across-instances tier of the distance
// cache. Same key contract as the SQL caches; entries expire after ttl so
// stale travel estimates age out on their own.
type RedisDistanceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDistanceCache(rdb *redis.Client, ttl time.Duration) *RedisDistanceCache {
	return &RedisDistanceCache{rdb: rdb, ttl: ttl}
}

func redisKey(origin, dest string) string {
	return redisKeyPrefix + origin + "|" + dest
}

// Fetch cached results for one origin key and multiple destination keys.
func (c *RedisDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (map[string]ports.DistanceResult, error) {
	if c.rdb == nil {
		return nil, errors.New("distance cache: redis client is nil")
	}

	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	if len(destinations) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(destinations))
	keys := make([]string, 0, len(destinations))
	for _, d := range destinations {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}

		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		uniq = append(uniq, d)
		keys = append(keys, redisKey(origin, d))
	}

	if len(uniq) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get distance cache: mget: %w", err)
	}

	out := make(map[string]ports.DistanceResult, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue // miss
		}

		var meters, seconds int
		if _, err := fmt.Sscanf(s, "%d|%d", &meters, &seconds); err != nil {
			continue // treat a corrupt entry as a miss; the write path overwrites it
		}
		out[uniq[i]] = ports.DistanceResult{
			DistanceMeters:  meters,
			DurationSeconds: seconds,
		}
	}

	return out, nil
}

// Store many results for a single origin key.
func (c *RedisDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) error {
	if c.rdb == nil {
		return errors.New("distance cache: redis client is nil")
	}

	if origin == "" {
		return errors.New("insert distance cache: origin must not be empty")
	}

	if len(results) == 0 {
		return nil
	}

	pipe := c.rdb.Pipeline()
	for dest, r := range results {
		if strings.TrimSpace(dest) == "" {
			return fmt.Errorf("insert distance cache: empty destination key")
		}

		val := fmt.Sprintf("%d|%d", r.DistanceMeters, r.DurationSeconds)
		pipe.Set(ctx, redisKey(origin, dest), val, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert distance cache: pipeline exec: %w", err)
	}

	return nil
}
