package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"store_opening_backend/internal/dashboard/transport"
	"store_opening_backend/internal/events"
	"store_opening_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyPrefix  = "dashboard:preparation"
	cacheVersionKey = cacheKeyPrefix + ":version"
)

// Cache stores computed statistics per filter. Lookup resolves the entry key
// for the current version so that Store never writes a result computed
// before an invalidation under the newer version.
type Cache interface {
	Lookup(ctx context.Context, filterKey string) (entryKey string, stats *transport.Statistics, err error)
	Store(ctx context.Context, entryKey string, stats transport.Statistics) error
	Invalidate(ctx context.Context) error
}

// RedisCache keeps statistics in Redis under versioned keys. Invalidate
// bumps the version; stale entries age out through their TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed statistics cache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

var _ Cache = (*RedisCache)(nil)

func (c *RedisCache) Lookup(ctx context.Context, filterKey string) (string, *transport.Statistics, error) {
	version, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", nil, fmt.Errorf("read dashboard cache version: %w", err)
	}
	entryKey := fmt.Sprintf("%s:v%d:%s", cacheKeyPrefix, version, filterKey)

	raw, err := c.client.Get(ctx, entryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return entryKey, nil, nil
	}
	if err != nil {
		return entryKey, nil, fmt.Errorf("read dashboard cache entry: %w", err)
	}

	var stats transport.Statistics
	if err := json.Unmarshal(raw, &stats); err != nil {
		return entryKey, nil, fmt.Errorf("decode dashboard cache entry: %w", err)
	}
	return entryKey, &stats, nil
}

func (c *RedisCache) Store(ctx context.Context, entryKey string, stats transport.Statistics) error {
	if entryKey == "" || c.ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode dashboard cache entry: %w", err)
	}
	if err := c.client.Set(ctx, entryKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("write dashboard cache entry: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, cacheVersionKey).Err(); err != nil {
		return fmt.Errorf("bump dashboard cache version: %w", err)
	}
	return nil
}

// invalidatingEvents are the project events that change dashboard figures.
var invalidatingEvents = []string{
	events.ProjectCreated{}.EventName(),
	events.ProjectUpdated{}.EventName(),
	events.ProjectStatusChanged{}.EventName(),
	events.ProjectCompleted{}.EventName(),
}

// SubscribeInvalidation drops cached statistics whenever a project changes.
func SubscribeInvalidation(bus events.Bus, cache Cache, log *logger.Logger) {
	if bus == nil || cache == nil {
		return
	}
	handler := events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		if err := cache.Invalidate(ctx); err != nil {
			return err
		}
		log.Debug("dashboard cache invalidated", "event", event.EventName())
		return nil
	})
	events.SubscribeMany(bus, handler, invalidatingEvents...)
}
