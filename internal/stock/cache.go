package stock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	lowStockKey = "stock:low"
	pendingKey  = "stock:pending"
)

// Cache is the manager console's client-local state: the low-stock
// snapshot and the pending supplier orders, both surviving page loads. It
// is a cache, never a source of truth; Reconcile defines the only merge
// rule against the server.
type Cache interface {
	LowStock(ctx context.Context) ([]Item, error)
	SaveLowStock(ctx context.Context, items []Item) error
	Pending(ctx context.Context) ([]Item, error)
	SavePending(ctx context.Context, items []Item) error
	Clear(ctx context.Context) error
}

type redisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) (Cache, error) {
	if rdb == nil {
		return nil, errors.New("redis client must be non-nil")
	}
	return &redisCache{rdb: rdb}, nil
}

func (c *redisCache) LowStock(ctx context.Context) ([]Item, error) {
	return c.load(ctx, lowStockKey)
}

func (c *redisCache) SaveLowStock(ctx context.Context, items []Item) error {
	return c.save(ctx, lowStockKey, items)
}

func (c *redisCache) Pending(ctx context.Context) ([]Item, error) {
	return c.load(ctx, pendingKey)
}

func (c *redisCache) SavePending(ctx context.Context, items []Item) error {
	return c.save(ctx, pendingKey, items)
}

func (c *redisCache) Clear(ctx context.Context) error {
	if err := c.rdb.Del(ctx, lowStockKey, pendingKey).Err(); err != nil {
		return fmt.Errorf("failed to clear stock cache: %w", err)
	}
	return nil
}

func (c *redisCache) load(ctx context.Context, key string) ([]Item, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	var items []Item
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return items, nil
}

func (c *redisCache) save(ctx context.Context, key string, items []Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}
