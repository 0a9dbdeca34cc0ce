package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Repository persists carts between requests, keyed by an opaque session id
// handed to the browser as a cookie.
type Repository interface {
	Create(ctx context.Context) (sessionID string, err error)
	Get(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, c *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

type redisRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisRepository stores each cart as a JSON value under its session id
// with a sliding TTL. An expired or unknown session yields a fresh empty
// cart rather than an error.
func NewRedisRepository(rdb *redis.Client, ttl time.Duration) (Repository, error) {
	if rdb == nil {
		return nil, errors.New("redis client must be non-nil")
	}
	return &redisRepository{rdb: rdb, ttl: ttl}, nil
}

func (r *redisRepository) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()
	if err := r.Save(ctx, id, &Cart{}); err != nil {
		return "", err
	}
	return id, nil
}

func (r *redisRepository) Get(ctx context.Context, sessionID string) (*Cart, error) {
	val, err := r.rdb.Get(ctx, cartKey(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return &Cart{}, nil
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	var c Cart
	if err := json.Unmarshal([]byte(val), &c); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &c, nil
}

func (r *redisRepository) Save(ctx context.Context, sessionID string, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := r.rdb.Set(ctx, cartKey(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store cart: %w", err)
	}
	return nil
}

func (r *redisRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.rdb.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}
