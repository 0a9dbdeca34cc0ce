package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"storefront/internal/checkout"
)

// SessionCache remembers who is browsing across page loads: display name,
// email and the manager flag. It is continuity state only and is never
// used as a security boundary.
type SessionCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionCache(rdb *redis.Client, ttl time.Duration) (*SessionCache, error) {
	if rdb == nil {
		return nil, errors.New("redis client must be non-nil")
	}
	return &SessionCache{rdb: rdb, ttl: ttl}, nil
}

// Put stores the identity under a fresh session id and returns the id.
func (s *SessionCache) Put(ctx context.Context, identity checkout.Identity) (string, error) {
	id := uuid.NewString()
	data, err := json.Marshal(identity)
	if err != nil {
		return "", fmt.Errorf("failed to encode identity: %w", err)
	}
	if err := s.rdb.Set(ctx, sessionKey(id), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return id, nil
}

// Get returns the identity for a session id, or ok=false when the session
// is unknown or expired.
func (s *SessionCache) Get(ctx context.Context, id string) (checkout.Identity, bool, error) {
	val, err := s.rdb.Get(ctx, sessionKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return checkout.Identity{}, false, nil
		}
		return checkout.Identity{}, false, fmt.Errorf("failed to load session: %w", err)
	}
	var identity checkout.Identity
	if err := json.Unmarshal([]byte(val), &identity); err != nil {
		return checkout.Identity{}, false, fmt.Errorf("failed to decode session: %w", err)
	}
	return identity, true, nil
}

// Drop forgets a session on logout.
func (s *SessionCache) Drop(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return "session:" + id
}
