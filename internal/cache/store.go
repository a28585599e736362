package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"campusmap/internal/middleware"
	"campusmap/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Store wraps an optional Redis client. A Store with a nil client misses on
// every read and drops every write.
type Store struct {
	client *redis.Client
}

// NewStore returns a Store over client, which may be nil.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Enabled reports whether a Redis client is configured.
func (s *Store) Enabled() bool {
	return s != nil && s.client != nil
}

// GetJSON reads key into dest. Returns (true, nil) on a hit and (false, nil)
// on a miss.
func (s *Store) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and stores it under key with ttl.
func (s *Store) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, ttl).Err()
}

// Aside serves dest from the cache, or calls fetch to populate dest and
// stores the result. Cache failures degrade to fetch.
func (s *Store) Aside(ctx context.Context, namespace, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := s.GetJSON(ctx, key, dest)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
	if found {
		observability.CacheLookups.WithLabelValues(namespace, "hit").Inc()
		return nil
	}
	observability.CacheLookups.WithLabelValues(namespace, "miss").Inc()

	if err := fetch(); err != nil {
		return err
	}

	if err := s.SetJSON(ctx, key, dest, ttl); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
	return nil
}

// Invalidate deletes keys, ignoring errors.
func (s *Store) Invalidate(ctx context.Context, keys ...string) {
	if !s.Enabled() || len(keys) == 0 {
		return
	}
	s.client.Del(ctx, keys...)
}

// RevokeToken blacklists a token ID until ttl elapses.
func (s *Store) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, RevokedTokenKey(jti), "1", ttl).Err()
}

// IsTokenRevoked reports whether jti was revoked. Lookup failures count as
// not revoked.
func (s *Store) IsTokenRevoked(ctx context.Context, jti string) bool {
	if !s.Enabled() || jti == "" {
		return false
	}
	n, err := s.client.Exists(ctx, RevokedTokenKey(jti)).Result()
	return err == nil && n > 0
}
