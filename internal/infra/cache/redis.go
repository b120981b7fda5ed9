// Package cache provides Redis-backed state storage and a read-through
// cache in front of the durable store.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MRamiBalles/PropertyIdle/internal/infra/storage"
	"github.com/gomodule/redigo/redis"
)

// ConnSource hands out connections. *redis.Pool satisfies it;
// tests supply a fake.
type ConnSource interface {
	GetContext(ctx context.Context) (redis.Conn, error)
}

// NewRedisPool builds a connection pool for a redis:// URL.
func NewRedisPool(url string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     3,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.DialURL(url)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

// RedisStore keeps state blobs as plain string keys.
type RedisStore struct {
	pool       ConnSource
	prefix     string
	expiration time.Duration // 0 keeps keys forever
}

// NewRedisStore creates a store whose keys live under prefix.
func NewRedisStore(pool ConnSource, prefix string) *RedisStore {
	return &RedisStore{pool: pool, prefix: prefix}
}

// WithExpiration sets a TTL on every written key.
func (s *RedisStore) WithExpiration(d time.Duration) *RedisStore {
	s.expiration = d
	return s
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer conn.Close()

	value, err := redis.String(conn.Do("GET", s.key(key)))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer conn.Close()

	args := redis.Args{}.Add(s.key(key), value)
	if s.expiration > 0 {
		args = args.Add("EX", int(s.expiration.Seconds()))
	}
	if _, err := conn.Do("SET", args...); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// Delete drops a key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer conn.Close()

	_, err = conn.Do("DEL", s.key(key))
	return err
}

// ReadThrough serves reads from the cache and falls back to the durable
// store. Writes go to the store first; the cache is never the source of truth.
type ReadThrough struct {
	primary storage.StateRepository
	cache   *RedisStore
}

// NewReadThrough wraps primary with a redis cache.
func NewReadThrough(primary storage.StateRepository, cache *RedisStore) *ReadThrough {
	return &ReadThrough{primary: primary, cache: cache}
}

func (r *ReadThrough) Get(ctx context.Context, key string) (string, error) {
	if v, err := r.cache.Get(ctx, key); err == nil {
		return v, nil
	}
	v, err := r.primary.Get(ctx, key)
	if err != nil {
		return "", err
	}
	// Warming the cache is best-effort.
	_ = r.cache.Set(ctx, key, v)
	return v, nil
}

func (r *ReadThrough) Set(ctx context.Context, key, value string) error {
	if err := r.primary.Set(ctx, key, value); err != nil {
		return err
	}
	if err := r.cache.Set(ctx, key, value); err != nil {
		// A stale entry must not outlive a failed refresh.
		_ = r.cache.Delete(ctx, key)
	}
	return nil
}

var (
	_ storage.StateRepository = (*RedisStore)(nil)
	_ storage.StateRepository = (*ReadThrough)(nil)
)
