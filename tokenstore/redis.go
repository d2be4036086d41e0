// tokenstore/redis.go
package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "apiclient:tokens:"

// RedisStore keeps the tokens under two keys so several processes can share one session.
type RedisStore struct {
	rdb       redis.UniversalClient
	prefix    string
	accessTTL time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix namespaces the keys, e.g. per user. Defaults to "apiclient:tokens:".
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// WithAccessTokenTTL expires the stored access token after ttl. Zero keeps it forever.
func WithAccessTokenTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) { s.accessTTL = ttl }
}

// NewRedisStore returns a store using rdb.
func NewRedisStore(rdb redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{rdb: rdb, prefix: defaultRedisPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) accessKey() string  { return s.prefix + "access" }
func (s *RedisStore) refreshKey() string { return s.prefix + "refresh" }

func (s *RedisStore) AccessToken(ctx context.Context) (string, error) {
	return s.get(ctx, s.accessKey())
}

func (s *RedisStore) SetAccessToken(ctx context.Context, token string) error {
	return s.set(ctx, s.accessKey(), token, s.accessTTL)
}

func (s *RedisStore) RefreshToken(ctx context.Context) (string, error) {
	return s.get(ctx, s.refreshKey())
}

func (s *RedisStore) SetRefreshToken(ctx context.Context, token string) error {
	return s.set(ctx, s.refreshKey(), token, 0)
}

func (s *RedisStore) get(ctx context.Context, key string) (string, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// set deletes the key for an empty token so a cleared session reads back as missing.
func (s *RedisStore) set(ctx context.Context, key, token string, ttl time.Duration) error {
	var err error
	if token == "" {
		err = s.rdb.Del(ctx, key).Err()
	} else {
		err = s.rdb.Set(ctx, key, token, ttl).Err()
	}
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
