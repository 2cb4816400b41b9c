package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jrsteele09/go-agri-dashboard/sessions"
	"github.com/redis/go-redis/v9"
)

var _ sessions.Store = (*RedisStore)(nil)

// RedisStore keeps session values under "<prefix><key>". It lets several
// client processes (for example a fleet of report jobs) share one login.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

type Option func(*RedisStore)

// WithTTL expires every written value after ttl. Zero keeps values forever.
func WithTTL(ttl time.Duration) Option {
	return func(r *RedisStore) {
		r.ttl = ttl
	}
}

// New creates a Redis-backed store. Prefix may be empty.
func New(client *redis.Client, prefix string, options ...Option) *RedisStore {
	if prefix == "" {
		prefix = "agri:session:"
	}
	r := &RedisStore{client: client, prefix: prefix}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *RedisStore) key(k sessions.Key) string {
	return r.prefix + string(k)
}

func (r *RedisStore) Get(ctx context.Context, key sessions.Key) (string, bool, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("[RedisStore Get] %s: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key sessions.Key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("[RedisStore Set] %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context, keys ...sessions.Key) error {
	if len(keys) == 0 {
		return nil
	}
	redisKeys := make([]string, 0, len(keys))
	for _, k := range keys {
		redisKeys = append(redisKeys, r.key(k))
	}
	if err := r.client.Del(ctx, redisKeys...).Err(); err != nil {
		return fmt.Errorf("[RedisStore Clear] %w", err)
	}
	return nil
}
