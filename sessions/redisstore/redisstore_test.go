package redisstore_test

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/go-agri-dashboard/sessions"
	"github.com/jrsteele09/go-agri-dashboard/sessions/redisstore"
	"github.com/jrsteele09/go-agri-dashboard/sessions/storetest"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*mr.Miniredis, *redis.Client) {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { client.Close() })
	return m, client
}

func TestRedisStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) sessions.Store {
		_, client := newClient(t)
		return redisstore.New(client, "test:session:")
	})
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	m, client := newClient(t)
	store := redisstore.New(client, "")

	require.NoError(t, store.Set(context.Background(), sessions.KeyAccessToken, "a1"))
	v, err := m.Get("agri:session:access_token")
	require.NoError(t, err)
	require.Equal(t, "a1", v)
}

func TestRedisStore_TTL(t *testing.T) {
	m, client := newClient(t)
	store := redisstore.New(client, "test:", redisstore.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, sessions.KeyRefreshToken, "r1"))
	m.FastForward(2 * time.Minute)

	_, ok, err := store.Get(ctx, sessions.KeyRefreshToken)
	require.NoError(t, err)
	require.False(t, ok)
}
