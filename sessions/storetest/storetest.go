// Package storetest holds the behaviour every sessions.Store backend must share.
package storetest

import (
	"context"
	"sync"
	"testing"

	"github.com/jrsteele09/go-agri-dashboard/sessions"
	"github.com/jrsteele09/go-agri-dashboard/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises store. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) sessions.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		store := newStore(t)
		v, ok, err := store.Get(ctx, sessions.KeyAccessToken)
		require.NoError(t, err)
		require.False(t, ok)
		require.Empty(t, v)
	})

	t.Run("set get clear", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Set(ctx, sessions.KeyAccessToken, "a1"))
		require.NoError(t, store.Set(ctx, sessions.KeyTheme, "dark"))

		v, ok, err := store.Get(ctx, sessions.KeyAccessToken)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "a1", v)

		require.NoError(t, store.Clear(ctx, sessions.KeyAccessToken, sessions.KeyRefreshToken))
		_, ok, err = store.Get(ctx, sessions.KeyAccessToken)
		require.NoError(t, err)
		require.False(t, ok)

		theme, ok, err := store.Get(ctx, sessions.KeyTheme)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "dark", theme)
	})

	t.Run("last write wins", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Set(ctx, sessions.KeyRefreshToken, "r1"))
		require.NoError(t, store.Set(ctx, sessions.KeyRefreshToken, "r2"))
		v, _, err := store.Get(ctx, sessions.KeyRefreshToken)
		require.NoError(t, err)
		require.Equal(t, "r2", v)
	})

	t.Run("token helpers", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, sessions.SaveTokens(ctx, store, token.Pair{Access: "a1", Refresh: "r1"}))

		// A refresh response without a rotated token keeps the old one
		require.NoError(t, sessions.SaveTokens(ctx, store, token.Pair{Access: "a2"}))
		pair, err := sessions.LoadTokens(ctx, store)
		require.NoError(t, err)
		require.Equal(t, token.Pair{Access: "a2", Refresh: "r1"}, pair)

		require.NoError(t, sessions.ClearTokens(ctx, store))
		pair, err = sessions.LoadTokens(ctx, store)
		require.NoError(t, err)
		require.Equal(t, token.Pair{}, pair)
	})

	t.Run("concurrent writers", func(t *testing.T) {
		store := newStore(t)
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, store.Set(ctx, sessions.KeyAccessToken, "a"))
				_, _, err := store.Get(ctx, sessions.KeyAccessToken)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
	})
}
