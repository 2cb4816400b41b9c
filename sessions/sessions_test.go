package sessions_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-agri-dashboard/sessions"
	"github.com/jrsteele09/go-agri-dashboard/sessions/memstore"
	"github.com/jrsteele09/go-agri-dashboard/users"
	"github.com/stretchr/testify/require"
)

func TestTheme(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	theme, err := sessions.LoadTheme(ctx, store)
	require.NoError(t, err)
	require.Equal(t, sessions.ThemeLight, theme)

	theme, err = sessions.ToggleTheme(ctx, store)
	require.NoError(t, err)
	require.Equal(t, sessions.ThemeDark, theme)
	require.Equal(t, "dark", store.Snapshot()[sessions.KeyTheme])

	theme, err = sessions.ToggleTheme(ctx, store)
	require.NoError(t, err)
	require.Equal(t, sessions.ThemeLight, theme)

	require.NoError(t, store.Set(ctx, sessions.KeyTheme, "solarized"))
	theme, err = sessions.LoadTheme(ctx, store)
	require.NoError(t, err)
	require.Equal(t, sessions.ThemeLight, theme)
}

func TestView(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	require.NoError(t, sessions.SaveView(ctx, store, "page=2&pageSize=25"))
	view, err := sessions.LoadView(ctx, store)
	require.NoError(t, err)
	require.Equal(t, "page=2&pageSize=25", view)

	require.NoError(t, sessions.SaveView(ctx, store, ""))
	_, ok, err := store.Get(ctx, sessions.KeyView)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSession_IsAuthenticated(t *testing.T) {
	var nilSession *sessions.Session
	require.False(t, nilSession.IsAuthenticated())
	require.False(t, (&sessions.Session{AccessToken: "a"}).IsAuthenticated())
	require.True(t, (&sessions.Session{AccessToken: "a", User: &users.Profile{ID: 1}}).IsAuthenticated())
}
