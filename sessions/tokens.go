package sessions

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-agri-dashboard/token"
)

// LoadTokens reads the stored token pair. Missing tokens are returned empty.
func LoadTokens(ctx context.Context, store Store) (token.Pair, error) {
	access, _, err := store.Get(ctx, KeyAccessToken)
	if err != nil {
		return token.Pair{}, fmt.Errorf("[LoadTokens] access token: %w", err)
	}
	refresh, _, err := store.Get(ctx, KeyRefreshToken)
	if err != nil {
		return token.Pair{}, fmt.Errorf("[LoadTokens] refresh token: %w", err)
	}
	return token.Pair{Access: access, Refresh: refresh}, nil
}

// SaveTokens writes the access token and, when present, the refresh token.
// The two writes are independent; a failure between them is not rolled back.
func SaveTokens(ctx context.Context, store Store, pair token.Pair) error {
	if err := store.Set(ctx, KeyAccessToken, pair.Access); err != nil {
		return fmt.Errorf("[SaveTokens] access token: %w", err)
	}
	if pair.Refresh == "" {
		return nil
	}
	if err := store.Set(ctx, KeyRefreshToken, pair.Refresh); err != nil {
		return fmt.Errorf("[SaveTokens] refresh token: %w", err)
	}
	return nil
}

// ClearTokens removes both stored tokens
func ClearTokens(ctx context.Context, store Store) error {
	return store.Clear(ctx, KeyAccessToken, KeyRefreshToken)
}

// LoadView returns the persisted table query string
func LoadView(ctx context.Context, store Store) (string, error) {
	view, _, err := store.Get(ctx, KeyView)
	return view, err
}

// SaveView persists the table query string
func SaveView(ctx context.Context, store Store, query string) error {
	if query == "" {
		return store.Clear(ctx, KeyView)
	}
	return store.Set(ctx, KeyView, query)
}
