package sessions

import (
	"context"

	"github.com/jrsteele09/go-agri-dashboard/users"
)

// Key identifies a single persisted client-side value
type Key string

const (
	KeyAccessToken  Key = "access_token"
	KeyRefreshToken Key = "refresh_token"
	KeyTheme        Key = "theme"
	// KeyView holds the last table query string, the CLI's address bar.
	KeyView Key = "view"
)

// Store is durable client-side storage for single string values.
// Writes are last-write-wins; no multi-key transaction is offered.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value stored under key and whether it was present
	Get(ctx context.Context, key Key) (string, bool, error)
	Set(ctx context.Context, key Key, value string) error
	// Clear removes the given keys. Missing keys are not an error.
	Clear(ctx context.Context, keys ...Key) error
}

// Session is the client's view of the signed-in user.
// User is never persisted; it is derived from the API at start up.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *users.Profile
}

// IsAuthenticated reports whether a user was resolved for this session
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.User != nil
}
