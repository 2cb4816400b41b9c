package token

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// BearerType is the Authorization scheme used for every API call
const BearerType = "Bearer"

// Pair is the access/refresh token pair returned by the login and refresh endpoints.
// The refresh endpoint may omit Refresh when the server does not rotate it.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// OAuth2 converts an access token into an oauth2.Token so that callers can use
// SetAuthHeader. The expiry is read from the JWT exp claim when present.
func OAuth2(access string) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken: access,
		TokenType:   BearerType,
	}
	if exp, ok := Expiry(access); ok {
		tok.Expiry = exp
	}
	return tok
}

// Expiry reads the exp claim of a JWT without verifying its signature.
// The client never holds the signing key; the expiry is informational only.
func Expiry(raw string) (time.Time, bool) {
	claims, ok := Claims(raw)
	if !ok || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Claims parses the registered claims of a JWT without verifying it
func Claims(raw string) (*jwtlib.RegisteredClaims, bool) {
	if raw == "" {
		return nil, false
	}
	claims := &jwtlib.RegisteredClaims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, false
	}
	return claims, true
}
