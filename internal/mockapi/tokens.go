package mockapi

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const refreshTokenLength = 32

type accessClaims struct {
	jwtlib.RegisteredClaims
	TokenType  string `json:"token_type"`
	Generation int    `json:"gen"`
}

// tokenIssuer signs and verifies HS256 access tokens. Bumping the generation
// invalidates every token issued before it, which is how tests simulate
// expiry without waiting.
type tokenIssuer struct {
	secret []byte
	ttl    time.Duration

	lock       sync.RWMutex
	generation int
}

func newTokenIssuer(secret string, ttl time.Duration) *tokenIssuer {
	return &tokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (t *tokenIssuer) issue(userID int) (string, error) {
	t.lock.RLock()
	generation := t.generation
	t.lock.RUnlock()

	now := NowTimeFunc()
	claims := accessClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(t.ttl)),
			ID:        uuid.NewString(),
		},
		TokenType:  "access",
		Generation: generation,
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// verify returns the user ID of a valid, current access token
func (t *tokenIssuer) verify(raw string) (int, error) {
	claims := &accessClaims{}
	_, err := jwtlib.ParseWithClaims(raw, claims, func(*jwtlib.Token) (interface{}, error) {
		return t.secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}), jwtlib.WithTimeFunc(NowTimeFunc))
	if err != nil {
		return 0, err
	}

	t.lock.RLock()
	generation := t.generation
	t.lock.RUnlock()
	if claims.Generation != generation {
		return 0, fmt.Errorf("access token from generation %d has been expired", claims.Generation)
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return 0, fmt.Errorf("invalid subject %q", claims.Subject)
	}
	return userID, nil
}

func (t *tokenIssuer) expireAll() {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.generation++
}

type storedRefreshToken struct {
	userID int
	iat    time.Time
}

// refreshStore holds opaque refresh tokens
type refreshStore struct {
	ttl    time.Duration
	lock   sync.Mutex
	tokens map[string]storedRefreshToken
}

func newRefreshStore(ttl time.Duration) *refreshStore {
	return &refreshStore{ttl: ttl, tokens: make(map[string]storedRefreshToken)}
}

func (r *refreshStore) create(userID int) (string, error) {
	tokenBytes := make([]byte, refreshTokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	tokenStr := hex.EncodeToString(tokenBytes)

	r.lock.Lock()
	defer r.lock.Unlock()
	r.tokens[tokenStr] = storedRefreshToken{userID: userID, iat: NowTimeFunc()}
	return tokenStr, nil
}

// lookup returns the owner of a live refresh token
func (r *refreshStore) lookup(token string) (int, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	rt, ok := r.tokens[token]
	if !ok {
		return 0, false
	}
	if NowTimeFunc().Sub(rt.iat) > r.ttl {
		delete(r.tokens, token)
		return 0, false
	}
	return rt.userID, true
}

func (r *refreshStore) revoke(token string) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	_, ok := r.tokens[token]
	delete(r.tokens, token)
	return ok
}

func (r *refreshStore) revokeAll() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.tokens = make(map[string]storedRefreshToken)
}
