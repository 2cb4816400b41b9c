package mockapi

import (
	"time"
)

// ExpireAccessTokens invalidates every access token issued so far. The next
// authenticated call answers 401 and the client must refresh.
func (s *Server) ExpireAccessTokens() {
	s.tokens.expireAll()
}

// RevokeRefreshTokens invalidates every refresh token so refresh calls fail
func (s *Server) RevokeRefreshTokens() {
	s.refresh.revokeAll()
}

// Calls returns how many requests were served for a route path
func (s *Server) Calls(route string) int {
	s.hookLock.Lock()
	defer s.hookLock.Unlock()
	return s.calls[route]
}

func (s *Server) ResetCalls() {
	s.hookLock.Lock()
	defer s.hookLock.Unlock()
	s.calls = make(map[string]int)
}

// SetDelay holds every request to route for d before handling it
func (s *Server) SetDelay(route string, d time.Duration) {
	s.hookLock.Lock()
	defer s.hookLock.Unlock()
	if d <= 0 {
		delete(s.delays, route)
		return
	}
	s.delays[route] = d
}

func (s *Server) recordCall(route string) time.Duration {
	s.hookLock.Lock()
	defer s.hookLock.Unlock()
	s.calls[route]++
	return s.delays[route]
}
