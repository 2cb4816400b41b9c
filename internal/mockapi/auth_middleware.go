package mockapi

import (
	"context"
	"net/http"
	"strings"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyUserID stores the authenticated user ID
const ContextKeyUserID ContextKey = "user_id"

// RequireAuth validates the Bearer access token and stores the user ID in the
// request context. Failures answer 401 in the API's token_not_valid shape.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSON(w, http.StatusUnauthorized, detailBody("Authentication credentials were not provided."))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				writeJSON(w, http.StatusUnauthorized, tokenNotValidBody())
				return
			}

			userID, err := s.tokens.verify(parts[1])
			if err != nil {
				s.logger.Debug().Err(err).Msg("Rejected access token")
				writeJSON(w, http.StatusUnauthorized, tokenNotValidBody())
				return
			}
			if _, ok := s.users.byID(userID); !ok {
				writeJSON(w, http.StatusUnauthorized, detailBody("User not found"))
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, userID)
			next(w, r.WithContext(ctx))
		}
	}
}

func userIDFrom(r *http.Request) int {
	id, _ := r.Context().Value(ContextKeyUserID).(int)
	return id
}
