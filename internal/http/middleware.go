package httpserver

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const userIDKey contextKey = "userID"

// requireAuth resolves the bearer token to a user id and stores it in the
// request context. The identity travels with the request; there is no
// process-wide session state.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
		userID, err := s.tokens.Verify(token)
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

// userIDFrom returns the authenticated user id attached by requireAuth.
func userIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// viewerFrom extracts an optional viewer identity for public reads: the
// bearer token is honoured when present and valid, otherwise the request
// is treated as anonymous.
func (s *Server) viewerFrom(r *http.Request) *string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return nil
	}
	userID, err := s.tokens.Verify(strings.TrimSpace(strings.TrimPrefix(header, prefix)))
	if err != nil {
		return nil
	}
	return &userID
}
