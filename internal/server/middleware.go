package server

import (
	"context"
	"net/http"
	"strings"

	"taskdeck/internal/domain"
)

type contextKey string

const principalKey contextKey = "principal"

// requireAuth authenticates the request's access token and stores the
// resolved principal in the request context. Requests without a valid,
// unrevoked token never reach the wrapped handler.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.auth.Authenticate(r.Context(), accessTokenFrom(r))
		if err != nil {
			s.respondWithServiceError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// principalFrom returns the authenticated user placed by requireAuth.
func principalFrom(r *http.Request) *domain.User {
	user, _ := r.Context().Value(principalKey).(*domain.User)
	return user
}

// accessTokenFrom reads the access token from the session cookie, falling
// back to a bearer Authorization header for non-browser clients.
func accessTokenFrom(r *http.Request) string {
	if c, err := r.Cookie(accessCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
