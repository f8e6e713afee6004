package server

import (
	"net/http"

	"taskdeck/internal/service"
)

// Cookie names match the ancestor deployment so existing clients keep
// working across the migration.
const (
	accessCookieName  = "jwt"
	refreshCookieName = "refresh_token"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if !s.decodeJSONBody(w, r, &req) {
		return
	}

	user, err := s.auth.Register(r.Context(), req)
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusCreated, user)
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decodeJSONBody(w, r, &req) {
		return
	}

	pair, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.setSessionCookie(w, accessCookieName, pair.AccessToken, int(s.cfg.AccessTokenTTL.Seconds()))
	s.setSessionCookie(w, refreshCookieName, pair.RefreshToken, int(s.cfg.RefreshTokenTTL.Seconds()))
	s.respondWithJSON(w, http.StatusOK, map[string]string{"message": "Authentication successful"})
}

func (s *Server) refreshHandler(w http.ResponseWriter, r *http.Request) {
	var refreshToken string
	if c, err := r.Cookie(refreshCookieName); err == nil {
		refreshToken = c.Value
	}

	access, err := s.auth.Refresh(r.Context(), refreshToken)
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.setSessionCookie(w, accessCookieName, access, int(s.cfg.AccessTokenTTL.Seconds()))
	s.respondWithJSON(w, http.StatusOK, map[string]string{"message": "New access token generated"})
}

// logoutHandler revokes the access token and clears the session cookies.
// It does not require a live session: logging out with an expired token or
// no token at all still succeeds.
func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(accessCookieName); err == nil && c.Value != "" {
		if err := s.auth.Logout(r.Context(), c.Value); err != nil {
			s.respondWithServiceError(w, err)
			return
		}
	}

	s.clearSessionCookie(w, accessCookieName)
	s.clearSessionCookie(w, refreshCookieName)
	s.respondWithJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

func (s *Server) currentUserHandler(w http.ResponseWriter, r *http.Request) {
	user := principalFrom(r)
	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

// HTTP-only keeps the tokens out of reach of page scripts; the browser is
// the only carrier.
func (s *Server) setSessionCookie(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   s.cfg.CookieDomain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   s.cfg.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
