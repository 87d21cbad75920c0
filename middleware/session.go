// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/escrutinio/auth"
)

// SessionCookie is the cookie the console stores its token in
const SessionCookie = "token"

// Sessions resolves the caller's session from a bearer token or cookie
type Sessions struct {
	issuer       *auth.TokenIssuer
	secureCookie bool
}

func NewSessions(issuer *auth.TokenIssuer, secureCookie bool) *Sessions {
	return &Sessions{issuer: issuer, secureCookie: secureCookie}
}

// Issuer returns the token issuer used to verify sessions
func (s *Sessions) Issuer() *auth.TokenIssuer {
	return s.issuer
}

// tokenFromRequest prefers the Authorization header over the cookie
func tokenFromRequest(r *http.Request) (token string, fromCookie bool) {
	if h := r.Header.Get("Authorization"); h != "" {
		if rest, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(rest), false
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(c.Value), true
	}
	return "", false
}

// Authenticate verifies the request's token.
// hadCookie reports whether a (possibly stale) session cookie was sent.
func (s *Sessions) Authenticate(r *http.Request) (session auth.Session, hadCookie bool, err error) {
	token, fromCookie := tokenFromRequest(r)
	session, err = s.issuer.Verify(token)
	return session, fromCookie && token != "", err
}

// Require rejects requests without a valid session with 401.
// A stale cookie is expired so the console drops it.
func (s *Sessions) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, hadCookie, err := s.Authenticate(r)
		if err != nil {
			if hadCookie {
				s.ClearCookie(w)
			}
			slog.Debug("session rejected", "path", r.URL.Path, "error", err)
			ErrorResponse(w, http.StatusUnauthorized, "Valid session required")
			return
		}

		next(w, r.WithContext(auth.WithSession(r.Context(), session)))
	}
}

// ConsoleGate redirects console page requests according to auth.ConsoleRedirect
func (s *Sessions) ConsoleGate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, hadCookie, err := s.Authenticate(r)
		authenticated := err == nil
		if !authenticated && hadCookie {
			s.ClearCookie(w)
		}

		if target := auth.ConsoleRedirect(r.URL.Path, authenticated); target != "" {
			http.Redirect(w, r, target, http.StatusTemporaryRedirect)
			return
		}

		if authenticated {
			r = r.WithContext(auth.WithSession(r.Context(), session))
		}
		next(w, r)
	}
}

// SetCookie stores a freshly issued token on the client
func (s *Sessions) SetCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie
func (s *Sessions) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
