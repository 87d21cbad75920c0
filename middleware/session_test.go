// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/escrutinio/auth"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestSessions(t *testing.T) (*Sessions, *clockwork.FakeClock, string) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	issuer := auth.NewTokenIssuer(testSecret, time.Hour, clock)
	token, _, err := issuer.Issue("user-1", "admin@example.com")
	require.NoError(t, err)
	return NewSessions(issuer, false), clock, token
}

func sessionEcho() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := auth.SessionFrom(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.Write([]byte(s.UserID))
	}
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRequire(t *testing.T) {
	sessions, clock, token := newTestSessions(t)
	handler := sessions.Require(sessionEcho())

	t.Run("bearer token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/elections", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-1", w.Body.String())
	})

	t.Run("cookie token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/elections", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/elections", nil)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Nil(t, findCookie(w.Result(), SessionCookie), "no cookie to clear")
	})

	t.Run("expired cookie is cleared", func(t *testing.T) {
		clock.Advance(2 * time.Hour)

		req := httptest.NewRequest("GET", "/elections", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		c := findCookie(w.Result(), SessionCookie)
		require.NotNil(t, c)
		assert.Less(t, c.MaxAge, 0)
	})
}

func TestConsoleGate(t *testing.T) {
	sessions, _, token := newTestSessions(t)
	handler := sessions.ConsoleGate(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("page"))
	})

	testCases := []struct {
		name     string
		path     string
		token    string
		status   int
		location string
	}{
		{"root anonymous", "/", "", http.StatusTemporaryRedirect, "/dashboard"},
		{"root signed in", "/", token, http.StatusTemporaryRedirect, "/dashboard"},
		{"dashboard anonymous", "/dashboard", "", http.StatusTemporaryRedirect, "/auth/login"},
		{"dashboard signed in", "/dashboard", token, http.StatusOK, ""},
		{"login anonymous", "/auth/login", "", http.StatusOK, ""},
		{"login signed in", "/auth/login", token, http.StatusTemporaryRedirect, "/dashboard"},
		{"signup signed in", "/auth/registro", token, http.StatusTemporaryRedirect, "/dashboard"},
		{"garbage cookie", "/dashboard", "garbage", http.StatusTemporaryRedirect, "/auth/login"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, nil)
			if tc.token != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tc.token})
			}
			w := httptest.NewRecorder()
			handler(w, req)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.location, w.Header().Get("Location"))
		})
	}
}

func TestSetCookie(t *testing.T) {
	issuer := auth.NewTokenIssuer(testSecret, time.Hour, nil)
	sessions := NewSessions(issuer, true)

	w := httptest.NewRecorder()
	expires := time.Now().Add(time.Hour)
	sessions.SetCookie(w, "tok", expires)

	c := findCookie(w.Result(), SessionCookie)
	require.NotNil(t, c)
	assert.Equal(t, "tok", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, "/", c.Path)
}
