// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/escrutinio/auth"
	"github.com/danielhkuo/escrutinio/metrics"
	"github.com/danielhkuo/escrutinio/middleware"
	"github.com/danielhkuo/escrutinio/models"
	tu "github.com/danielhkuo/escrutinio/testutil"
)

func newTestAuthHandler(t *testing.T) (*AuthHandler, *metrics.Metrics) {
	t.Helper()
	conn := tu.SetupTestDB(t)
	cfg := tu.GetTestConfig()
	m := metrics.New()
	sessions := middleware.NewSessions(tu.NewTestIssuer(cfg), false)
	return NewAuthHandler(conn, sessions, m), m
}

func TestSignup(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	tests := []struct {
		name           string
		body           any
		expectedStatus int
	}{
		{"valid", models.SignupRequest{Email: "  Admin@Example.com ", Password: "longenough"}, http.StatusCreated},
		{"duplicate email", models.SignupRequest{Email: "admin@example.com", Password: "longenough"}, http.StatusConflict},
		{"bad email", models.SignupRequest{Email: "not-an-email", Password: "longenough"}, http.StatusBadRequest},
		{"short password", models.SignupRequest{Email: "other@example.com", Password: "short"}, http.StatusBadRequest},
		{"unknown field", map[string]string{"email": "x@example.com", "password": "longenough", "role": "root"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Signup(w, tu.MakeRequest("POST", "/auth/signup", tt.body, nil))
			tu.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var resp models.SignupResponse
				tu.AssertJSON(t, w, &resp)
				assert.Equal(t, "admin@example.com", resp.Email)
				assert.NotEmpty(t, resp.UserID)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	h, m := newTestAuthHandler(t)
	userID := tu.CreateTestUser(t, h.db, "admin@example.com")

	t.Run("valid credentials", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Login(w, tu.MakeRequest("POST", "/auth/login", models.LoginRequest{
			Email:    "ADMIN@example.com",
			Password: tu.TestPassword,
		}, nil))
		tu.AssertStatus(t, w, http.StatusOK)

		var resp models.LoginResponse
		tu.AssertJSON(t, w, &resp)
		require.NotEmpty(t, resp.Token)

		session, err := h.sessions.Issuer().Verify(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, userID, session.UserID)
		assert.Equal(t, "admin@example.com", session.Email)

		var cookie *http.Cookie
		for _, c := range w.Result().Cookies() {
			if c.Name == middleware.SessionCookie {
				cookie = c
			}
		}
		require.NotNil(t, cookie, "session cookie should be set")
		assert.Equal(t, resp.Token, cookie.Value)
		assert.True(t, cookie.HttpOnly)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Login(w, tu.MakeRequest("POST", "/auth/login", models.LoginRequest{
			Email:    "admin@example.com",
			Password: "wrong-password",
		}, nil))
		tu.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Login(w, tu.MakeRequest("POST", "/auth/login", models.LoginRequest{
			Email:    "nobody@example.com",
			Password: tu.TestPassword,
		}, nil))
		tu.AssertStatus(t, w, http.StatusUnauthorized)
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues(LoginSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues(LoginFailure)))
}

func TestLogout(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	w := httptest.NewRecorder()
	h.Logout(w, tu.MakeRequest("POST", "/auth/logout", nil, nil))
	tu.AssertStatus(t, w, http.StatusNoContent)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestMe(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	t.Run("with session", func(t *testing.T) {
		req := tu.MakeRequest("GET", "/auth/me", nil, nil)
		req = req.WithContext(auth.WithSession(req.Context(), auth.Session{UserID: "u1", Email: "admin@example.com"}))
		w := httptest.NewRecorder()
		h.Me(w, req)
		tu.AssertStatus(t, w, http.StatusOK)

		var resp models.MeResponse
		tu.AssertJSON(t, w, &resp)
		assert.Equal(t, "u1", resp.UserID)
		assert.Equal(t, "admin@example.com", resp.Email)
	})

	t.Run("without session", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Me(w, tu.MakeRequest("GET", "/auth/me", nil, nil))
		tu.AssertStatus(t, w, http.StatusUnauthorized)
	})
}

func TestConsolePages(t *testing.T) {
	h := NewConsoleHandler()

	t.Run("dashboard", func(t *testing.T) {
		req := tu.MakeRequest("GET", "/dashboard", nil, nil)
		req = req.WithContext(auth.WithSession(req.Context(), auth.Session{UserID: "u1", Email: "jorge@example.com"}))
		w := httptest.NewRecorder()
		h.Dashboard(w, req)
		tu.AssertStatus(t, w, http.StatusOK)

		var resp models.DashboardResponse
		tu.AssertJSON(t, w, &resp)
		assert.Equal(t, "jorge", resp.Username)
		require.Len(t, resp.Sections, 3)
		assert.Equal(t, "/dashboard/elecciones", resp.Sections[0].Href)
	})

	t.Run("login page", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.LoginPage(w, tu.MakeRequest("GET", "/auth/login", nil, nil))
		tu.AssertStatus(t, w, http.StatusOK)

		var resp models.ConsolePageResponse
		tu.AssertJSON(t, w, &resp)
		assert.Equal(t, "/auth/login", resp.Action)
	})

	t.Run("signup page", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.SignupPage(w, tu.MakeRequest("GET", "/auth/registro", nil, nil))

		var resp models.ConsolePageResponse
		tu.AssertJSON(t, w, &resp)
		assert.Equal(t, "/auth/signup", resp.Action)
	})
}
