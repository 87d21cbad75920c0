// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/danielhkuo/escrutinio/auth"
	"github.com/danielhkuo/escrutinio/db"
	"github.com/danielhkuo/escrutinio/metrics"
	"github.com/danielhkuo/escrutinio/middleware"
	"github.com/danielhkuo/escrutinio/models"
)

// Login outcomes recorded in metrics
const (
	LoginSuccess   = "success"
	LoginFailure   = "failure"
	LoginThrottled = "throttled"
)

type AuthHandler struct {
	db       *sql.DB
	sessions *middleware.Sessions
	metrics  *metrics.Metrics
}

func NewAuthHandler(db *sql.DB, sessions *middleware.Sessions, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{db: db, sessions: sessions, metrics: m}
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email, err := auth.NormalizeEmail(req.Email)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "A valid email is required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if errors.Is(err, auth.ErrWeakPassword) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Password must be 8 to 72 characters")
		return
	}
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	userID := uuid.NewString()
	_, err = h.db.Exec(`
		INSERT INTO app_user (id, email, password_hash)
		VALUES ($1, $2, $3)
	`, userID, email, hash)
	if db.IsUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "Email already registered")
		return
	}
	if err != nil {
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	slog.Info("user registered", "user_id", userID)

	middleware.JSONResponse(w, http.StatusCreated, models.SignupResponse{
		UserID: userID,
		Email:  email,
	})
}

// Login handles POST /auth/login
// Unknown emails and wrong passwords get the same 401.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email, err := auth.NormalizeEmail(req.Email)
	if err != nil {
		h.rejectLogin(w)
		return
	}

	var userID, hash string
	err = h.db.QueryRow(`
		SELECT id, password_hash FROM app_user WHERE email = $1
	`, email).Scan(&userID, &hash)
	if err == sql.ErrNoRows {
		h.rejectLogin(w)
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.CheckPassword(hash, req.Password); err != nil {
		h.rejectLogin(w)
		return
	}

	token, expiresAt, err := h.sessions.Issuer().Issue(userID, email)
	if err != nil {
		slog.Error("failed to issue session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	h.sessions.SetCookie(w, token, expiresAt)
	h.metrics.ObserveLogin(LoginSuccess)
	slog.Info("user signed in", "user_id", userID)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

func (h *AuthHandler) rejectLogin(w http.ResponseWriter) {
	h.metrics.ObserveLogin(LoginFailure)
	middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid email or password")
}

// Logout handles POST /auth/logout
// Tokens are stateless; logging out only drops the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	middleware.NoContent(w)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Valid session required")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MeResponse{
		UserID:    session.UserID,
		Email:     session.Email,
		ExpiresAt: session.ExpiresAt,
	})
}
