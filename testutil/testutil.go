// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package testutil holds shared fixtures for handler and router tests.
package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/escrutinio/auth"
	"github.com/danielhkuo/escrutinio/cliparse"
	"github.com/danielhkuo/escrutinio/db"
)

// TestSessionSecret is long enough to pass config validation
const TestSessionSecret = "test-session-secret-0123456789abcdef"

// TestPassword is the password of users made by CreateTestUser
const TestPassword = "correct-horse-battery"

// SetupTestDB opens a private in-memory SQLite database with the full schema.
// It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(cliparse.DatabaseSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:               3318,
		DatabaseURL:        ":memory:",
		DatabaseType:       cliparse.DatabaseSQLite,
		SessionSecret:      TestSessionSecret,
		SessionTTL:         time.Hour,
		LoginRatePerMinute: 5,
		LogLevel:           "error",
		LogFormat:          "text",
	}
}

// NewTestIssuer returns a token issuer for cfg using the real clock
func NewTestIssuer(cfg cliparse.Config) *auth.TokenIssuer {
	return auth.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL, nil)
}

// CreateTestUser inserts a user with TestPassword and returns its ID
func CreateTestUser(t *testing.T, conn *sql.DB, email string) string {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	userID, _ := auth.GenerateID(16)
	_, err = conn.Exec(`
		INSERT INTO app_user (id, email, password_hash)
		VALUES ($1, $2, $3)
	`, userID, email, hash)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return userID
}

// SessionHeaders returns an Authorization header for a fresh session
func SessionHeaders(t *testing.T, issuer *auth.TokenIssuer, userID, email string) map[string]string {
	t.Helper()

	token, _, err := issuer.Issue(userID, email)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// CreateTestParty inserts a party and returns its ID
func CreateTestParty(t *testing.T, conn *sql.DB, name, abbreviation string) string {
	t.Helper()

	partyID, _ := auth.GenerateID(12)
	_, err := conn.Exec(`
		INSERT INTO party (id, name, abbreviation)
		VALUES ($1, $2, $3)
	`, partyID, name, abbreviation)
	if err != nil {
		t.Fatalf("Failed to create test party: %v", err)
	}

	return partyID
}

// CreateTestElection inserts a D'Hondt election and returns its ID
func CreateTestElection(t *testing.T, conn *sql.DB, name string, seats int) string {
	t.Helper()

	electionID, _ := auth.GenerateID(12)
	_, err := conn.Exec(`
		INSERT INTO election (id, name, kind, starts_on, ends_on, seats, formula_id)
		VALUES ($1, $2, 'general', '2025-06-01', '2025-06-01', $3, $4)
	`, electionID, name, seats, db.FormulaDHondt)
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return electionID
}

// SetTestVotes stores a party's tally for an election
func SetTestVotes(t *testing.T, conn *sql.DB, electionID, partyID string, votes int64) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO vote_record (election_id, party_id, votes)
		VALUES ($1, $2, $3)
		ON CONFLICT (election_id, party_id) DO UPDATE SET votes = excluded.votes
	`, electionID, partyID, votes)
	if err != nil {
		t.Fatalf("Failed to set test votes: %v", err)
	}
}

// MakeRequest creates an HTTP test request with a JSON body
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
