// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/jonboulle/clockwork"

	"github.com/danielhkuo/escrutinio/auth"
	"github.com/danielhkuo/escrutinio/cliparse"
	"github.com/danielhkuo/escrutinio/handlers"
	"github.com/danielhkuo/escrutinio/metrics"
	"github.com/danielhkuo/escrutinio/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	return NewRouterWithClock(db, cfg, clockwork.NewRealClock())
}

// NewRouterWithClock builds the mux with an injected clock for session
// expiry and login throttling.
func NewRouterWithClock(db *sql.DB, cfg cliparse.Config, clock clockwork.Clock) *http.ServeMux {
	mux := http.NewServeMux()
	m := metrics.New()

	issuer := auth.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL, clock)
	sessions := middleware.NewSessions(issuer, cfg.CookieSecure)

	loginLimiter := middleware.NewIPRateLimiter(cfg.LoginRatePerMinute, clock)
	loginLimiter.TrustProxy = cfg.TrustProxy
	loginLimiter.OnDeny = func(*http.Request) { m.ObserveLogin(handlers.LoginThrottled) }

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, sessions, m)
	consoleHandler := handlers.NewConsoleHandler()
	formulaHandler := handlers.NewFormulaHandler(db)
	partyHandler := handlers.NewPartyHandler(db)
	candidateHandler := handlers.NewCandidateHandler(db)
	electionHandler := handlers.NewElectionHandler(db)
	voteHandler := handlers.NewVoteHandler(db)
	resultsHandler := handlers.NewResultsHandler(db, m)

	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(m.Instrument(pattern, h)))
	}
	protect := sessions.Require

	// Operational
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", m.Handler())

	// Accounts and sessions
	handle("POST /auth/signup", authHandler.Signup)
	handle("POST /auth/login", loginLimiter.Limit(authHandler.Login))
	handle("POST /auth/logout", authHandler.Logout)
	handle("GET /auth/me", protect(authHandler.Me))

	// Console pages (redirects decided by the gate)
	handle("GET /{$}", sessions.ConsoleGate(consoleHandler.Dashboard))
	handle("GET /dashboard", sessions.ConsoleGate(consoleHandler.Dashboard))
	handle("GET /auth/login", sessions.ConsoleGate(consoleHandler.LoginPage))
	handle("GET /auth/registro", sessions.ConsoleGate(consoleHandler.SignupPage))

	// Catalogue reads (public)
	handle("GET /formulas", formulaHandler.ListFormulas)
	handle("GET /parties", partyHandler.ListParties)
	handle("GET /parties/{id}", partyHandler.GetParty)
	handle("GET /parties/{id}/candidates", partyHandler.ListPartyCandidates)

	// Party and candidate management
	handle("POST /parties", protect(partyHandler.CreateParty))
	handle("PUT /parties/{id}", protect(partyHandler.UpdateParty))
	handle("DELETE /parties/{id}", protect(partyHandler.DeleteParty))
	handle("POST /candidates", protect(candidateHandler.CreateCandidate))
	handle("DELETE /candidates/{id}", protect(candidateHandler.DeleteCandidate))

	// Elections
	handle("GET /elections", protect(electionHandler.ListElections))
	handle("POST /elections", protect(electionHandler.CreateElection))
	handle("GET /elections/{id}", protect(electionHandler.GetElection))
	handle("PUT /elections/{id}", protect(electionHandler.UpdateElection))
	handle("DELETE /elections/{id}", protect(electionHandler.DeleteElection))
	handle("GET /elections/{id}/candidates", protect(candidateHandler.ListElectionCandidates))

	// Tallies and seat allocation
	handle("PUT /elections/{id}/votes", protect(voteHandler.RecordVotes))
	handle("GET /elections/{id}/votes", protect(voteHandler.ListVotes))
	handle("GET /elections/{id}/results", protect(resultsHandler.GetResults))

	return mux
}
