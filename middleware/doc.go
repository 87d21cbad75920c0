// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# Sessions

Sessions verifies the HS256 token issued at login. The token is read from
an Authorization: Bearer header or the "token" cookie.

	sessions := middleware.NewSessions(issuer, cfg.CookieSecure)
	mux.HandleFunc("GET /elections", sessions.Require(h.ListElections))
	mux.HandleFunc("GET /dashboard", sessions.ConsoleGate(h.Dashboard))

Require answers 401 without a valid session. ConsoleGate applies the
console redirect rules (see auth.ConsoleRedirect) with 307 responses.
Both attach the session to the request context, where handlers read it
with auth.SessionFrom.

# Rate Limiting

IPRateLimiter keeps a token bucket per client IP:

	limiter := middleware.NewIPRateLimiter(cfg.LoginRatePerMinute, clock)
	mux.HandleFunc("POST /auth/login", limiter.Limit(h.Login))

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

The request origin is echoed back with credentials allowed so the
console's cookie travels cross-site.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.PartyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

ParseJSONBody rejects unknown fields and bodies over 1 MiB.
*/
package middleware
