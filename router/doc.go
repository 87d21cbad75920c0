// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the escrutinio API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

Every route except /health and /metrics is wrapped with request logging
and Prometheus instrumentation labelled by its mux pattern.

# Endpoints

Operational:

	GET /health
	GET /metrics

Accounts (login is rate limited per client IP):

	POST /auth/signup
	POST /auth/login
	POST /auth/logout
	GET  /auth/me                    (session)

Console pages (307 redirects via middleware.ConsoleGate):

	GET /                 -> /dashboard
	GET /dashboard
	GET /auth/login
	GET /auth/registro

Public reads:

	GET /formulas
	GET /parties
	GET /parties/{id}
	GET /parties/{id}/candidates

Session required:

	POST   /parties
	PUT    /parties/{id}
	DELETE /parties/{id}
	POST   /candidates
	DELETE /candidates/{id}
	GET    /elections
	POST   /elections
	GET    /elections/{id}
	PUT    /elections/{id}
	DELETE /elections/{id}
	GET    /elections/{id}/candidates
	PUT    /elections/{id}/votes
	GET    /elections/{id}/votes
	GET    /elections/{id}/results
*/
package router
