// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the escrutinio API server.

escrutinio is the backend of an election administration console. It keeps
parties, candidates, elections and per-party vote tallies, signs console
sessions, and distributes seats with the D'Hondt method.

# Starting the Server

Configuration comes from the environment (a .env file is loaded when
present), with CLI flags taking precedence:

	SESSION_SECRET=... DATABASE_URL=escrutinio.db go run .

	go run . -t postgres -d "postgres://..." -p 3318

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - SESSION_SECRET (-session-secret): HMAC key for session tokens, 32+ bytes

Optional settings:

  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - PORT (-p): Server port (default: 3318)
  - SESSION_TTL (-session-ttl): Session lifetime (default: 24h)
  - LOGIN_RATE_PER_MINUTE (-login-rate): Login attempts per client IP (default: 10)
  - COOKIE_SECURE (-cookie-secure): Mark the session cookie Secure
  - LOG_LEVEL, LOG_FORMAT (-log-level, -log-format): slog settings

# Architecture

  - allocation: D'Hondt seat allocator (pure)
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: sessions, rate limiting, CORS, logging, JSON helpers
  - metrics: Prometheus collectors
  - models: Request/response types
  - auth: password hashing, session tokens, console redirect rules
  - db: connection, schema creation, driver error classification
  - cliparse: Configuration parsing
  - logging: slog setup

See package documentation for each component.
*/
package main
