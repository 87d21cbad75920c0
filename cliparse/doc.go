// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Values are read from the environment first (struct tags, via
caarlos0/env), then any CLI flag given overrides them.

# Settings

	PORT                   -p               Server port (default 3318)
	DATABASE_URL           -d               Connection string (required)
	DATABASE_TYPE          -t               sqlite or postgres (default sqlite)
	SESSION_SECRET         -session-secret  Token signing key, 32+ bytes (required)
	SESSION_TTL            -session-ttl     Token lifetime (default 24h)
	LOGIN_RATE_PER_MINUTE  -login-rate      Login attempts per client (default 10)
	COOKIE_SECURE          -cookie-secure   Secure flag on the session cookie
	LOG_LEVEL              -log-level       debug, info, warn, error
	LOG_FORMAT             -log-format      text or json

# Validation

ParseFlags returns an error if the database URL or session secret is
missing, the secret is too short, or the database type is unknown.
*/
package cliparse
