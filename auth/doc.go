// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides credentials, session tokens and console access rules.

# Passwords

Administrator passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, attempt) // ErrInvalidCredentials on mismatch

# Session Tokens

Sessions are HS256 JWTs signed with the configured secret:

	issuer := auth.NewTokenIssuer(secret, 24*time.Hour, clockwork.NewRealClock())
	token, expiresAt, err := issuer.Issue(userID, email)
	session, err := issuer.Verify(token)

Tokens carry the user id (sub), email, a random jti and an expiry.
The clock is injected so expiry can be tested with a fake clock.

# Request Sessions

Middleware verifies the token once and stores the result on the request
context. Handlers read it back instead of re-parsing cookies:

	session, ok := auth.SessionFrom(r.Context())

# Console Rules

ConsoleRedirect decides where console page requests go:

  - / always goes to /dashboard
  - anonymous requests to private pages go to /auth/login
  - signed-in requests to /auth/login or /auth/registro go to /dashboard

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
