// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import "strings"

// Console paths
const (
	PathRoot      = "/"
	PathDashboard = "/dashboard"
	PathLogin     = "/auth/login"
	PathSignup    = "/auth/registro"
)

// IsPublicConsolePath reports whether path is reachable without a session
func IsPublicConsolePath(path string) bool {
	return strings.HasPrefix(path, PathLogin) || strings.HasPrefix(path, PathSignup)
}

// ConsoleRedirect decides where a console page request should go.
// It returns "" when the request may proceed.
func ConsoleRedirect(path string, authenticated bool) string {
	if path == PathRoot {
		return PathDashboard
	}

	public := IsPublicConsolePath(path)
	if !authenticated && !public {
		return PathLogin
	}
	if authenticated && public {
		return PathDashboard
	}

	return ""
}
