// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// Built-in formula seeded by CreateSchema
const (
	FormulaDHondt = "dhondt"
	MethodDHondt  = "dhondt"
)

// CreateSchema creates all tables needed for the application and seeds
// the built-in formulas. Safe to call multiple times - uses IF NOT EXISTS.
// The DDL runs unchanged on PostgreSQL and SQLite.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO formula (id, name, method)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`, FormulaDHondt, "D'Hondt", MethodDHondt)
	if err != nil {
		return fmt.Errorf("failed to seed formulas: %w", err)
	}

	return nil
}

const schema = `
-- Console administrators
CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Seat allocation formulas
CREATE TABLE IF NOT EXISTS formula (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    method TEXT NOT NULL
);

-- Political parties
CREATE TABLE IF NOT EXISTS party (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    abbreviation TEXT NOT NULL,
    logo_url TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Elections
CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    kind TEXT NOT NULL DEFAULT '',
    starts_on TEXT NOT NULL,
    ends_on TEXT NOT NULL,
    seats INTEGER NOT NULL CHECK (seats >= 0),
    formula_id TEXT NOT NULL REFERENCES formula(id),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_election_starts_on ON election(starts_on);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    party_id TEXT NOT NULL REFERENCES party(id) ON DELETE CASCADE,
    election_id TEXT REFERENCES election(id) ON DELETE CASCADE,
    district TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_candidate_party_id ON candidate(party_id);
CREATE INDEX IF NOT EXISTS idx_candidate_election_id ON candidate(election_id);

-- Vote tallies, one per party per election
CREATE TABLE IF NOT EXISTS vote_record (
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    party_id TEXT NOT NULL REFERENCES party(id) ON DELETE CASCADE,
    votes BIGINT NOT NULL CHECK (votes >= 0),
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (election_id, party_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_record_party_id ON vote_record(party_id);
`
