// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles connections and schema creation.

# Connecting

Open selects the driver from the configured database type:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

PostgreSQL uses lib/pq. SQLite uses modernc.org/sqlite (pure Go), with
foreign keys enabled through the DSN and a single open connection.

# Schema Creation

CreateSchema initializes all required tables and seeds the formulas:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same DDL and $n placeholders run on both engines.

# Tables

  - app_user: console administrators (bcrypt password hashes)
  - formula: seat allocation formulas (seeded with D'Hondt)
  - party: political parties
  - election: elections with seat count and formula
  - candidate: candidates per party, optionally tied to an election
  - vote_record: one vote total per party per election

# Relationships

	formula 1──* election
	party 1──* candidate
	election 1──* candidate
	election *──* party (via vote_record)

Candidate and vote_record rows cascade when their party or election
is deleted.

# Constraint Errors

IsUniqueViolation and IsForeignKeyViolation classify driver errors from
either engine so handlers can answer 409 or 404.
*/
package db
