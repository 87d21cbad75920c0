// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the escrutinio API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - AuthHandler: signup, login, logout, current session
  - ConsoleHandler: dashboard and login/signup page descriptors
  - FormulaHandler: seat allocation formulas
  - PartyHandler: parties and their candidates
  - CandidateHandler: candidate create/delete, per-election lists
  - ElectionHandler: election CRUD
  - VoteHandler: per-party tallies
  - ResultsHandler: seat allocation results

	partyHandler := handlers.NewPartyHandler(db)

Session checks happen in middleware; handlers that need the caller read it
with auth.SessionFrom.

# Vote Tallies

PUT /elections/{id}/votes upserts one record per listed party inside a
transaction. The batch is checked with allocation.Validate first, so
negative counts and repeated parties are rejected before touching the
database. An unknown party aborts the whole batch.

# Seat Allocation

Results are computed on request from the stored tallies:

	results, err := handlers.ComputeSeatAllocation(db, electionID)

Parties come back ordered by seats, then votes. The quotient table is cut
to twice the seat count, which always keeps the winning rows.
*/
package handlers
