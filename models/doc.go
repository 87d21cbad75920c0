// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SignupRequest, LoginRequest: email, password
  - PartyRequest: name, abbreviation, logo_url
  - CandidateRequest: name, party_id, election_id, district
  - ElectionRequest: name, kind, starts_on, ends_on, seats, formula_id
  - RecordVotesRequest: votes ([]PartyVotes)

# Response Types

  - SignupResponse, LoginResponse, MeResponse
  - DashboardResponse, ConsolePageResponse
  - ElectionResults: seats per party plus the ranked quotient table
  - ErrorResponse: error, message

# Domain Types

  - Formula: seat allocation method
  - Party, Candidate, Election
  - VoteRecord: one vote total per party per election

Election dates use DateLayout (YYYY-MM-DD).
*/
package models
