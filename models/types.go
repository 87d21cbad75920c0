// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// DateLayout is the wire format for election dates
const DateLayout = "2006-01-02"

// Request types

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PartyRequest struct {
	Name         string  `json:"name"`
	Abbreviation string  `json:"abbreviation"`
	LogoURL      *string `json:"logo_url,omitempty"`
}

type CandidateRequest struct {
	Name       string  `json:"name"`
	PartyID    string  `json:"party_id"`
	ElectionID *string `json:"election_id,omitempty"`
	District   string  `json:"district"`
}

type ElectionRequest struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	StartsOn  string `json:"starts_on"`
	EndsOn    string `json:"ends_on"`
	Seats     *int   `json:"seats"`
	FormulaID string `json:"formula_id"`
}

type PartyVotes struct {
	PartyID string `json:"party_id"`
	Votes   int64  `json:"votes"`
}

type RecordVotesRequest struct {
	Votes []PartyVotes `json:"votes"`
}

// Response types

type SignupResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type MeResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

type DashboardSection struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Href        string `json:"href"`
}

type DashboardResponse struct {
	Username string             `json:"username"`
	Sections []DashboardSection `json:"sections"`
}

type ConsolePageResponse struct {
	Page   string   `json:"page"`
	Action string   `json:"action"`
	Fields []string `json:"fields"`
}

// Domain types

type Formula struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Method string `json:"method"`
}

type Party struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Abbreviation string    `json:"abbreviation"`
	LogoURL      *string   `json:"logo_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type Candidate struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	PartyID    string    `json:"party_id"`
	ElectionID *string   `json:"election_id,omitempty"`
	District   string    `json:"district"`
	CreatedAt  time.Time `json:"created_at"`
}

type Election struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	StartsOn  string    `json:"starts_on"`
	EndsOn    string    `json:"ends_on"`
	Seats     int       `json:"seats"`
	FormulaID string    `json:"formula_id"`
	CreatedAt time.Time `json:"created_at"`
}

type VoteRecord struct {
	ElectionID string    `json:"election_id"`
	PartyID    string    `json:"party_id"`
	Votes      int64     `json:"votes"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Seat allocation result types

type PartySeats struct {
	PartyID      string `json:"party_id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Votes        int64  `json:"votes"`
	Seats        int    `json:"seats"`
}

type QuotientRow struct {
	PartyID string  `json:"party_id"`
	Divisor int     `json:"divisor"`
	Value   float64 `json:"value"`
	Rank    int     `json:"rank"`
	Winning bool    `json:"winning"`
}

type ElectionResults struct {
	ElectionID     string        `json:"election_id"`
	Seats          int           `json:"seats"`
	Formula        Formula       `json:"formula"`
	TotalVotes     int64         `json:"total_votes"`
	AllocatedSeats int           `json:"allocated_seats"`
	Parties        []PartySeats  `json:"parties"`
	Quotients      []QuotientRow `json:"quotients"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
