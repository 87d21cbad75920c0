// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/escrutinio/allocation"
	"github.com/danielhkuo/escrutinio/middleware"
	"github.com/danielhkuo/escrutinio/models"
)

type VoteHandler struct {
	db *sql.DB
}

func NewVoteHandler(db *sql.DB) *VoteHandler {
	return &VoteHandler{db: db}
}

// listVoteRecords returns the tallies of an election ordered by party
func listVoteRecords(q querier, electionID string) ([]models.VoteRecord, error) {
	rows, err := q.Query(`
		SELECT election_id, party_id, votes, updated_at
		FROM vote_record
		WHERE election_id = $1
		ORDER BY party_id
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query vote records: %w", err)
	}
	defer rows.Close()

	records := []models.VoteRecord{}
	for rows.Next() {
		var vr models.VoteRecord
		if err := rows.Scan(&vr.ElectionID, &vr.PartyID, &vr.Votes, &vr.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote record: %w", err)
		}
		records = append(records, vr)
	}
	return records, rows.Err()
}

// RecordVotes handles PUT /elections/{id}/votes
// Each listed party's tally is replaced; parties not listed keep theirs.
func (h *VoteHandler) RecordVotes(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	var req models.RecordVotesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Votes) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "votes must not be empty")
		return
	}

	counts := make([]allocation.VoteCount, len(req.Votes))
	for i, v := range req.Votes {
		counts[i] = allocation.VoteCount{PartyID: v.PartyID, Votes: v.Votes}
	}
	if err := allocation.Validate(counts, 0); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	exists, err := rowExists(tx, `SELECT 1 FROM election WHERE id = $1`, electionID)
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}

	now := time.Now().UTC()
	for _, c := range counts {
		exists, err := rowExists(tx, `SELECT 1 FROM party WHERE id = $1`, c.PartyID)
		if err != nil {
			slog.Error("failed to query party", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if !exists {
			middleware.ErrorResponse(w, http.StatusNotFound, "Party not found: "+c.PartyID)
			return
		}

		_, err = tx.Exec(`
			INSERT INTO vote_record (election_id, party_id, votes, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (election_id, party_id)
			DO UPDATE SET votes = excluded.votes, updated_at = excluded.updated_at
		`, electionID, c.PartyID, c.Votes, now)
		if err != nil {
			slog.Error("failed to upsert vote record", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record votes")
			return
		}
	}

	records, err := listVoteRecords(tx, electionID)
	if err != nil {
		slog.Error("failed to reload vote records", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit vote records", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record votes")
		return
	}

	slog.Info("votes recorded", "election_id", electionID, "parties", len(counts))

	middleware.JSONResponse(w, http.StatusOK, records)
}

// ListVotes handles GET /elections/{id}/votes
func (h *VoteHandler) ListVotes(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	_, err := getElection(h.db, electionID)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	records, err := listVoteRecords(h.db, electionID)
	if err != nil {
		slog.Error("failed to list vote records", "election_id", electionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, records)
}
