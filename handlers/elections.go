// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/escrutinio/auth"
	"github.com/danielhkuo/escrutinio/db"
	"github.com/danielhkuo/escrutinio/middleware"
	"github.com/danielhkuo/escrutinio/models"
)

// MaxSeats bounds an election's seat count, and with it the quotient pool
const MaxSeats = 1000

type ElectionHandler struct {
	db *sql.DB
}

func NewElectionHandler(db *sql.DB) *ElectionHandler {
	return &ElectionHandler{db: db}
}

const electionColumns = `id, name, kind, starts_on, ends_on, seats, formula_id, created_at`

func scanElection(s rowScanner) (models.Election, error) {
	var e models.Election
	err := s.Scan(&e.ID, &e.Name, &e.Kind, &e.StartsOn, &e.EndsOn, &e.Seats, &e.FormulaID, &e.CreatedAt)
	return e, err
}

func getElection(q querier, id string) (models.Election, error) {
	return scanElection(q.QueryRow(`SELECT `+electionColumns+` FROM election WHERE id = $1`, id))
}

// validateElectionRequest normalises req in place.
// A non-empty message means the request is invalid; err is a lookup failure.
func validateElectionRequest(q querier, req *models.ElectionRequest) (string, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Kind = strings.TrimSpace(req.Kind)
	req.FormulaID = strings.TrimSpace(req.FormulaID)
	if req.FormulaID == "" {
		req.FormulaID = db.FormulaDHondt
	}

	if req.Name == "" {
		return "name is required", nil
	}
	if req.Seats == nil {
		return "seats is required", nil
	}
	if *req.Seats < 0 || *req.Seats > MaxSeats {
		return fmt.Sprintf("seats must be between 0 and %d", MaxSeats), nil
	}

	startsOn, err := time.Parse(models.DateLayout, req.StartsOn)
	if err != nil {
		return "starts_on must be a YYYY-MM-DD date", nil
	}
	endsOn, err := time.Parse(models.DateLayout, req.EndsOn)
	if err != nil {
		return "ends_on must be a YYYY-MM-DD date", nil
	}
	if endsOn.Before(startsOn) {
		return "ends_on must not be before starts_on", nil
	}

	exists, err := rowExists(q, `SELECT 1 FROM formula WHERE id = $1`, req.FormulaID)
	if err != nil {
		return "", fmt.Errorf("failed to query formula: %w", err)
	}
	if !exists {
		return "unknown formula_id", nil
	}
	return "", nil
}

// ListElections handles GET /elections
func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`SELECT ` + electionColumns + ` FROM election ORDER BY starts_on DESC, name`)
	if err != nil {
		slog.Error("failed to query elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	elections := []models.Election{}
	for rows.Next() {
		e, err := scanElection(rows)
		if err != nil {
			slog.Error("failed to scan election", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		elections = append(elections, e)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, elections)
}

// GetElection handles GET /elections/{id}
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	election, err := getElection(h.db, r.PathValue("id"))
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, election)
}

// CreateElection handles POST /elections
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req models.ElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	msg, err := validateElectionRequest(h.db, &req)
	if err != nil {
		slog.Error("failed to validate election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	electionID, err := auth.GenerateID(12)
	if err != nil {
		slog.Error("failed to generate election ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO election (id, name, kind, starts_on, ends_on, seats, formula_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, electionID, req.Name, req.Kind, req.StartsOn, req.EndsOn, *req.Seats, req.FormulaID)
	if err != nil {
		slog.Error("failed to insert election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	election, err := getElection(h.db, electionID)
	if err != nil {
		slog.Error("failed to reload election", "election_id", electionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("election created", "election_id", electionID, "seats", election.Seats, "formula", election.FormulaID)

	middleware.JSONResponse(w, http.StatusCreated, election)
}

// UpdateElection handles PUT /elections/{id}
func (h *ElectionHandler) UpdateElection(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	var req models.ElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	msg, err := validateElectionRequest(h.db, &req)
	if err != nil {
		slog.Error("failed to validate election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	res, err := h.db.Exec(`
		UPDATE election
		SET name = $2, kind = $3, starts_on = $4, ends_on = $5, seats = $6, formula_id = $7
		WHERE id = $1
	`, electionID, req.Name, req.Kind, req.StartsOn, req.EndsOn, *req.Seats, req.FormulaID)
	if err != nil {
		slog.Error("failed to update election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update election")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}

	election, err := getElection(h.db, electionID)
	if err != nil {
		slog.Error("failed to reload election", "election_id", electionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("election updated", "election_id", electionID)

	middleware.JSONResponse(w, http.StatusOK, election)
}

// DeleteElection handles DELETE /elections/{id}
func (h *ElectionHandler) DeleteElection(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	res, err := h.db.Exec(`DELETE FROM election WHERE id = $1`, electionID)
	if err != nil {
		slog.Error("failed to delete election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete election")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}

	slog.Info("election deleted", "election_id", electionID)

	middleware.NoContent(w)
}
