// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/escrutinio/auth"
	"github.com/danielhkuo/escrutinio/db"
	"github.com/danielhkuo/escrutinio/middleware"
	"github.com/danielhkuo/escrutinio/models"
)

type CandidateHandler struct {
	db *sql.DB
}

func NewCandidateHandler(db *sql.DB) *CandidateHandler {
	return &CandidateHandler{db: db}
}

const candidateColumns = `id, name, party_id, election_id, district, created_at`

func scanCandidate(s rowScanner) (models.Candidate, error) {
	var c models.Candidate
	err := s.Scan(&c.ID, &c.Name, &c.PartyID, &c.ElectionID, &c.District, &c.CreatedAt)
	return c, err
}

// listCandidates returns candidates matching where, ordered by name
func listCandidates(q querier, where string, args ...any) ([]models.Candidate, error) {
	rows, err := q.Query(`SELECT `+candidateColumns+` FROM candidate `+where+` ORDER BY name, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// CreateCandidate handles POST /candidates
func (h *CandidateHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req models.CandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.District = strings.TrimSpace(req.District)
	if req.ElectionID != nil && *req.ElectionID == "" {
		req.ElectionID = nil
	}

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.PartyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "party_id is required")
		return
	}

	exists, err := rowExists(h.db, `SELECT 1 FROM party WHERE id = $1`, req.PartyID)
	if err != nil {
		slog.Error("failed to query party", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Party not found")
		return
	}

	if req.ElectionID != nil {
		exists, err := rowExists(h.db, `SELECT 1 FROM election WHERE id = $1`, *req.ElectionID)
		if err != nil {
			slog.Error("failed to query election", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if !exists {
			middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
			return
		}
	}

	candidateID, err := auth.GenerateID(12)
	if err != nil {
		slog.Error("failed to generate candidate ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create candidate")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO candidate (id, name, party_id, election_id, district)
		VALUES ($1, $2, $3, $4, $5)
	`, candidateID, req.Name, req.PartyID, req.ElectionID, req.District)
	if db.IsForeignKeyViolation(err) {
		// Party or election deleted since the checks above
		middleware.ErrorResponse(w, http.StatusNotFound, "Party or election not found")
		return
	}
	if err != nil {
		slog.Error("failed to insert candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create candidate")
		return
	}

	candidate, err := scanCandidate(h.db.QueryRow(`SELECT `+candidateColumns+` FROM candidate WHERE id = $1`, candidateID))
	if err != nil {
		slog.Error("failed to reload candidate", "candidate_id", candidateID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("candidate created", "candidate_id", candidateID, "party_id", req.PartyID)

	middleware.JSONResponse(w, http.StatusCreated, candidate)
}

// DeleteCandidate handles DELETE /candidates/{id}
func (h *CandidateHandler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID := r.PathValue("id")

	res, err := h.db.Exec(`DELETE FROM candidate WHERE id = $1`, candidateID)
	if err != nil {
		slog.Error("failed to delete candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete candidate")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	slog.Info("candidate deleted", "candidate_id", candidateID)

	middleware.NoContent(w)
}

// ListElectionCandidates handles GET /elections/{id}/candidates
func (h *CandidateHandler) ListElectionCandidates(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	exists, err := rowExists(h.db, `SELECT 1 FROM election WHERE id = $1`, electionID)
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}

	candidates, err := listCandidates(h.db, `WHERE election_id = $1`, electionID)
	if err != nil {
		slog.Error("failed to list candidates", "election_id", electionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}
