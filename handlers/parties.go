// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/danielhkuo/escrutinio/auth"
	"github.com/danielhkuo/escrutinio/db"
	"github.com/danielhkuo/escrutinio/middleware"
	"github.com/danielhkuo/escrutinio/models"
)

const maxAbbreviationLength = 10

// upperAbbreviation applies Spanish casing rules (uñ -> UÑ).
// Casers are stateful, so one is built per call.
func upperAbbreviation(s string) string {
	return cases.Upper(language.Spanish).String(s)
}

type PartyHandler struct {
	db *sql.DB
}

func NewPartyHandler(db *sql.DB) *PartyHandler {
	return &PartyHandler{db: db}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

const partyColumns = `id, name, abbreviation, logo_url, created_at`

func scanParty(s rowScanner) (models.Party, error) {
	var p models.Party
	err := s.Scan(&p.ID, &p.Name, &p.Abbreviation, &p.LogoURL, &p.CreatedAt)
	return p, err
}

func getParty(q querier, id string) (models.Party, error) {
	return scanParty(q.QueryRow(`SELECT `+partyColumns+` FROM party WHERE id = $1`, id))
}

// normalizePartyRequest trims fields and upper-cases the abbreviation.
// It returns a message for the client when the request is invalid.
func normalizePartyRequest(req *models.PartyRequest) string {
	req.Name = strings.TrimSpace(req.Name)
	req.Abbreviation = upperAbbreviation(strings.TrimSpace(req.Abbreviation))
	if req.LogoURL != nil {
		logo := strings.TrimSpace(*req.LogoURL)
		if logo == "" {
			req.LogoURL = nil
		} else {
			req.LogoURL = &logo
		}
	}

	if req.Name == "" {
		return "name is required"
	}
	if req.Abbreviation == "" {
		return "abbreviation is required"
	}
	if utf8.RuneCountInString(req.Abbreviation) > maxAbbreviationLength {
		return "abbreviation must be at most 10 characters"
	}
	return ""
}

// ListParties handles GET /parties
func (h *PartyHandler) ListParties(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`SELECT ` + partyColumns + ` FROM party ORDER BY name`)
	if err != nil {
		slog.Error("failed to query parties", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	parties := []models.Party{}
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			slog.Error("failed to scan party", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		parties = append(parties, p)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate parties", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, parties)
}

// GetParty handles GET /parties/{id}
func (h *PartyHandler) GetParty(w http.ResponseWriter, r *http.Request) {
	partyID := r.PathValue("id")

	party, err := getParty(h.db, partyID)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Party not found")
		return
	}
	if err != nil {
		slog.Error("failed to query party", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, party)
}

// CreateParty handles POST /parties
func (h *PartyHandler) CreateParty(w http.ResponseWriter, r *http.Request) {
	var req models.PartyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if msg := normalizePartyRequest(&req); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	partyID, err := auth.GenerateID(12)
	if err != nil {
		slog.Error("failed to generate party ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create party")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO party (id, name, abbreviation, logo_url)
		VALUES ($1, $2, $3, $4)
	`, partyID, req.Name, req.Abbreviation, req.LogoURL)
	if db.IsUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "A party with that name already exists")
		return
	}
	if err != nil {
		slog.Error("failed to insert party", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create party")
		return
	}

	party, err := getParty(h.db, partyID)
	if err != nil {
		slog.Error("failed to reload party", "party_id", partyID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("party created", "party_id", partyID, "abbreviation", party.Abbreviation)

	middleware.JSONResponse(w, http.StatusCreated, party)
}

// UpdateParty handles PUT /parties/{id}
func (h *PartyHandler) UpdateParty(w http.ResponseWriter, r *http.Request) {
	partyID := r.PathValue("id")

	var req models.PartyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if msg := normalizePartyRequest(&req); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	res, err := h.db.Exec(`
		UPDATE party
		SET name = $2, abbreviation = $3, logo_url = $4
		WHERE id = $1
	`, partyID, req.Name, req.Abbreviation, req.LogoURL)
	if db.IsUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "A party with that name already exists")
		return
	}
	if err != nil {
		slog.Error("failed to update party", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update party")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Party not found")
		return
	}

	party, err := getParty(h.db, partyID)
	if err != nil {
		slog.Error("failed to reload party", "party_id", partyID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("party updated", "party_id", partyID)

	middleware.JSONResponse(w, http.StatusOK, party)
}

// DeleteParty handles DELETE /parties/{id}
// Candidates and vote records of the party go with it.
func (h *PartyHandler) DeleteParty(w http.ResponseWriter, r *http.Request) {
	partyID := r.PathValue("id")

	res, err := h.db.Exec(`DELETE FROM party WHERE id = $1`, partyID)
	if err != nil {
		slog.Error("failed to delete party", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete party")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Party not found")
		return
	}

	slog.Info("party deleted", "party_id", partyID)

	middleware.NoContent(w)
}

// ListPartyCandidates handles GET /parties/{id}/candidates
func (h *PartyHandler) ListPartyCandidates(w http.ResponseWriter, r *http.Request) {
	partyID := r.PathValue("id")

	exists, err := rowExists(h.db, `SELECT 1 FROM party WHERE id = $1`, partyID)
	if err != nil {
		slog.Error("failed to query party", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Party not found")
		return
	}

	candidates, err := listCandidates(h.db, `WHERE party_id = $1`, partyID)
	if err != nil {
		slog.Error("failed to list candidates", "party_id", partyID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// rowExists runs a SELECT 1 style query
func rowExists(q querier, query string, args ...any) (bool, error) {
	var one int
	err := q.QueryRow(query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
