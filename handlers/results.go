// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/escrutinio/metrics"
	"github.com/danielhkuo/escrutinio/middleware"
)

type ResultsHandler struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

func NewResultsHandler(db *sql.DB, m *metrics.Metrics) *ResultsHandler {
	return &ResultsHandler{db: db, metrics: m}
}

// GetResults handles GET /elections/{id}/results
// Seats are computed on every request from the current tallies.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	results, err := ComputeSeatAllocation(h.db, electionID)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if errors.Is(err, ErrUnsupportedFormula) {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to compute seat allocation", "election_id", electionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute results")
		return
	}

	h.metrics.ObserveAllocation(results.AllocatedSeats)
	slog.Debug("seats allocated",
		"election_id", electionID,
		"seats", results.Seats,
		"allocated", results.AllocatedSeats,
		"total_votes", results.TotalVotes,
	)

	middleware.JSONResponse(w, http.StatusOK, results)
}
