// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/escrutinio/middleware"
	"github.com/danielhkuo/escrutinio/models"
)

type FormulaHandler struct {
	db *sql.DB
}

func NewFormulaHandler(db *sql.DB) *FormulaHandler {
	return &FormulaHandler{db: db}
}

// ListFormulas handles GET /formulas
func (h *FormulaHandler) ListFormulas(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`SELECT id, name, method FROM formula ORDER BY name`)
	if err != nil {
		slog.Error("failed to query formulas", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	formulas := []models.Formula{}
	for rows.Next() {
		var f models.Formula
		if err := rows.Scan(&f.ID, &f.Name, &f.Method); err != nil {
			slog.Error("failed to scan formula", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		formulas = append(formulas, f)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate formulas", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, formulas)
}

// getFormula loads one formula; sql.ErrNoRows when missing
func getFormula(q querier, id string) (models.Formula, error) {
	var f models.Formula
	err := q.QueryRow(`SELECT id, name, method FROM formula WHERE id = $1`, id).
		Scan(&f.ID, &f.Name, &f.Method)
	if err != nil {
		return models.Formula{}, fmt.Errorf("failed to load formula %s: %w", id, err)
	}
	return f, nil
}

// querier is satisfied by *sql.DB and *sql.Tx
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
	Exec(query string, args ...any) (sql.Result, error)
}
