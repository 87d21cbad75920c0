// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strings"

	"github.com/danielhkuo/escrutinio/auth"
	"github.com/danielhkuo/escrutinio/middleware"
	"github.com/danielhkuo/escrutinio/models"
)

// dashboardSections are the cards on the console home page
var dashboardSections = []models.DashboardSection{
	{Title: "Elecciones", Description: "Gestiona las elecciones activas y pasadas.", Href: "/dashboard/elecciones"},
	{Title: "Partidos", Description: "Configura y administra los partidos políticos.", Href: "/dashboard/partidos"},
	{Title: "Fórmulas", Description: "Administra las fórmulas para las elecciones.", Href: "/dashboard/formulas"},
}

// ConsoleHandler serves the descriptors behind the console pages.
// Routes are wrapped in middleware.ConsoleGate, which owns the redirects.
type ConsoleHandler struct{}

func NewConsoleHandler() *ConsoleHandler {
	return &ConsoleHandler{}
}

// Dashboard handles GET /dashboard
func (h *ConsoleHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Valid session required")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DashboardResponse{
		Username: displayName(session.Email),
		Sections: dashboardSections,
	})
}

// LoginPage handles GET /auth/login
func (h *ConsoleHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.ConsolePageResponse{
		Page:   "login",
		Action: "/auth/login",
		Fields: []string{"email", "password"},
	})
}

// SignupPage handles GET /auth/registro
func (h *ConsoleHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.ConsolePageResponse{
		Page:   "registro",
		Action: "/auth/signup",
		Fields: []string{"email", "password"},
	})
}

// displayName is the local part of the address
func displayName(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}
