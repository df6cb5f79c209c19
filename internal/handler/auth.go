package handler

import (
	"net/http"
	"time"
)

// Index lists the API entry points
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	ok(w, http.StatusOK, map[string]any{
		"name":    "Finance Planner API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":       "/api/health",
			"auth":         "/api/auth",
			"users":        "/api/users",
			"accounts":     "/api/accounts",
			"transactions": "/api/transactions",
			"summary":      "/api/summary",
			"calendar":     "/api/calendar",
			"keyRate":      "/api/key-rate",
			"tuition":      "/api/tuition/estimate",
		},
	})
}

// Health reports service and database status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	database := "connected"
	status := http.StatusOK
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			h.log.WithError(err).Warn("Health check: database unreachable")
			database = "disconnected"
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, envelope{
		Success: status == http.StatusOK,
		Data: map[string]string{
			"status":    "OK",
			"database":  database,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	user, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	token, user, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, map[string]any{"token": token, "user": user})
}

// KeyRate returns the central bank key rate
func (h *Handler) KeyRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.keyRate.KeyRate(r.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to get key rate")
		writeJSON(w, http.StatusBadGateway, envelope{Error: "Failed to get key rate"})
		return
	}
	ok(w, http.StatusOK, rate)
}
