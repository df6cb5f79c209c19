package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dan9191/finance-planner/internal/integrations/cbr"
	"github.com/Dan9191/finance-planner/internal/middleware"
	"github.com/Dan9191/finance-planner/internal/service"
	"github.com/Dan9191/finance-planner/internal/tuition"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// KeyRateSource provides the central bank key rate
type KeyRateSource interface {
	KeyRate(ctx context.Context) (cbr.KeyRate, error)
}

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the REST API
type Handler struct {
	svc       *service.Service
	keyRate   KeyRateSource
	estimator *tuition.Estimator
	db        Pinger
	log       logrus.FieldLogger
}

// NewHandler creates the API handler
func NewHandler(svc *service.Service, keyRate KeyRateSource, estimator *tuition.Estimator, db Pinger, log logrus.FieldLogger) *Handler {
	return &Handler{svc: svc, keyRate: keyRate, estimator: estimator, db: db, log: log}
}

// Router builds the route table. Everything under /api except the index,
// health, auth and key rate endpoints requires a bearer token.
func (h *Handler) Router(frontendURL string) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Logging(h.log), middleware.CORS(frontendURL))
	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, envelope{Error: "Route not found"})
	})

	// Public routes
	r.HandleFunc("/api", h.Index).Methods(http.MethodGet)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/key-rate", h.KeyRate).Methods(http.MethodGet)

	// Protected routes
	auth := api.NewRoute().Subrouter()
	auth.Use(middleware.AuthMiddleware(h.svc))

	auth.HandleFunc("/users/me", h.CurrentUser).Methods(http.MethodGet)
	auth.HandleFunc("/users/me", h.UpdateProfile).Methods(http.MethodPut)
	auth.HandleFunc("/users/me/custom-id", h.GetCustomID).Methods(http.MethodGet)
	auth.HandleFunc("/users/me/custom-id", h.SetCustomID).Methods(http.MethodPut)
	auth.HandleFunc("/users/me/custom-id/check", h.CheckCustomID).Methods(http.MethodPost)

	auth.HandleFunc("/accounts", h.ListAccounts).Methods(http.MethodGet)
	auth.HandleFunc("/accounts", h.CreateAccount).Methods(http.MethodPost)
	auth.HandleFunc("/accounts/{id}", h.GetAccount).Methods(http.MethodGet)
	auth.HandleFunc("/accounts/{id}", h.UpdateAccount).Methods(http.MethodPatch)
	auth.HandleFunc("/accounts/{id}", h.DeleteAccount).Methods(http.MethodDelete)

	auth.HandleFunc("/transactions", h.ListTransactions).Methods(http.MethodGet)
	auth.HandleFunc("/transactions", h.CreateTransaction).Methods(http.MethodPost)
	auth.HandleFunc("/transactions/{id}", h.GetTransaction).Methods(http.MethodGet)

	auth.HandleFunc("/summary", h.Summary).Methods(http.MethodGet)

	auth.HandleFunc("/calendar", h.CalendarMonth).Methods(http.MethodGet)
	auth.HandleFunc("/calendar/grid", h.CalendarGrid).Methods(http.MethodGet)
	auth.HandleFunc("/calendar/day", h.CalendarDay).Methods(http.MethodGet)

	auth.HandleFunc("/tuition/estimate", h.EstimateTuition).Methods(http.MethodPost)
	return r
}

// envelope is the body of every API response
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func ok(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func okList[T any](w http.ResponseWriter, items []T) {
	count := len(items)
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: items, Count: &count})
}

func okMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message})
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, envelope{Error: message})
}

// errorStatus maps service errors to HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, tuition.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// fail writes err as an error response. Unexpected errors are logged and
// reported without detail.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.log.WithError(err).WithField("path", r.URL.Path).Error("Request failed")
		message = "Internal server error"
	}
	writeJSON(w, status, envelope{Error: message})
}

// decode reads a JSON request body into v
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "Invalid request body")
		return false
	}
	return true
}
