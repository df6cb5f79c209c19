package handler

import (
	"net/http"

	"github.com/Dan9191/finance-planner/internal/models"
	"github.com/Dan9191/finance-planner/internal/service"
	"github.com/gorilla/mux"
)

// ListAccounts returns the caller's accounts
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.ListAccounts(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	okList(w, accounts)
}

// CreateAccount handles account creation
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req models.Account
	if !decode(w, r, &req) {
		return
	}
	account, err := h.svc.CreateAccount(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, http.StatusCreated, account)
}

// GetAccount returns one account
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.svc.GetAccount(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, account)
}

// UpdateAccount applies a partial update to an account
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req models.AccountUpdate
	if !decode(w, r, &req) {
		return
	}
	account, err := h.svc.UpdateAccount(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, account)
}

// DeleteAccount removes an account
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAccount(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err)
		return
	}
	okMessage(w, "Account deleted successfully")
}

// ListTransactions returns the caller's transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.ListTransactions(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	okList(w, txs)
}

// CreateTransaction records a transaction
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req models.Transaction
	if !decode(w, r, &req) {
		return
	}
	tx, err := h.svc.CreateTransaction(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, http.StatusCreated, tx)
}

// GetTransaction returns one transaction
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.svc.GetTransaction(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, tx)
}

// Summary returns totals across the caller's accounts
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, summary)
}

// CurrentUser returns the caller's profile
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.CurrentUser(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, user)
}

// UpdateProfile changes the caller's profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req service.ProfileUpdate
	if !decode(w, r, &req) {
		return
	}
	user, err := h.svc.UpdateProfile(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, user)
}

type customIDRequest struct {
	CustomUserID string `json:"customUserId"`
}

// GetCustomID returns the caller's custom id
func (h *Handler) GetCustomID(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.CurrentUser(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, customIDRequest{CustomUserID: user.CustomUserID})
}

// CheckCustomID reports whether a custom id is available
func (h *Handler) CheckCustomID(w http.ResponseWriter, r *http.Request) {
	var req customIDRequest
	if !decode(w, r, &req) {
		return
	}
	available, err := h.svc.CustomIDAvailable(r.Context(), req.CustomUserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, map[string]bool{"available": available})
}

// SetCustomID assigns the caller's custom id
func (h *Handler) SetCustomID(w http.ResponseWriter, r *http.Request) {
	var req customIDRequest
	if !decode(w, r, &req) {
		return
	}
	user, err := h.svc.SetCustomID(r.Context(), req.CustomUserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, user)
}
