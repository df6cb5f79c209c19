package handler

import (
	"net/http"
	"strconv"

	"github.com/Dan9191/finance-planner/internal/tuition"
)

// CalendarMonth returns the events of ?month=YYYY-MM (default: current month)
func (h *Handler) CalendarMonth(w http.ResponseWriter, r *http.Request) {
	month, err := h.svc.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	result, err := h.svc.CalendarMonth(r.Context(), month)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, result)
}

// CalendarGrid returns the week grid of ?month=YYYY-MM showing at most
// ?max=N events per day
func (h *Handler) CalendarGrid(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	month, err := h.svc.ParseMonth(query.Get("month"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	maxPerDay := 0
	if v := query.Get("max"); v != "" {
		if maxPerDay, err = strconv.Atoi(v); err != nil || maxPerDay < 1 {
			badRequest(w, "max must be a positive integer")
			return
		}
	}
	view, err := h.svc.CalendarGrid(r.Context(), month, maxPerDay)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, map[string]any{
		"month": view.Key,
		"prev":  view.Prev().Format("2006-01"),
		"next":  view.Next().Format("2006-01"),
		"weeks": view.Weeks,
	})
}

// CalendarDay returns the events on ?date=YYYY-MM-DD
func (h *Handler) CalendarDay(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.CalendarDay(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	okList(w, events)
}

// EstimateTuition prices one semester
func (h *Handler) EstimateTuition(w http.ResponseWriter, r *http.Request) {
	var req tuition.Input
	if !decode(w, r, &req) {
		return
	}
	estimate, err := h.estimator.Estimate(req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, estimate)
}
