package handlers

import (
	"net/http"
	"strconv"

	"github.com/pharmled/pharmledgo/internal/services/reports"
)

// overdue lists prescriptions whose baskets have waited too long for pickup.
// The optional ?days= parameter overrides the configured threshold, and
// ?group=patient aggregates per patient for the call list.
func (r *Router) overdue(w http.ResponseWriter, req *http.Request) {
	days := r.cfg.OverdueDays
	if v := req.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "Invalid days parameter")
			return
		}
		days = n
	}

	items, err := r.reports.Overdue(days)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch overdue prescriptions")
		return
	}

	if req.URL.Query().Get("group") == "patient" {
		respondJSON(w, http.StatusOK, reports.AggregateByPatient(items))
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// todaysActions returns the audit trail since midnight, newest first.
func (r *Router) todaysActions(w http.ResponseWriter, req *http.Request) {
	limit := 200
	if v := req.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = n
	}
	entries, err := r.actions.Today(limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch action log")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}
