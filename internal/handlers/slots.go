package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pharmled/pharmledgo/internal/middleware"
	"github.com/pharmled/pharmledgo/internal/utils"
)

// resolveSlotLabel turns a scanned or typed label ("F-A61", "F-A-61", or a
// bare numeric ID) into the concrete slot.
func (r *Router) resolveSlotLabel(w http.ResponseWriter, req *http.Request) {
	label := req.URL.Query().Get("label")
	if label == "" {
		respondError(w, http.StatusBadRequest, "A label query parameter is required")
		return
	}
	slot, err := r.slots.ResolveLabel(label)
	if err != nil {
		respondSlottingError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"slot":  slot,
		"label": utils.FormatSlotLabel(slot.Shelf, slot.Row, slot.Col),
	})
}

// sectionCheck reports whether a slot lies inside the section configured for
// the given letter. Used when staff scan a bin during returns to catch
// misfiled baskets.
func (r *Router) sectionCheck(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid slot ID")
		return
	}
	letter := req.URL.Query().Get("letter")
	if letter == "" {
		respondError(w, http.StatusBadRequest, "A letter query parameter is required")
		return
	}
	inside, err := r.slots.IsInSection(letter, id)
	if err != nil {
		respondSlottingError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"slot_id":    id,
		"letter":     letter,
		"in_section": inside,
	})
}

// reconcile rebuilds the occupancy ledger from the prescription table.
func (r *Router) reconcile(w http.ResponseWriter, req *http.Request) {
	if err := r.slots.Reconcile(); err != nil {
		respondError(w, http.StatusInternalServerError, "Reconciliation failed")
		return
	}
	r.actions.Log(middleware.ActorFromContext(req.Context()), "occupancy reconciled", nil)
	respondJSON(w, http.StatusOK, map[string]bool{"reconciled": true})
}
