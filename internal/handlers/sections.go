package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pharmled/pharmledgo/internal/middleware"
)

func (r *Router) listSections(w http.ResponseWriter, req *http.Request) {
	sections, err := r.slots.ListSections()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch sections")
		return
	}
	respondJSON(w, http.StatusOK, sections)
}

// setSection configures or clears a letter section's shelf and bounds. A
// blank shelf clears the configuration.
func (r *Router) setSection(w http.ResponseWriter, req *http.Request) {
	letter := mux.Vars(req)["letter"]
	var body struct {
		Shelf      string `json:"shelf"`
		LowerBound string `json:"lower_bound"`
		UpperBound string `json:"upper_bound"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	err := r.slots.SetSection(letter, body.Shelf, body.LowerBound, body.UpperBound)
	if err != nil {
		respondSlottingError(w, err)
		return
	}
	r.actions.Log(middleware.ActorFromContext(req.Context()), "section configured", map[string]interface{}{
		"letter": strings.ToUpper(letter),
		"shelf":  strings.ToUpper(body.Shelf),
		"lower":  body.LowerBound,
		"upper":  body.UpperBound,
	})
	respondJSON(w, http.StatusOK, map[string]bool{"saved": true})
}
