package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// startGuidance blinks the LEDs of an explicit slot set, e.g. when staff ask
// "show me this patient's bins" from the search screen.
func (r *Router) startGuidance(w http.ResponseWriter, req *http.Request) {
	var body struct {
		SlotIDs []int64 `json:"slot_ids"`
		Color   string  `json:"color"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || len(body.SlotIDs) == 0 {
		respondError(w, http.StatusBadRequest, "At least one slot ID is required")
		return
	}
	if body.Color == "" {
		body.Color = "blue"
	}
	labels := r.slots.LabelsForSlots(body.SlotIDs)
	key, sessionID := r.guidance.Start(body.SlotIDs, labels, body.Color)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"key":        key,
		"session_id": sessionID,
		"labels":     labels,
	})
}

// pauseGuidance toggles the pause state of a blink session.
func (r *Router) pauseGuidance(w http.ResponseWriter, req *http.Request) {
	key, err := strconv.ParseInt(mux.Vars(req)["key"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid guidance key")
		return
	}
	paused := r.guidance.PauseToggle(key)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"key":    key,
		"paused": paused,
	})
}

func (r *Router) stopGuidance(w http.ResponseWriter, req *http.Request) {
	key, err := strconv.ParseInt(mux.Vars(req)["key"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid guidance key")
		return
	}
	r.guidance.Stop(key)
	respondJSON(w, http.StatusOK, map[string]bool{"stopped": true})
}
