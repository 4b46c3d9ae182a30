package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pharmled/pharmledgo/internal/middleware"
	"github.com/pharmled/pharmledgo/internal/models"
	"github.com/pharmled/pharmledgo/internal/slotting"
)

// previewAssign runs the search without committing, so the UI can show the
// proposed bin before staff confirm.
func (r *Router) previewAssign(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid prescription ID")
		return
	}
	var presc models.Prescription
	if err := r.db.First(&presc, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Prescription not found")
		return
	}
	group, err := r.slots.ProposeForPatient(presc.PatientID, presc.BasketSize)
	if err != nil {
		respondSlottingError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, groupResponse(r.slots, group))
}

// assignAuto proposes and commits in one step, then blinks the target bin.
func (r *Router) assignAuto(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid prescription ID")
		return
	}
	group, err := r.slots.AssignAuto(uint(id))
	if err != nil {
		respondSlottingError(w, err)
		return
	}
	if group == nil {
		// No capacity anywhere, not even Overflow. Staff fall back to
		// manual placement.
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"assigned": false,
			"reason":   "no free slot in section or overflow",
		})
		return
	}
	labels := r.slots.LabelsForSlots(group.SlotIDs)
	r.guidance.Start(group.SlotIDs, labels, "blue")
	r.actions.Log(middleware.ActorFromContext(req.Context()), "slot assigned", map[string]interface{}{
		"prescription_id": id,
		"slots":           labels,
		"mode":            "auto",
	})
	respondJSON(w, http.StatusOK, groupResponse(r.slots, group))
}

// assignManual places a prescription at an explicit slot label such as
// "F-A61". Large baskets need the right-hand neighbour free as well.
func (r *Router) assignManual(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid prescription ID")
		return
	}
	var body struct {
		Label string `json:"label"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Label == "" {
		respondError(w, http.StatusBadRequest, "A slot label is required")
		return
	}
	slot, err := r.slots.ResolveLabel(body.Label)
	if err != nil {
		respondSlottingError(w, err)
		return
	}
	group, err := r.slots.AssignManual(uint(id), slot.Shelf, slot.Row, slot.Col)
	if err != nil {
		respondSlottingError(w, err)
		return
	}
	labels := r.slots.LabelsForSlots(group.SlotIDs)
	r.guidance.Start(group.SlotIDs, labels, "blue")
	r.actions.Log(middleware.ActorFromContext(req.Context()), "slot assigned", map[string]interface{}{
		"prescription_id": id,
		"slots":           labels,
		"mode":            "manual",
	})
	respondJSON(w, http.StatusOK, groupResponse(r.slots, group))
}

// assignFamily shares an existing household bin with this prescription.
func (r *Router) assignFamily(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid prescription ID")
		return
	}
	var body struct {
		SlotID int64 `json:"slot_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.SlotID == 0 {
		respondError(w, http.StatusBadRequest, "A slot ID is required")
		return
	}
	if err := r.slots.AssignFamilyBin(uint(id), body.SlotID); err != nil {
		respondSlottingError(w, err)
		return
	}
	label, _ := r.slots.LabelForSlot(body.SlotID)
	r.actions.Log(middleware.ActorFromContext(req.Context()), "family bin shared", map[string]interface{}{
		"prescription_id": id,
		"slot":            label,
	})
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"assigned": true,
		"slot":     label,
	})
}

// clearAssignment detaches a prescription from its bin.
func (r *Router) clearAssignment(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid prescription ID")
		return
	}
	freed, err := r.slots.ClearAssignment(uint(id))
	if err != nil {
		respondSlottingError(w, err)
		return
	}
	labels := r.slots.LabelsForSlots(freed)
	r.actions.Log(middleware.ActorFromContext(req.Context()), "assignment cleared", map[string]interface{}{
		"prescription_id": id,
		"freed_slots":     labels,
	})
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"freed_slots": labels,
	})
}

// groupResponse renders a slot group with human-readable labels. A nil group
// renders as "no fit".
func groupResponse(s *slotting.Service, group *slotting.SlotGroup) map[string]interface{} {
	if group == nil {
		return map[string]interface{}{
			"assigned": false,
			"reason":   "no free slot in section or overflow",
		}
	}
	return map[string]interface{}{
		"assigned": true,
		"shelf":    group.Shelf,
		"slot_ids": group.SlotIDs,
		"labels":   s.LabelsForSlots(group.SlotIDs),
	}
}
