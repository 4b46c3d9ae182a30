package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pharmled/pharmledgo/internal/middleware"
	"github.com/pharmled/pharmledgo/internal/models"
)

func (r *Router) createPrescription(w http.ResponseWriter, req *http.Request) {
	var presc models.Prescription
	if err := json.NewDecoder(req.Body).Decode(&presc); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if presc.PatientID == 0 || presc.Medication == "" {
		respondError(w, http.StatusBadRequest, "Patient ID and medication are required")
		return
	}
	var patient models.Patient
	if err := r.db.First(&patient, presc.PatientID).Error; err != nil {
		respondError(w, http.StatusNotFound, "Patient not found")
		return
	}
	if err := r.db.Create(&presc).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create prescription")
		return
	}
	r.actions.Log(middleware.ActorFromContext(req.Context()), "prescription created", map[string]interface{}{
		"prescription_id": presc.ID,
		"patient_id":      presc.PatientID,
		"medication":      presc.Medication,
		"basket_size":     presc.BasketSize,
	})
	respondJSON(w, http.StatusCreated, presc)
}

func (r *Router) getPrescription(w http.ResponseWriter, req *http.Request) {
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
	placements, err := r.slots.PlacementsForPrescription(uint(id))
	if err != nil {
		respondSlottingError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"prescription": presc,
		"placements":   placements,
	})
}

func (r *Router) updatePrescription(w http.ResponseWriter, req *http.Request) {
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
	var body struct {
		Medication *string `json:"medication"`
		Quantity   *int    `json:"quantity"`
		BasketSize *string `json:"basket_size"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Medication != nil {
		presc.Medication = *body.Medication
	}
	if body.Quantity != nil {
		presc.Quantity = *body.Quantity
	}
	if err := r.db.Save(&presc).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update prescription")
		return
	}
	// Basket size goes through the slotting service: on an assigned
	// prescription it changes how many cells the basket claims.
	if body.BasketSize != nil {
		err := r.slots.ChangeBasketSize(presc.ID, models.BasketSize(*body.BasketSize))
		if err != nil {
			respondSlottingError(w, err)
			return
		}
	}
	if err := r.db.First(&presc, presc.ID).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to reload prescription")
		return
	}
	respondJSON(w, http.StatusOK, presc)
}

// deletePrescription removes the prescription and frees its slots unless a
// family member's basket still shares them.
func (r *Router) deletePrescription(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid prescription ID")
		return
	}
	if err := r.slots.DeletePrescription(uint(id)); err != nil {
		respondSlottingError(w, err)
		return
	}
	r.actions.Log(middleware.ActorFromContext(req.Context()), "prescription deleted", map[string]interface{}{
		"prescription_id": id,
	})
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
