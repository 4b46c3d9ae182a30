package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pharmled/pharmledgo/internal/middleware"
	"github.com/pharmled/pharmledgo/internal/models"
)

// listPatients returns all patients, optionally filtered by a search term
// matching name or address.
func (r *Router) listPatients(w http.ResponseWriter, req *http.Request) {
	var patients []models.Patient
	query := r.db.Order("name ASC")
	if search := req.URL.Query().Get("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR address ILIKE ?", like, like)
	}
	if err := query.Find(&patients).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch patients")
		return
	}
	respondJSON(w, http.StatusOK, patients)
}

func (r *Router) createPatient(w http.ResponseWriter, req *http.Request) {
	var patient models.Patient
	if err := json.NewDecoder(req.Body).Decode(&patient); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if patient.Name == "" {
		respondError(w, http.StatusBadRequest, "Patient name is required")
		return
	}
	if err := r.db.Create(&patient).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create patient")
		return
	}
	r.actions.Log(middleware.ActorFromContext(req.Context()), "patient created", map[string]interface{}{
		"patient_id": patient.ID,
		"name":       patient.Name,
	})
	respondJSON(w, http.StatusCreated, patient)
}

func (r *Router) getPatient(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid patient ID")
		return
	}
	var patient models.Patient
	if err := r.db.Preload("Prescriptions").First(&patient, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Patient not found")
		return
	}
	respondJSON(w, http.StatusOK, patient)
}

func (r *Router) updatePatient(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid patient ID")
		return
	}
	var patient models.Patient
	if err := r.db.First(&patient, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Patient not found")
		return
	}
	var body struct {
		Name    *string `json:"name"`
		Address *string `json:"address"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Name != nil {
		patient.Name = *body.Name
	}
	if body.Address != nil {
		patient.Address = *body.Address
	}
	if err := r.db.Save(&patient).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update patient")
		return
	}
	respondJSON(w, http.StatusOK, patient)
}

// deletePatient removes a patient and everything slotted for them. Slots
// shared with other patients stay reserved.
func (r *Router) deletePatient(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid patient ID")
		return
	}
	var patient models.Patient
	if err := r.db.First(&patient, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Patient not found")
		return
	}
	freed, err := r.slots.ClearPatient(uint(id))
	if err != nil {
		respondSlottingError(w, err)
		return
	}
	if err := r.db.Delete(&patient).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete patient")
		return
	}
	r.actions.Log(middleware.ActorFromContext(req.Context()), "patient deleted", map[string]interface{}{
		"patient_id":  patient.ID,
		"name":        patient.Name,
		"freed_slots": len(freed),
	})
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"deleted":     true,
		"freed_slots": r.slots.LabelsForSlots(freed),
	})
}

// patientLetter reports which section letter the patient files under.
func (r *Router) patientLetter(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid patient ID")
		return
	}
	letter, err := r.slots.PatientLetter(uint(id))
	if err != nil {
		respondSlottingError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"letter": letter})
}

// clearPatient hands out all slots back for a patient whose baskets were
// collected, then blinks the emptied slots so staff can verify them.
func (r *Router) clearPatient(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid patient ID")
		return
	}
	var patient models.Patient
	if err := r.db.First(&patient, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Patient not found")
		return
	}
	freed, err := r.slots.ClearPatient(uint(id))
	if err != nil {
		respondSlottingError(w, err)
		return
	}
	labels := r.slots.LabelsForSlots(freed)
	if len(freed) > 0 {
		r.guidance.Start(freed, labels, "green")
	}
	r.actions.Log(middleware.ActorFromContext(req.Context()), "patient cleared", map[string]interface{}{
		"patient_id":  patient.ID,
		"freed_slots": labels,
	})
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"freed_slots": labels,
	})
}

// familyBins lists slots already holding baskets for the patient's household.
func (r *Router) familyBins(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid patient ID")
		return
	}
	var patient models.Patient
	if err := r.db.First(&patient, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Patient not found")
		return
	}
	bins, err := r.slots.FindFamilyBins(patient.Address)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to look up family bins")
		return
	}
	respondJSON(w, http.StatusOK, bins)
}

// pathID parses a numeric route variable.
func pathID(req *http.Request, name string) (uint64, error) {
	return strconv.ParseUint(mux.Vars(req)[name], 10, 64)
}
