package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pharmled/pharmledgo/internal/buildinfo"
	"github.com/pharmled/pharmledgo/internal/config"
	"github.com/pharmled/pharmledgo/internal/database"
	"github.com/pharmled/pharmledgo/internal/middleware"
	"github.com/pharmled/pharmledgo/internal/services/actionlog"
	"github.com/pharmled/pharmledgo/internal/services/guidance"
	"github.com/pharmled/pharmledgo/internal/services/reports"
	"github.com/pharmled/pharmledgo/internal/slotting"
	ws "github.com/pharmled/pharmledgo/internal/websocket"
)

// Router wraps the mux router and the services behind the API
type Router struct {
	*mux.Router
	db       *database.DB
	cfg      *config.Config
	slots    *slotting.Service
	actions  *actionlog.Logger
	reports  *reports.Service
	guidance *guidance.Manager
	hub      *ws.Hub
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config, hub *ws.Hub, guide *guidance.Manager) *Router {
	r := &Router{
		Router:   mux.NewRouter(),
		db:       db,
		cfg:      cfg,
		slots:    slotting.NewService(db.DB),
		actions:  actionlog.NewLogger(db.DB),
		reports:  reports.NewService(db.DB),
		guidance: guide,
		hub:      hub,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")

	// LED frame stream for the display front-end
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWs(r.hub, w, req)
	})

	// API routes (protected)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg.JWTSecret))

	api.HandleFunc("/patients", r.listPatients).Methods("GET")
	api.HandleFunc("/patients", r.createPatient).Methods("POST")
	api.HandleFunc("/patients/{id}", r.getPatient).Methods("GET")
	api.HandleFunc("/patients/{id}", r.updatePatient).Methods("PUT")
	api.HandleFunc("/patients/{id}", r.deletePatient).Methods("DELETE")
	api.HandleFunc("/patients/{id}/letter", r.patientLetter).Methods("GET")
	api.HandleFunc("/patients/{id}/clear", r.clearPatient).Methods("POST")
	api.HandleFunc("/patients/{id}/family-bins", r.familyBins).Methods("GET")

	api.HandleFunc("/prescriptions", r.createPrescription).Methods("POST")
	api.HandleFunc("/prescriptions/{id}", r.getPrescription).Methods("GET")
	api.HandleFunc("/prescriptions/{id}", r.updatePrescription).Methods("PUT")
	api.HandleFunc("/prescriptions/{id}", r.deletePrescription).Methods("DELETE")
	api.HandleFunc("/prescriptions/{id}/assign/preview", r.previewAssign).Methods("GET")
	api.HandleFunc("/prescriptions/{id}/assign/auto", r.assignAuto).Methods("POST")
	api.HandleFunc("/prescriptions/{id}/assign/manual", r.assignManual).Methods("POST")
	api.HandleFunc("/prescriptions/{id}/assign/family", r.assignFamily).Methods("POST")
	api.HandleFunc("/prescriptions/{id}/assign", r.clearAssignment).Methods("DELETE")

	api.HandleFunc("/shelves", r.listShelves).Methods("GET")
	api.HandleFunc("/shelves", r.createShelf).Methods("POST")
	api.HandleFunc("/shelves/{name}", r.updateShelf).Methods("PUT")
	api.HandleFunc("/shelves/{name}", r.deleteShelf).Methods("DELETE")
	api.HandleFunc("/shelves/{name}/labels.pdf", r.shelfLabelsPDF).Methods("GET")

	api.HandleFunc("/sections", r.listSections).Methods("GET")
	api.HandleFunc("/sections/{letter}", r.setSection).Methods("PUT")

	api.HandleFunc("/slots/resolve", r.resolveSlotLabel).Methods("GET")
	api.HandleFunc("/slots/{id}/section-check", r.sectionCheck).Methods("GET")
	api.HandleFunc("/slots/reconcile", r.reconcile).Methods("POST")

	api.HandleFunc("/overdue", r.overdue).Methods("GET")
	api.HandleFunc("/actions", r.todaysActions).Methods("GET")

	api.HandleFunc("/guidance", r.startGuidance).Methods("POST")
	api.HandleFunc("/guidance/{key}/pause", r.pauseGuidance).Methods("POST")
	api.HandleFunc("/guidance/{key}", r.stopGuidance).Methods("DELETE")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"server":  "pharmled",
		"commit":  buildinfo.CommitHash,
		"built":   buildinfo.BuildTime,
		"started": buildinfo.StartTime,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondSlottingError maps the named slotting error conditions onto HTTP
// statuses. Everything in the taxonomy is recoverable: the front-end prompts
// the user and retries.
func respondSlottingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, slotting.ErrSlotNotFound),
		errors.Is(err, slotting.ErrShelfNotFound),
		errors.Is(err, slotting.ErrPrescriptionNotFound),
		errors.Is(err, slotting.ErrPatientNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, slotting.ErrDuplicateShelf),
		errors.Is(err, slotting.ErrShelfInUse),
		errors.Is(err, slotting.ErrShelfReferenced),
		errors.Is(err, slotting.ErrSlotOccupied),
		errors.Is(err, slotting.ErrAdjacentSlotOccupied):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, slotting.ErrInvalidBound),
		errors.Is(err, slotting.ErrUnknownShelf),
		errors.Is(err, slotting.ErrShelfShrink):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
