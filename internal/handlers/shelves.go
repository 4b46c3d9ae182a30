package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pharmled/pharmledgo/internal/middleware"
	"github.com/pharmled/pharmledgo/internal/models"
	"github.com/pharmled/pharmledgo/internal/services/printer"
	"github.com/pharmled/pharmledgo/internal/utils"
)

func (r *Router) listShelves(w http.ResponseWriter, req *http.Request) {
	shelves, err := r.slots.ListShelves()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch shelves")
		return
	}
	respondJSON(w, http.StatusOK, shelves)
}

func (r *Router) createShelf(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Name string `json:"name"`
		Rows int    `json:"rows"`
		Cols int    `json:"cols"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Name == "" || body.Rows < 1 || body.Cols < 1 {
		respondError(w, http.StatusBadRequest, "Name and positive row/column counts are required")
		return
	}
	shelf, err := r.slots.CreateShelf(body.Name, body.Rows, body.Cols)
	if err != nil {
		respondSlottingError(w, err)
		return
	}
	r.actions.Log(middleware.ActorFromContext(req.Context()), "shelf created", map[string]interface{}{
		"shelf": shelf.Name,
		"rows":  shelf.RowsCount,
		"cols":  shelf.ColsCount,
	})
	respondJSON(w, http.StatusCreated, shelf)
}

// updateShelf grows a shelf and/or renames it. Shrinking is rejected because
// slots in the trimmed area could still hold baskets.
func (r *Router) updateShelf(w http.ResponseWriter, req *http.Request) {
	name := strings.ToUpper(mux.Vars(req)["name"])
	var body struct {
		NewName string `json:"new_name"`
		Rows    int    `json:"rows"`
		Cols    int    `json:"cols"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if body.Rows > 0 || body.Cols > 0 {
		shelf, err := r.slots.GetShelf(name)
		if err != nil {
			respondSlottingError(w, err)
			return
		}
		rows, cols := shelf.RowsCount, shelf.ColsCount
		if body.Rows > 0 {
			rows = body.Rows
		}
		if body.Cols > 0 {
			cols = body.Cols
		}
		if _, err := r.slots.ResizeShelf(name, rows, cols); err != nil {
			respondSlottingError(w, err)
			return
		}
	}

	if body.NewName != "" && !strings.EqualFold(body.NewName, name) {
		if err := r.slots.RenameShelf(name, body.NewName); err != nil {
			respondSlottingError(w, err)
			return
		}
		name = strings.ToUpper(strings.TrimSpace(body.NewName))
	}

	shelf, err := r.slots.GetShelf(name)
	if err != nil {
		respondSlottingError(w, err)
		return
	}
	r.actions.Log(middleware.ActorFromContext(req.Context()), "shelf updated", map[string]interface{}{
		"shelf": shelf.Name,
		"rows":  shelf.RowsCount,
		"cols":  shelf.ColsCount,
	})
	respondJSON(w, http.StatusOK, shelf)
}

func (r *Router) deleteShelf(w http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)["name"]
	if err := r.slots.DeleteShelf(name); err != nil {
		respondSlottingError(w, err)
		return
	}
	r.actions.Log(middleware.ActorFromContext(req.Context()), "shelf deleted", map[string]interface{}{
		"shelf": strings.ToUpper(name),
	})
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// shelfLabelsPDF renders a printable QR label sheet covering every slot of
// the shelf, ordered the way the physical grid reads.
func (r *Router) shelfLabelsPDF(w http.ResponseWriter, req *http.Request) {
	name := strings.ToUpper(mux.Vars(req)["name"])
	if _, err := r.slots.GetShelf(name); err != nil {
		respondSlottingError(w, err)
		return
	}

	var slots []models.Slot
	err := r.db.Where("shelf = ?", name).Order(`"row" ASC, col ASC`).Find(&slots).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch slots")
		return
	}

	labels := make([]string, 0, len(slots))
	for _, s := range slots {
		labels = append(labels, utils.FormatSlotLabel(s.Shelf, s.Row, s.Col))
	}

	pdf, err := printer.GenerateLabelSheet(labels, printer.DefaultSheetConfig())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate label sheet")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"shelf_%s_labels.pdf\"", name))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
