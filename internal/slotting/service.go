// Package slotting implements the section-constrained slot allocator and the
// occupancy ledger that keeps slot flags consistent with the live set of
// prescription assignments.
package slotting

import (
	"errors"
	"fmt"

	"github.com/pharmled/pharmledgo/internal/models"
	"github.com/pharmled/pharmledgo/internal/utils"
	"gorm.io/gorm"
)

// Service bundles grid, section, allocator and ledger operations around one
// database handle. All calls are synchronous; the deployment model is a
// single terminal, so there is no locking discipline beyond single-statement
// atomicity of the store.
type Service struct {
	db *gorm.DB
}

// NewService creates a slotting service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// SlotGroup is the explicit, first-class result of an allocation: the ordered
// list of slot ids a basket occupies plus the shelf they live on. Large
// baskets carry two ids; the partner is never re-derived by callers.
type SlotGroup struct {
	SlotIDs []int64 `json:"slot_ids"`
	Shelf   string  `json:"shelf"`
}

// Primary returns the first slot of the group, the one stored on the
// prescription row.
func (g *SlotGroup) Primary() int64 {
	if g == nil || len(g.SlotIDs) == 0 {
		return 0
	}
	return g.SlotIDs[0]
}

// SlotByID fetches a slot row by id
func (s *Service) SlotByID(id int64) (*models.Slot, error) {
	var slot models.Slot
	if err := s.db.First(&slot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return &slot, nil
}

// SlotAt fetches a slot by its (shelf, row, col) address. "row" is quoted in
// every raw condition: it is a reserved word in PostgreSQL.
func (s *Service) SlotAt(shelf, row string, col int) (*models.Slot, error) {
	var slot models.Slot
	err := s.db.Where(`shelf = ? AND "row" = ? AND col = ?`, shelf, row, col).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return &slot, nil
}

// LabelForSlot renders the display label ("F-A61") for a slot id
func (s *Service) LabelForSlot(id int64) (string, error) {
	slot, err := s.SlotByID(id)
	if err != nil {
		return "", err
	}
	return utils.FormatSlotLabel(slot.Shelf, slot.Row, slot.Col), nil
}

// LabelsForSlots renders labels for a slot group, skipping zero ids
func (s *Service) LabelsForSlots(ids []int64) []string {
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if lbl, err := s.LabelForSlot(id); err == nil {
			labels = append(labels, lbl)
		}
	}
	return labels
}

// ResolveLabel resolves any accepted label form ("F-A61", "F-A-61", raw id)
// to an existing slot, for manual-entry validation.
func (s *Service) ResolveLabel(label string) (*models.Slot, error) {
	ref, err := utils.ParseSlotLabel(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSlotNotFound, err)
	}
	if ref.IsID() {
		return s.SlotByID(ref.ID)
	}
	return s.SlotAt(ref.Shelf, ref.Row, ref.Col)
}

// maxPopulatedCol returns the highest populated column for a shelf row, or 0
// when the row has no slots at all.
func (s *Service) maxPopulatedCol(shelf, row string) (int, error) {
	var max *int
	err := s.db.Model(&models.Slot{}).
		Where(`shelf = ? AND "row" = ?`, shelf, row).
		Select("MAX(col)").Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}
