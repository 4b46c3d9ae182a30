package slotting

import (
	"errors"

	"github.com/pharmled/pharmledgo/internal/models"
	"gorm.io/gorm"
)

// The occupancy ledger invariant: the set of slots marked occupied equals the
// set of slot references held by live prescriptions, expanded to each large
// basket's partner cell. Individual updates are applied as independent
// statements, so Reconcile is the authoritative repair and runs at startup
// and before every allocation search.

// Reserve marks the given slots occupied. Idempotent: re-reserving an
// occupied slot is not an error at this layer.
func (s *Service) Reserve(slotIDs []int64) error {
	if len(slotIDs) == 0 {
		return nil
	}
	return s.db.Model(&models.Slot{}).Where("id IN ?", slotIDs).Update("occupied", true).Error
}

// Release marks the given slots free. Also idempotent.
func (s *Service) Release(slotIDs []int64) error {
	if len(slotIDs) == 0 {
		return nil
	}
	return s.db.Model(&models.Slot{}).Where("id IN ?", slotIDs).Update("occupied", false).Error
}

// Reconcile recomputes every occupancy flag from scratch: zero all flags,
// then mark the slot of every live prescription, plus the col+1 partner of
// every large basket when that slot exists. Safe to call at any time.
func (s *Service) Reconcile() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Slot{}).Where("occupied = ?", true).Update("occupied", false).Error
		if err != nil {
			return err
		}

		var assigned []models.Prescription
		err = tx.Select("id", "slot_id", "basket_size").
			Where("slot_id IS NOT NULL").Find(&assigned).Error
		if err != nil {
			return err
		}

		seen := make(map[int64]bool)
		for _, p := range assigned {
			if p.SlotID == nil {
				continue
			}
			seen[*p.SlotID] = true
			if p.BasketSize.Normalize() == models.BasketLarge {
				if partner, err := s.partnerSlotIDTx(tx, *p.SlotID); err != nil {
					return err
				} else if partner != 0 {
					seen[partner] = true
				}
			}
		}
		if len(seen) == 0 {
			return nil
		}

		ids := make([]int64, 0, len(seen))
		for id := range seen {
			ids = append(ids, id)
		}
		return tx.Model(&models.Slot{}).Where("id IN ?", ids).Update("occupied", true).Error
	})
}

// partnerSlotID returns the col+1 neighbour on the same shelf row, or 0 when
// the primary sits on the last populated column.
func (s *Service) partnerSlotID(primary int64) (int64, error) {
	return s.partnerSlotIDTx(s.db, primary)
}

func (s *Service) partnerSlotIDTx(tx *gorm.DB, primary int64) (int64, error) {
	var slot models.Slot
	if err := tx.First(&slot, primary).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	var partner models.Slot
	err := tx.Where(`shelf = ? AND "row" = ? AND col = ?`, slot.Shelf, slot.Row, slot.Col+1).
		First(&partner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return partner.ID, nil
}

// SlotGroupFor expands a prescription's assignment into its explicit slot
// group: [primary] for small baskets, [primary, partner] for large ones when
// the partner exists. Nil when nothing is assigned.
func (s *Service) SlotGroupFor(prescID uint) (*SlotGroup, error) {
	var presc models.Prescription
	if err := s.db.First(&presc, prescID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrescriptionNotFound
		}
		return nil, err
	}
	if presc.SlotID == nil {
		return nil, nil
	}
	slot, err := s.SlotByID(*presc.SlotID)
	if err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			return nil, nil // dangling reference, reconcile will not mark it
		}
		return nil, err
	}
	group := &SlotGroup{SlotIDs: []int64{slot.ID}, Shelf: slot.Shelf}
	if presc.BasketSize.Normalize() == models.BasketLarge {
		partner, err := s.partnerSlotID(slot.ID)
		if err != nil {
			return nil, err
		}
		if partner != 0 {
			group.SlotIDs = append(group.SlotIDs, partner)
		}
	}
	return group, nil
}

// referencedByOthers reports whether any live prescription other than
// excludeID still holds slotID in its expanded group. Large baskets cover
// their partner cell, so a slot is also referenced when it is the col+1
// neighbour of a large basket's primary.
func (s *Service) referencedByOthers(slotID int64, excludeID uint) (bool, error) {
	var direct int64
	err := s.db.Model(&models.Prescription{}).
		Where("slot_id = ? AND id <> ?", slotID, excludeID).
		Count(&direct).Error
	if err != nil {
		return false, err
	}
	if direct > 0 {
		return true, nil
	}

	// A large basket at (col-1) covers this cell as its partner.
	slot, err := s.SlotByID(slotID)
	if err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			return false, nil
		}
		return false, err
	}
	var left models.Slot
	err = s.db.Where(`shelf = ? AND "row" = ? AND col = ?`, slot.Shelf, slot.Row, slot.Col-1).
		First(&left).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	var viaPartner int64
	err = s.db.Model(&models.Prescription{}).
		Where("slot_id = ? AND basket_size = ? AND id <> ?", left.ID, models.BasketLarge, excludeID).
		Count(&viaPartner).Error
	if err != nil {
		return false, err
	}
	return viaPartner > 0, nil
}

// ReleaseForPrescription frees the prescription's slots, but only those no
// sibling prescription still references. Family bins share one slot across
// prescriptions; deleting one member must not free the bin out from under
// the others.
func (s *Service) ReleaseForPrescription(prescID uint) ([]int64, error) {
	group, err := s.SlotGroupFor(prescID)
	if err != nil || group == nil {
		return nil, err
	}
	var freeable []int64
	for _, id := range group.SlotIDs {
		shared, err := s.referencedByOthers(id, prescID)
		if err != nil {
			return nil, err
		}
		if !shared {
			freeable = append(freeable, id)
		}
	}
	if err := s.Release(freeable); err != nil {
		return nil, err
	}
	return freeable, nil
}
