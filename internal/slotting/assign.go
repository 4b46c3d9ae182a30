package slotting

import (
	"errors"

	"github.com/pharmled/pharmledgo/internal/models"
	"gorm.io/gorm"
)

func (s *Service) prescription(id uint) (*models.Prescription, error) {
	var presc models.Prescription
	if err := s.db.First(&presc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrescriptionNotFound
		}
		return nil, err
	}
	return &presc, nil
}

// ProposeForPatient reconciles the ledger and then searches for the next
// free slot group for the patient's filing letter, Overflow included.
// The proposal does not mutate anything; staff confirm before Commit.
// Reconciling first avoids phantom "section full" results from drifted flags.
func (s *Service) ProposeForPatient(patientID uint, basket models.BasketSize) (*SlotGroup, error) {
	if err := s.Reconcile(); err != nil {
		return nil, err
	}
	letter, err := s.PatientLetter(patientID)
	if err != nil {
		return nil, err
	}
	return s.FindWithOverflow(letter, basket)
}

// CommitAssignment reserves a slot group for a prescription and records the
// primary slot on the prescription row. When the prescription already held a
// different group, those cells are released first, unless a sibling
// prescription still shares them.
func (s *Service) CommitAssignment(prescID uint, group *SlotGroup) error {
	if group == nil || len(group.SlotIDs) == 0 {
		return ErrSlotNotFound
	}
	presc, err := s.prescription(prescID)
	if err != nil {
		return err
	}
	if presc.SlotID != nil && *presc.SlotID != group.Primary() {
		if _, err := s.ReleaseForPrescription(prescID); err != nil {
			return err
		}
	}
	if err := s.Reserve(group.SlotIDs); err != nil {
		return err
	}
	primary := group.Primary()
	return s.db.Model(presc).Update("slot_id", primary).Error
}

// AssignAuto runs the full automatic path: propose for the prescription's
// patient and basket, then commit. Returns (nil, nil) when no fit exists
// anywhere, which sends the caller to manual assignment.
func (s *Service) AssignAuto(prescID uint) (*SlotGroup, error) {
	presc, err := s.prescription(prescID)
	if err != nil {
		return nil, err
	}
	group, err := s.ProposeForPatient(presc.PatientID, presc.BasketSize)
	if err != nil || group == nil {
		return nil, err
	}
	if err := s.CommitAssignment(prescID, group); err != nil {
		return nil, err
	}
	return group, nil
}

// AssignManual places a prescription at an explicit (shelf, row, col). The
// target must exist and be free; large baskets additionally need a free
// col+1 neighbour. Checks run immediately before reserving, which is
// sufficient under the single-user synchronous model.
func (s *Service) AssignManual(prescID uint, shelf, row string, col int) (*SlotGroup, error) {
	presc, err := s.prescription(prescID)
	if err != nil {
		return nil, err
	}

	slot, err := s.SlotAt(shelf, row, col)
	if err != nil {
		return nil, err
	}
	if slot.Occupied {
		return nil, ErrSlotOccupied
	}

	group := &SlotGroup{SlotIDs: []int64{slot.ID}, Shelf: slot.Shelf}
	if presc.BasketSize.Normalize() == models.BasketLarge {
		partner, err := s.SlotAt(shelf, row, col+1)
		if err != nil {
			if errors.Is(err, ErrSlotNotFound) {
				return nil, ErrSlotNotFound
			}
			return nil, err
		}
		if partner.Occupied {
			return nil, ErrAdjacentSlotOccupied
		}
		group.SlotIDs = append(group.SlotIDs, partner.ID)
	}

	if err := s.CommitAssignment(prescID, group); err != nil {
		return nil, err
	}
	return group, nil
}

// ChangeBasketSize updates a prescription's basket size, keeping the ledger
// in step when a slot is already assigned. Growing to large needs the col+1
// neighbour to exist and be free, exactly like manual placement; shrinking
// to small releases the partner cell unless a sibling still covers it.
func (s *Service) ChangeBasketSize(prescID uint, size models.BasketSize) error {
	presc, err := s.prescription(prescID)
	if err != nil {
		return err
	}
	oldSize := presc.BasketSize.Normalize()
	newSize := size.Normalize()
	if oldSize == newSize {
		return nil
	}
	if presc.SlotID == nil {
		return s.db.Model(presc).Update("basket_size", newSize).Error
	}

	partner, err := s.partnerSlotID(*presc.SlotID)
	if err != nil {
		return err
	}

	if newSize == models.BasketLarge {
		if partner == 0 {
			return ErrSlotNotFound
		}
		cell, err := s.SlotByID(partner)
		if err != nil {
			return err
		}
		if cell.Occupied {
			return ErrAdjacentSlotOccupied
		}
		if err := s.Reserve([]int64{partner}); err != nil {
			return err
		}
		return s.db.Model(presc).Update("basket_size", newSize).Error
	}

	// Large to small: free the partner cell first, while the stored size
	// still says large so the coverage check sees this prescription's own
	// claim excluded but any sibling's kept.
	if partner != 0 {
		shared, err := s.referencedByOthers(partner, prescID)
		if err != nil {
			return err
		}
		if !shared {
			if err := s.Release([]int64{partner}); err != nil {
				return err
			}
		}
	}
	return s.db.Model(presc).Update("basket_size", newSize).Error
}

// AssignFamilyBin shares an already-occupied bin with another prescription:
// only the slot reference is copied. A shared bin is occupied by definition;
// if the flag is somehow free (drifted ledger), it is reserved here so the
// cell never sits referenced-but-free until the next reconcile.
func (s *Service) AssignFamilyBin(prescID uint, slotID int64) error {
	presc, err := s.prescription(prescID)
	if err != nil {
		return err
	}
	slot, err := s.SlotByID(slotID)
	if err != nil {
		return err
	}
	if presc.SlotID != nil && *presc.SlotID != slotID {
		if _, err := s.ReleaseForPrescription(prescID); err != nil {
			return err
		}
	}
	if !slot.Occupied {
		if err := s.Reserve([]int64{slotID}); err != nil {
			return err
		}
	}
	return s.db.Model(presc).Update("slot_id", slotID).Error
}

// ClearAssignment removes a prescription's slot reference, freeing cells no
// sibling still holds. Returns the ids actually freed.
func (s *Service) ClearAssignment(prescID uint) ([]int64, error) {
	freed, err := s.ReleaseForPrescription(prescID)
	if err != nil {
		return nil, err
	}
	err = s.db.Model(&models.Prescription{}).Where("id = ?", prescID).Update("slot_id", nil).Error
	if err != nil {
		return nil, err
	}
	return freed, nil
}

// DeletePrescription removes the row after releasing its exclusively-held
// slots.
func (s *Service) DeletePrescription(prescID uint) error {
	if _, err := s.prescription(prescID); err != nil {
		return err
	}
	if _, err := s.ReleaseForPrescription(prescID); err != nil {
		return err
	}
	return s.db.Delete(&models.Prescription{}, prescID).Error
}

// ClearPatient deletes every prescription of a patient. The occupancy ledger
// is rebuilt from the surviving set of prescriptions afterwards, so bins
// shared with other patients stay occupied. Returns the slot ids that were
// part of the patient's groups, for the LED guidance display.
func (s *Service) ClearPatient(patientID uint) ([]int64, error) {
	var prescs []models.Prescription
	if err := s.db.Where("patient_id = ?", patientID).Find(&prescs).Error; err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	var slots []int64
	for _, p := range prescs {
		group, err := s.SlotGroupFor(p.ID)
		if err != nil {
			return nil, err
		}
		if group == nil {
			continue
		}
		for _, id := range group.SlotIDs {
			if !seen[id] {
				seen[id] = true
				slots = append(slots, id)
			}
		}
	}

	err := s.db.Where("patient_id = ?", patientID).Delete(&models.Prescription{}).Error
	if err != nil {
		return nil, err
	}
	if err := s.Reconcile(); err != nil {
		return nil, err
	}
	return slots, nil
}

// FamilyBin is an existing assigned slot at a shared address
type FamilyBin struct {
	PatientID   uint   `json:"patient_id"`
	PatientName string `json:"patient_name"`
	SlotID      int64  `json:"slot_id"`
	Label       string `json:"label"`
}

// FindFamilyBins lists the distinct assigned bins of patients registered at
// the given address, candidates for family-bin sharing.
func (s *Service) FindFamilyBins(address string) ([]FamilyBin, error) {
	if address == "" {
		return nil, nil
	}

	type row struct {
		PatientID   uint
		PatientName string
		SlotID      int64
	}
	var rows []row
	err := s.db.Model(&models.Prescription{}).
		Select("DISTINCT patients.id AS patient_id, patients.name AS patient_name, prescriptions.slot_id AS slot_id").
		Joins("JOIN patients ON patients.id = prescriptions.patient_id").
		Where("patients.address = ? AND prescriptions.slot_id IS NOT NULL", address).
		Where("patients.deleted_at IS NULL").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	bins := make([]FamilyBin, 0, len(rows))
	for _, r := range rows {
		if r.SlotID == 0 || seen[r.SlotID] {
			continue
		}
		seen[r.SlotID] = true
		label, err := s.LabelForSlot(r.SlotID)
		if err != nil {
			continue
		}
		bins = append(bins, FamilyBin{
			PatientID:   r.PatientID,
			PatientName: r.PatientName,
			SlotID:      r.SlotID,
			Label:       label,
		})
	}
	return bins, nil
}
