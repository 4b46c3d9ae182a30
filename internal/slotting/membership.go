package slotting

import (
	"errors"
	"strings"

	"github.com/pharmled/pharmledgo/internal/models"
	"gorm.io/gorm"
)

// LetterForPatient derives the filing letter: the uppercase first character
// of the last whitespace-separated token of the name. Empty names file under
// "A". Pure; every call site derives the letter through here. The derived
// letter is never "Overflow" - that section is only reached via allocator
// fallback.
func LetterForPatient(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return "A"
	}
	last := fields[len(fields)-1]
	letter := strings.ToUpper(string([]rune(last)[0]))
	if letter < "A" || letter > "Z" {
		return "A"
	}
	return letter
}

// PatientLetter resolves a patient's filing letter from the store
func (s *Service) PatientLetter(patientID uint) (string, error) {
	var patient models.Patient
	if err := s.db.First(&patient, patientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrPatientNotFound
		}
		return "", err
	}
	return LetterForPatient(patient.Name), nil
}

// IsInSection reports whether an assigned slot falls inside the letter's
// section. Overflow placements are exempt from mismatch warnings, and so are
// unconfigured sections: don't flag what isn't defined. Column bounds only
// apply on the boundary rows, mirroring the allocator's per-row clamping.
func (s *Service) IsInSection(letter string, slotID int64) (bool, error) {
	if letter == models.OverflowLetter {
		return true, nil
	}
	bounds, err := s.GetSection(letter)
	if err != nil {
		return false, err
	}
	if bounds == nil {
		return true, nil
	}
	slot, err := s.SlotByID(slotID)
	if err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			return true, nil
		}
		return false, err
	}

	if slot.Shelf != bounds.Shelf {
		return false, nil
	}
	if slot.Row < bounds.StartRow || slot.Row > bounds.EndRow {
		return false, nil
	}
	if slot.Row == bounds.StartRow && slot.Col < bounds.StartCol {
		return false, nil
	}
	if slot.Row == bounds.EndRow && slot.Col > bounds.EndCol {
		return false, nil
	}
	return true, nil
}

// SlotPlacement describes one assigned cell for UI decoration
type SlotPlacement struct {
	SlotID       int64  `json:"slot_id"`
	Label        string `json:"label"`
	WrongSection bool   `json:"wrong_section"`
}

// PlacementsForPrescription renders the prescription's slot group with
// wrong-section flags for the patient's filing letter. Empty when nothing is
// assigned.
func (s *Service) PlacementsForPrescription(prescID uint) ([]SlotPlacement, error) {
	group, err := s.SlotGroupFor(prescID)
	if err != nil || group == nil {
		return nil, err
	}
	presc, err := s.prescription(prescID)
	if err != nil {
		return nil, err
	}
	letter, err := s.PatientLetter(presc.PatientID)
	if err != nil {
		return nil, err
	}

	placements := make([]SlotPlacement, 0, len(group.SlotIDs))
	for _, id := range group.SlotIDs {
		label, err := s.LabelForSlot(id)
		if err != nil {
			continue
		}
		inSection, err := s.IsInSection(letter, id)
		if err != nil {
			return nil, err
		}
		placements = append(placements, SlotPlacement{
			SlotID:       id,
			Label:        label,
			WrongSection: !inSection,
		})
	}
	return placements, nil
}
