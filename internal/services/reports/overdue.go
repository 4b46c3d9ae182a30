// Package reports builds read-only views over prescriptions
package reports

import (
	"time"

	"github.com/pharmled/pharmledgo/internal/models"
	"gorm.io/gorm"
)

// DefaultOverdueDays is the pickup window before a prescription counts as
// overdue.
const DefaultOverdueDays = 14

// OverdueItem is one prescription past its pickup window
type OverdueItem struct {
	PrescriptionID uint   `json:"prescription_id"`
	PatientID      uint   `json:"patient_id"`
	PatientName    string `json:"patient_name"`
	Address        string `json:"address"`
	Medication     string `json:"medication"`
	Quantity       int    `json:"quantity"`
	DaysOverdue    int    `json:"days_overdue"`
	SlotID         *int64 `json:"slot_id,omitempty"`
}

// PatientOverdue aggregates a patient's overdue prescriptions
type PatientOverdue struct {
	PatientID   uint    `json:"patient_id"`
	PatientName string  `json:"patient_name"`
	Address     string  `json:"address"`
	Count       int     `json:"count"`
	OldestDays  int     `json:"oldest_days"`
	SlotIDs     []int64 `json:"slot_ids"`
}

// Service runs overdue queries
type Service struct {
	db *gorm.DB
}

// NewService creates a reports service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Overdue lists prescriptions added at least minDays ago, joined with their
// patients, oldest first.
func (s *Service) Overdue(minDays int) ([]OverdueItem, error) {
	if minDays <= 0 {
		minDays = DefaultOverdueDays
	}

	var prescs []models.Prescription
	err := s.db.Preload("Patient").
		Where("date_added <= ?", time.Now().AddDate(0, 0, -minDays)).
		Order("date_added").Find(&prescs).Error
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]OverdueItem, 0, len(prescs))
	for _, p := range prescs {
		days := int(now.Sub(p.DateAdded).Hours() / 24)
		if days < minDays {
			continue
		}
		items = append(items, OverdueItem{
			PrescriptionID: p.ID,
			PatientID:      p.PatientID,
			PatientName:    p.Patient.Name,
			Address:        p.Patient.Address,
			Medication:     p.Medication,
			Quantity:       p.Quantity,
			DaysOverdue:    days,
			SlotID:         p.SlotID,
		})
	}
	return items, nil
}

// AggregateByPatient folds overdue items into one row per patient: count,
// oldest age, and the distinct slots to light up for a pickup reminder run.
func AggregateByPatient(items []OverdueItem) []PatientOverdue {
	index := make(map[uint]int)
	var out []PatientOverdue
	for _, it := range items {
		i, ok := index[it.PatientID]
		if !ok {
			index[it.PatientID] = len(out)
			out = append(out, PatientOverdue{
				PatientID:   it.PatientID,
				PatientName: it.PatientName,
				Address:     it.Address,
			})
			i = len(out) - 1
		}
		out[i].Count++
		if it.DaysOverdue > out[i].OldestDays {
			out[i].OldestDays = it.DaysOverdue
		}
		if it.SlotID != nil {
			dup := false
			for _, id := range out[i].SlotIDs {
				if id == *it.SlotID {
					dup = true
					break
				}
			}
			if !dup {
				out[i].SlotIDs = append(out[i].SlotIDs, *it.SlotID)
			}
		}
	}
	return out
}
