package slotting

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/pharmled/pharmledgo/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestService opens a fresh in-memory database per test so cases never
// leak state into each other.
func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Patient{},
		&models.Prescription{},
		&models.Shelf{},
		&models.Slot{},
		&models.LetterSection{},
	)
	if err != nil {
		t.Fatalf("migrate test schema: %v", err)
	}
	return NewService(db)
}

// mustShelf creates a shelf or fails the test
func mustShelf(t *testing.T, s *Service, name string, rows, cols int) {
	t.Helper()
	if _, err := s.CreateShelf(name, rows, cols); err != nil {
		t.Fatalf("create shelf %s: %v", name, err)
	}
}

// mustSection configures a letter section or fails the test
func mustSection(t *testing.T, s *Service, letter, shelf, lower, upper string) {
	t.Helper()
	if err := s.SetSection(letter, shelf, lower, upper); err != nil {
		t.Fatalf("set section %s: %v", letter, err)
	}
}

// mustPatient inserts a patient row
func mustPatient(t *testing.T, s *Service, name, address string) *models.Patient {
	t.Helper()
	p := &models.Patient{Name: name, Address: address}
	if err := s.db.Create(p).Error; err != nil {
		t.Fatalf("create patient %s: %v", name, err)
	}
	return p
}

// mustPrescription inserts a prescription row
func mustPrescription(t *testing.T, s *Service, patientID uint, basket models.BasketSize) *models.Prescription {
	t.Helper()
	p := &models.Prescription{
		PatientID:  patientID,
		Medication: "Test Medication",
		Quantity:   1,
		BasketSize: basket,
	}
	if err := s.db.Create(p).Error; err != nil {
		t.Fatalf("create prescription: %v", err)
	}
	return p
}

// occupyAt marks a cell occupied directly, simulating pre-existing baskets
func occupyAt(t *testing.T, s *Service, shelf, row string, col int) *models.Slot {
	t.Helper()
	slot, err := s.SlotAt(shelf, row, col)
	if err != nil {
		t.Fatalf("slot %s-%s%d: %v", shelf, row, col, err)
	}
	if err := s.Reserve([]int64{slot.ID}); err != nil {
		t.Fatalf("reserve %s-%s%d: %v", shelf, row, col, err)
	}
	return slot
}

// labelOf renders a slot id's label or fails
func labelOf(t *testing.T, s *Service, id int64) string {
	t.Helper()
	label, err := s.LabelForSlot(id)
	if err != nil {
		t.Fatalf("label for slot %d: %v", id, err)
	}
	return label
}
