package slotting

import (
	"testing"

	"github.com/pharmled/pharmledgo/internal/models"
)

func TestLetterForPatient(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Anna Becker", "B"},
		{"maria schmidt", "S"},
		{"Wagner", "W"},
		{"Jean-Pierre de la Cruz", "C"},
		{"  Sofia   Keller  ", "K"},
		{"", "A"},
		{"   ", "A"},
		{"Anna 42", "A"},
		{"Åsa Öberg", "A"},
	}
	for _, tt := range tests {
		if got := LetterForPatient(tt.name); got != tt.want {
			t.Errorf("LetterForPatient(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestIsInSectionBoundaryRows(t *testing.T) {
	s := newTestService(t)
	mustShelf(t, s, "F", 6, 20)
	mustShelf(t, s, "G", 2, 5)
	if err := s.SeedSections(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// Section C spans rows B-D on shelf F, columns 5..15 on the boundary
	// rows only.
	mustSection(t, s, "C", "F", "B5", "D15")

	tests := []struct {
		shelf string
		row   string
		col   int
		want  bool
	}{
		{"F", "B", 5, true},   // first cell
		{"F", "D", 15, true},  // last cell
		{"F", "B", 4, false},  // before start on the first row
		{"F", "D", 16, false}, // past end on the last row
		{"F", "C", 1, true},   // interior row spans all columns
		{"F", "C", 20, true},
		{"F", "A", 10, false}, // row above
		{"F", "E", 10, false}, // row below
		{"G", "B", 5, false},  // right address, wrong shelf
	}
	for _, tt := range tests {
		slot, err := s.SlotAt(tt.shelf, tt.row, tt.col)
		if err != nil {
			t.Fatalf("slot %s-%s%d: %v", tt.shelf, tt.row, tt.col, err)
		}
		got, err := s.IsInSection("C", slot.ID)
		if err != nil {
			t.Fatalf("check %s-%s%d: %v", tt.shelf, tt.row, tt.col, err)
		}
		if got != tt.want {
			t.Errorf("IsInSection(C, %s-%s%d) = %v, want %v", tt.shelf, tt.row, tt.col, got, tt.want)
		}
	}
}

func TestIsInSectionExemptions(t *testing.T) {
	s := newTestService(t)
	mustShelf(t, s, "F", 2, 3)
	if err := s.SeedSections(); err != nil {
		t.Fatalf("seed: %v", err)
	}

	slot, _ := s.SlotAt("F", "A", 1)

	// Overflow placements never count as misfiled.
	if got, err := s.IsInSection(models.OverflowLetter, slot.ID); err != nil || !got {
		t.Errorf("IsInSection(Overflow) = (%v, %v), want (true, nil)", got, err)
	}
	// Unconfigured sections don't flag anything.
	if got, err := s.IsInSection("Q", slot.ID); err != nil || !got {
		t.Errorf("IsInSection(unconfigured) = (%v, %v), want (true, nil)", got, err)
	}
	// Missing slots are the reconciler's problem, not a section mismatch.
	mustSection(t, s, "B", "F", "A1", "B3")
	if got, err := s.IsInSection("B", 99999); err != nil || !got {
		t.Errorf("IsInSection(missing slot) = (%v, %v), want (true, nil)", got, err)
	}
}

func TestPlacementsForPrescriptionFlagsWrongSection(t *testing.T) {
	s := newTestService(t)
	mustShelf(t, s, "F", 2, 3)
	if err := s.SeedSections(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	mustSection(t, s, "B", "F", "A1", "A3")
	mustSection(t, s, "S", "F", "B1", "B3")

	patient := mustPatient(t, s, "Anna Becker", "")
	presc := mustPrescription(t, s, patient.ID, models.BasketSmall)

	placements, err := s.PlacementsForPrescription(presc.ID)
	if err != nil {
		t.Fatalf("placements: %v", err)
	}
	if placements != nil {
		t.Errorf("unassigned prescription has placements %v", placements)
	}

	// Inside her own section: no flag.
	if _, err := s.AssignManual(presc.ID, "F", "A", 2); err != nil {
		t.Fatalf("assign: %v", err)
	}
	placements, err = s.PlacementsForPrescription(presc.ID)
	if err != nil {
		t.Fatalf("placements: %v", err)
	}
	if len(placements) != 1 || placements[0].WrongSection {
		t.Errorf("placements = %+v, want one unflagged cell", placements)
	}
	if placements[0].Label != "F-A2" {
		t.Errorf("label = %s, want F-A2", placements[0].Label)
	}

	// Moved into the S section: flagged.
	if _, err := s.AssignManual(presc.ID, "F", "B", 1); err != nil {
		t.Fatalf("reassign: %v", err)
	}
	placements, err = s.PlacementsForPrescription(presc.ID)
	if err != nil {
		t.Fatalf("placements: %v", err)
	}
	if len(placements) != 1 || !placements[0].WrongSection {
		t.Errorf("placements = %+v, want one flagged cell", placements)
	}
}
