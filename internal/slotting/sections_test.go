package slotting

import (
	"errors"
	"testing"

	"github.com/pharmled/pharmledgo/internal/models"
)

func TestSeedSectionsCreatesFullAlphabet(t *testing.T) {
	s := newTestService(t)
	if err := s.SeedSections(); err != nil {
		t.Fatalf("seed: %v", err)
	}

	sections, err := s.ListSections()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sections) != 27 {
		t.Fatalf("section count = %d, want 27 (A-Z + Overflow)", len(sections))
	}
	if sections[0].Letter != "A" {
		t.Errorf("first section = %q, want A", sections[0].Letter)
	}
	if sections[26].Letter != models.OverflowLetter {
		t.Errorf("last section = %q, want %s", sections[26].Letter, models.OverflowLetter)
	}
	for _, sec := range sections {
		if sec.Shelf != "" {
			t.Errorf("section %s seeded with shelf %q, want blank", sec.Letter, sec.Shelf)
		}
	}
}

func TestSeedSectionsKeepsExistingConfiguration(t *testing.T) {
	s := newTestService(t)
	if err := s.SeedSections(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	mustShelf(t, s, "F", 3, 10)
	mustSection(t, s, "B", "F", "A1", "B10")

	if err := s.SeedSections(); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	bounds, err := s.GetSection("B")
	if err != nil {
		t.Fatalf("get section: %v", err)
	}
	if bounds == nil || bounds.Shelf != "F" {
		t.Errorf("reseeding wiped the configured section: %+v", bounds)
	}
}

func TestSetSectionValidation(t *testing.T) {
	s := newTestService(t)
	if err := s.SeedSections(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	mustShelf(t, s, "F", 3, 10)

	tests := []struct {
		name                string
		shelf, lower, upper string
		wantErr             error
	}{
		{"unknown shelf", "Q", "A1", "B5", ErrUnknownShelf},
		{"garbage lower bound", "F", "11", "B5", ErrInvalidBound},
		{"garbage upper bound", "F", "A1", "banana", ErrInvalidBound},
		{"reversed rows", "F", "C1", "A10", ErrInvalidBound},
		{"valid", "F", "A1", "C10", nil},
		{"valid single row", "F", "B3", "B7", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.SetSection("M", tt.shelf, tt.lower, tt.upper)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SetSection(%q, %q, %q) error = %v, want %v", tt.shelf, tt.lower, tt.upper, err, tt.wantErr)
			}
		})
	}
}

func TestSetSectionBlankShelfClears(t *testing.T) {
	s := newTestService(t)
	if err := s.SeedSections(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	mustShelf(t, s, "F", 3, 10)
	mustSection(t, s, "B", "F", "A1", "B10")

	if err := s.SetSection("B", "", "ignored", "ignored"); err != nil {
		t.Fatalf("clear section: %v", err)
	}
	bounds, err := s.GetSection("B")
	if err != nil {
		t.Fatalf("get section: %v", err)
	}
	if bounds != nil {
		t.Errorf("cleared section still resolves to %+v", bounds)
	}
}

func TestGetSectionNormalizesInput(t *testing.T) {
	s := newTestService(t)
	if err := s.SeedSections(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	mustShelf(t, s, "F", 3, 10)
	mustSection(t, s, "b", "f", " a1 ", "b10")

	bounds, err := s.GetSection("B")
	if err != nil {
		t.Fatalf("get section: %v", err)
	}
	if bounds == nil {
		t.Fatal("lowercase input did not configure section B")
	}
	if bounds.Shelf != "F" || bounds.StartRow != "A" || bounds.StartCol != 1 || bounds.EndRow != "B" || bounds.EndCol != 10 {
		t.Errorf("bounds = %+v, want F A1..B10", bounds)
	}

	if got, _ := s.GetSection("overflow"); got != nil {
		t.Errorf("unconfigured overflow resolved to %+v", got)
	}
}

func TestParseBound(t *testing.T) {
	tests := []struct {
		in  string
		row string
		col int
		ok  bool
	}{
		{"A1", "A", 1, true},
		{"c12", "C", 12, true},
		{" B7 ", "B", 7, true},
		{"A0", "", 0, false},
		{"7A", "", 0, false},
		{"A", "", 0, false},
		{"", "", 0, false},
		{"AA", "", 0, false},
	}
	for _, tt := range tests {
		row, col, ok := parseBound(tt.in)
		if ok != tt.ok || row != tt.row || col != tt.col {
			t.Errorf("parseBound(%q) = (%q, %d, %v), want (%q, %d, %v)", tt.in, row, col, ok, tt.row, tt.col, tt.ok)
		}
	}
}
