package slotting

import (
	"testing"

	"github.com/pharmled/pharmledgo/internal/models"
)

func TestFindInSectionFirstFit(t *testing.T) {
	s := newTestService(t)
	mustShelf(t, s, "F", 2, 3)
	if err := s.SeedSections(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	mustSection(t, s, "A", "F", "A1", "B3")

	group, err := s.FindForLetter("A", models.BasketSmall)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if group == nil {
		t.Fatal("no slot found on an empty shelf")
	}
	if got := labelOf(t, s, group.Primary()); got != "F-A1" {
		t.Errorf("first fit = %s, want F-A1", got)
	}

	occupyAt(t, s, "F", "A", 1)
	group, err = s.FindForLetter("A", models.BasketSmall)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got := labelOf(t, s, group.Primary()); got != "F-A2" {
		t.Errorf("next fit = %s, want F-A2", got)
	}
}

func TestFindInSectionLargeSkipsToAdjacentPair(t *testing.T) {
	s := newTestService(t)
	mustShelf(t, s, "F", 2, 3)
	if err := s.SeedSections(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	mustSection(t, s, "A", "F", "A1", "B3")

	// A1-A3 and B1 taken: the first free pair is B2+B3
	occupyAt(t, s, "F", "A", 1)
	occupyAt(t, s, "F", "A", 2)
	occupyAt(t, s, "F", "A", 3)
	occupyAt(t, s, "F", "B", 1)

	group, err := s.FindForLetter("A", models.BasketLarge)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if group == nil {
		t.Fatal("no pair found")
	}
	labels := s.LabelsForSlots(group.SlotIDs)
	if len(labels) != 2 || labels[0] != "F-B2" || labels[1] != "F-B3" {
		t.Errorf("large group = %v, want [F-B2 F-B3]", labels)
	}
}

func TestFindInSectionLargeNeverWrapsRows(t *testing.T) {
	s := newTestService(t)
	mustShelf(t, s, "F", 2, 3)
	if err := s.SeedSections(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	mustSection(t, s, "A", "F", "A1", "B3")

	// A3 free, but its pair would need B1: not adjacent, so the search must
	// land on B1+B2 instead.
	occupyAt(t, s, "F", "A", 1)
	occupyAt(t, s, "F", "A", 2)

	group, err := s.FindForLetter("A", models.BasketLarge)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	labels := s.LabelsForSlots(group.SlotIDs)
	if len(labels) != 2 || labels[0] != "F-B1" || labels[1] != "F-B2" {
		t.Errorf("large group = %v, want [F-B1 F-B2]", labels)
	}
}

func TestFindInSectionRespectsBoundaryColumns(t *testing.T) {
	s := newTestService(t)
	mustShelf(t, s, "F", 3, 10)
	if err := s.SeedSections(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// Section starts mid-row: A1-A4 belong to someone else.
	mustSection(t, s, "B", "F", "A5", "B6")

	group, err := s.FindForLetter("B", models.BasketSmall)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got := labelOf(t, s, group.Primary()); got != "F-A5" {
		t.Errorf("first fit = %s, want F-A5 (start column honored)", got)
	}

	// Fill the whole span: A5-A10 (interior of row A past start) and B1-B6.
	for col := 5; col <= 10; col++ {
		occupyAt(t, s, "F", "A", col)
	}
	for col := 1; col <= 6; col++ {
		occupyAt(t, s, "F", "B", col)
	}
	group, err = s.FindForLetter("B", models.BasketSmall)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if group != nil {
		t.Errorf("full section returned %v, want nil (B7+ is outside the end bound)", s.LabelsForSlots(group.SlotIDs))
	}
}

func TestFindInSectionClampsToPopulatedExtent(t *testing.T) {
	s := newTestService(t)
	mustShelf(t, s, "F", 2, 3)
	if err := s.SeedSections(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// Bounds reach past the physical shelf: rows C-D and columns up to 99
	// don't exist. The scan must stay inside what is populated.
	mustSection(t, s, "A", "F", "A1", "D99")

	occupyAt(t, s, "F", "A", 1)
	occupyAt(t, s, "F", "A", 2)
	occupyAt(t, s, "F", "A", 3)
	occupyAt(t, s, "F", "B", 1)
	occupyAt(t, s, "F", "B", 2)

	group, err := s.FindForLetter("A", models.BasketSmall)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got := labelOf(t, s, group.Primary()); got != "F-B3" {
		t.Errorf("fit = %s, want F-B3", got)
	}

	occupyAt(t, s, "F", "B", 3)
	group, err = s.FindForLetter("A", models.BasketSmall)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if group != nil {
		t.Errorf("full shelf returned %v, want nil", s.LabelsForSlots(group.SlotIDs))
	}
}

func TestFindForLetterUnconfiguredSection(t *testing.T) {
	s := newTestService(t)
	mustShelf(t, s, "F", 2, 3)
	if err := s.SeedSections(); err != nil {
		t.Fatalf("seed: %v", err)
	}

	group, err := s.FindForLetter("Z", models.BasketSmall)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if group != nil {
		t.Errorf("unconfigured section allocated %v, want nil", group)
	}
}

func TestFindWithOverflowFallsBack(t *testing.T) {
	s := newTestService(t)
	mustShelf(t, s, "F", 1, 2)
	mustShelf(t, s, "L", 1, 4)
	if err := s.SeedSections(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	mustSection(t, s, "A", "F", "A1", "A2")
	mustSection(t, s, models.OverflowLetter, "L", "A1", "A4")

	// Primary section full
	occupyAt(t, s, "F", "A", 1)
	occupyAt(t, s, "F", "A", 2)

	group, err := s.FindWithOverflow("A", models.BasketSmall)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if group == nil {
		t.Fatal("overflow fallback found nothing")
	}
	if group.Shelf != "L" {
		t.Errorf("fallback shelf = %s, want L", group.Shelf)
	}
	if got := labelOf(t, s, group.Primary()); got != "L-A1" {
		t.Errorf("fallback slot = %s, want L-A1", got)
	}
}

func TestFindWithOverflowNothingAnywhere(t *testing.T) {
	s := newTestService(t)
	mustShelf(t, s, "F", 1, 1)
	if err := s.SeedSections(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	mustSection(t, s, "A", "F", "A1", "A1")
	occupyAt(t, s, "F", "A", 1)

	// Overflow unconfigured: the search ends with a clean no-fit.
	group, err := s.FindWithOverflow("A", models.BasketSmall)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if group != nil {
		t.Errorf("got %v, want nil", group)
	}
}
