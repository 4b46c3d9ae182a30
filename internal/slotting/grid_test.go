package slotting

import (
	"errors"
	"testing"

	"github.com/pharmled/pharmledgo/internal/models"
)

func TestCreateShelfPopulatesSlots(t *testing.T) {
	s := newTestService(t)
	mustShelf(t, s, "f", 2, 3)

	shelf, err := s.GetShelf("F")
	if err != nil {
		t.Fatalf("get shelf: %v", err)
	}
	if shelf.Name != "F" {
		t.Errorf("shelf name = %q, want F (uppercased)", shelf.Name)
	}

	var count int64
	s.db.Model(&models.Slot{}).Where("shelf = ?", "F").Count(&count)
	if count != 6 {
		t.Errorf("slot count = %d, want 6", count)
	}

	// Corner cells exist and start free
	for _, addr := range []struct {
		row string
		col int
	}{{"A", 1}, {"A", 3}, {"B", 1}, {"B", 3}} {
		slot, err := s.SlotAt("F", addr.row, addr.col)
		if err != nil {
			t.Fatalf("slot F-%s%d: %v", addr.row, addr.col, err)
		}
		if slot.Occupied {
			t.Errorf("slot F-%s%d starts occupied", addr.row, addr.col)
		}
	}
}

func TestCreateShelfRejectsDuplicate(t *testing.T) {
	s := newTestService(t)
	mustShelf(t, s, "F", 2, 3)

	if _, err := s.CreateShelf("f", 4, 4); !errors.Is(err, ErrDuplicateShelf) {
		t.Errorf("duplicate create error = %v, want ErrDuplicateShelf", err)
	}
}

func TestPopulateSlotsIsIdempotent(t *testing.T) {
	s := newTestService(t)
	mustShelf(t, s, "F", 2, 3)

	if err := s.PopulateSlots("F"); err != nil {
		t.Fatalf("repopulate: %v", err)
	}
	var count int64
	s.db.Model(&models.Slot{}).Where("shelf = ?", "F").Count(&count)
	if count != 6 {
		t.Errorf("slot count after repopulate = %d, want 6", count)
	}
}

func TestResizeShelfGrowsAndKeepsOccupancy(t *testing.T) {
	s := newTestService(t)
	mustShelf(t, s, "F", 2, 3)
	occupied := occupyAt(t, s, "F", "A", 2)

	shelf, err := s.ResizeShelf("F", 3, 5)
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	if shelf.RowsCount != 3 || shelf.ColsCount != 5 {
		t.Errorf("resized extent = %dx%d, want 3x5", shelf.RowsCount, shelf.ColsCount)
	}

	var count int64
	s.db.Model(&models.Slot{}).Where("shelf = ?", "F").Count(&count)
	if count != 15 {
		t.Errorf("slot count after grow = %d, want 15", count)
	}

	kept, err := s.SlotByID(occupied.ID)
	if err != nil {
		t.Fatalf("refetch occupied slot: %v", err)
	}
	if !kept.Occupied {
		t.Error("growing the shelf cleared an occupied flag")
	}

	// New extent cells exist and are free
	added, err := s.SlotAt("F", "C", 5)
	if err != nil {
		t.Fatalf("new cell C5: %v", err)
	}
	if added.Occupied {
		t.Error("new cell starts occupied")
	}
}

func TestResizeShelfRejectsShrink(t *testing.T) {
	s := newTestService(t)
	mustShelf(t, s, "F", 3, 5)

	if _, err := s.ResizeShelf("F", 2, 5); !errors.Is(err, ErrShelfShrink) {
		t.Errorf("row shrink error = %v, want ErrShelfShrink", err)
	}
	if _, err := s.ResizeShelf("F", 3, 4); !errors.Is(err, ErrShelfShrink) {
		t.Errorf("col shrink error = %v, want ErrShelfShrink", err)
	}
}

func TestRenameShelfCascades(t *testing.T) {
	s := newTestService(t)
	mustShelf(t, s, "F", 2, 3)
	if err := s.SeedSections(); err != nil {
		t.Fatalf("seed sections: %v", err)
	}
	mustSection(t, s, "B", "F", "A1", "B3")

	if err := s.RenameShelf("F", "G"); err != nil {
		t.Fatalf("rename: %v", err)
	}

	if _, err := s.GetShelf("F"); !errors.Is(err, ErrShelfNotFound) {
		t.Errorf("old name lookup error = %v, want ErrShelfNotFound", err)
	}
	if _, err := s.GetShelf("G"); err != nil {
		t.Errorf("new name lookup failed: %v", err)
	}

	var slots int64
	s.db.Model(&models.Slot{}).Where("shelf = ?", "G").Count(&slots)
	if slots != 6 {
		t.Errorf("slots under new name = %d, want 6", slots)
	}

	bounds, err := s.GetSection("B")
	if err != nil {
		t.Fatalf("get section: %v", err)
	}
	if bounds == nil || bounds.Shelf != "G" {
		t.Errorf("section shelf after rename = %+v, want shelf G", bounds)
	}
}

func TestDeleteShelfGuards(t *testing.T) {
	s := newTestService(t)
	mustShelf(t, s, "F", 2, 3)
	if err := s.SeedSections(); err != nil {
		t.Fatalf("seed sections: %v", err)
	}

	occupyAt(t, s, "F", "A", 1)
	if err := s.DeleteShelf("F"); !errors.Is(err, ErrShelfInUse) {
		t.Errorf("delete with occupied slot error = %v, want ErrShelfInUse", err)
	}

	slot, _ := s.SlotAt("F", "A", 1)
	if err := s.Release([]int64{slot.ID}); err != nil {
		t.Fatalf("release: %v", err)
	}

	mustSection(t, s, "C", "F", "A1", "B3")
	if err := s.DeleteShelf("F"); !errors.Is(err, ErrShelfReferenced) {
		t.Errorf("delete with bound section error = %v, want ErrShelfReferenced", err)
	}

	mustSection(t, s, "C", "", "", "")
	if err := s.DeleteShelf("F"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var count int64
	s.db.Model(&models.Slot{}).Where("shelf = ?", "F").Count(&count)
	if count != 0 {
		t.Errorf("slots left after delete = %d, want 0", count)
	}
}
