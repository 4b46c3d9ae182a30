package slotting

import (
	"github.com/pharmled/pharmledgo/internal/models"
)

// FindInSection scans a section's bounds in deterministic row-major,
// column-ascending order and returns the first fitting free slot group, or
// (nil, nil) if the bounds are exhausted. Small baskets take the first free
// cell; large baskets need the cell's col+1 neighbour on the same row free as
// well and never wrap a pair across rows.
//
// Column range per row: the first row starts at StartCol, the last row is
// capped at EndCol, and every row is clamped to the shelf's actually
// populated max column so the scan never reads past the real extent.
func (s *Service) FindInSection(b *Bounds, basket models.BasketSize) (*SlotGroup, error) {
	if b == nil || b.StartRow > b.EndRow {
		return nil, nil
	}
	large := basket.Normalize() == models.BasketLarge

	for r := b.StartRow[0]; r <= b.EndRow[0]; r++ {
		row := string(r)

		maxCol, err := s.maxPopulatedCol(b.Shelf, row)
		if err != nil {
			return nil, err
		}
		if maxCol == 0 {
			continue // row not populated on this shelf
		}

		cStart := 1
		if row == b.StartRow {
			cStart = b.StartCol
		}
		cEnd := maxCol
		if row == b.EndRow && b.EndCol < cEnd {
			cEnd = b.EndCol
		}
		if cStart > cEnd {
			continue
		}

		var cells []models.Slot
		err = s.db.Where(`shelf = ? AND "row" = ?`, b.Shelf, row).Order("col").Find(&cells).Error
		if err != nil {
			return nil, err
		}
		byCol := make(map[int]models.Slot, len(cells))
		for _, c := range cells {
			byCol[c.Col] = c
		}

		for col := cStart; col <= cEnd; col++ {
			cell, exists := byCol[col]
			if !exists || cell.Occupied {
				continue
			}
			if !large {
				return &SlotGroup{SlotIDs: []int64{cell.ID}, Shelf: b.Shelf}, nil
			}
			partner, exists := byCol[col+1]
			if !exists || partner.Occupied {
				continue
			}
			return &SlotGroup{SlotIDs: []int64{cell.ID, partner.ID}, Shelf: b.Shelf}, nil
		}
	}
	return nil, nil
}

// FindForLetter allocates inside the letter's own section only. A nil result
// with nil error means no capacity or no fit; the caller falls back to
// Overflow or manual assignment.
func (s *Service) FindForLetter(letter string, basket models.BasketSize) (*SlotGroup, error) {
	bounds, err := s.GetSection(letter)
	if err != nil {
		return nil, err
	}
	if bounds == nil {
		return nil, nil
	}
	return s.FindInSection(bounds, basket)
}

// FindWithOverflow tries the letter's section first and falls back to the
// reserved Overflow section when the primary has no fit or is unconfigured.
func (s *Service) FindWithOverflow(letter string, basket models.BasketSize) (*SlotGroup, error) {
	group, err := s.FindForLetter(letter, basket)
	if err != nil || group != nil {
		return group, err
	}
	overflow, err := s.OverflowSection()
	if err != nil {
		return nil, err
	}
	if overflow == nil {
		return nil, nil
	}
	return s.FindInSection(overflow, basket)
}
