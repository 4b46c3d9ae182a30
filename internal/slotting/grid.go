package slotting

import (
	"errors"
	"strconv"
	"strings"

	"github.com/pharmled/pharmledgo/internal/models"
	"gorm.io/gorm"
)

// CreateShelf registers a new shelf and bulk-creates its slots
func (s *Service) CreateShelf(name string, rows, cols int) (*models.Shelf, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" || rows < 1 || cols < 1 {
		return nil, errors.New("shelf needs a name and at least one row and column")
	}

	var count int64
	if err := s.db.Model(&models.Shelf{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateShelf
	}

	shelf := models.Shelf{Name: name, RowsCount: rows, ColsCount: cols}
	if err := s.db.Create(&shelf).Error; err != nil {
		return nil, err
	}
	if err := s.PopulateSlots(name); err != nil {
		return nil, err
	}
	return &shelf, nil
}

// GetShelf fetches a shelf by name, case-insensitively
func (s *Service) GetShelf(name string) (*models.Shelf, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	var shelf models.Shelf
	err := s.db.Where("name = ?", name).First(&shelf).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShelfNotFound
		}
		return nil, err
	}
	return &shelf, nil
}

// ListShelves returns all shelves ordered by name
func (s *Service) ListShelves() ([]models.Shelf, error) {
	var shelves []models.Shelf
	if err := s.db.Order("name").Find(&shelves).Error; err != nil {
		return nil, err
	}
	return shelves, nil
}

// PopulateSlots creates every missing slot cell inside the shelf's current
// extent: rows 'A'..'A'+RowsCount-1, columns 1..ColsCount, all free.
// Cells that already exist are left untouched, so re-saving settings never
// duplicates slots and growing a shelf fills in only the new extent.
func (s *Service) PopulateSlots(shelfName string) error {
	shelf, err := s.GetShelf(shelfName)
	if err != nil {
		return err
	}

	var existing []models.Slot
	if err := s.db.Select("row", "col").Where("shelf = ?", shelf.Name).Find(&existing).Error; err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, sl := range existing {
		have[sl.Row+"/"+strconv.Itoa(sl.Col)] = true
	}

	var missing []models.Slot
	for i := 0; i < shelf.RowsCount; i++ {
		row := string(rune('A' + i))
		for col := 1; col <= shelf.ColsCount; col++ {
			if have[row+"/"+strconv.Itoa(col)] {
				continue
			}
			missing = append(missing, models.Slot{Shelf: shelf.Name, Row: row, Col: col})
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return s.db.CreateInBatches(missing, 500).Error
}

// ResizeShelf grows a shelf's extent and populates the added cells.
// Shrinking is not supported: it would orphan occupied cells, so a smaller
// extent in either dimension is rejected outright.
func (s *Service) ResizeShelf(name string, rows, cols int) (*models.Shelf, error) {
	shelf, err := s.GetShelf(name)
	if err != nil {
		return nil, err
	}
	if rows < shelf.RowsCount || cols < shelf.ColsCount {
		return nil, ErrShelfShrink
	}
	shelf.RowsCount = rows
	shelf.ColsCount = cols
	if err := s.db.Save(shelf).Error; err != nil {
		return nil, err
	}
	if err := s.PopulateSlots(shelf.Name); err != nil {
		return nil, err
	}
	return shelf, nil
}

// RenameShelf renames a shelf, cascading over its slots and any letter
// sections bound to it.
func (s *Service) RenameShelf(oldName, newName string) error {
	newName = strings.ToUpper(strings.TrimSpace(newName))
	oldName = strings.ToUpper(strings.TrimSpace(oldName))
	if newName == "" {
		return errors.New("new shelf name must not be empty")
	}
	if newName == oldName {
		return nil
	}
	if _, err := s.GetShelf(oldName); err != nil {
		return err
	}
	if _, err := s.GetShelf(newName); err == nil {
		return ErrDuplicateShelf
	} else if !errors.Is(err, ErrShelfNotFound) {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Shelf{}).Where("name = ?", oldName).Update("name", newName).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Slot{}).Where("shelf = ?", oldName).Update("shelf", newName).Error; err != nil {
			return err
		}
		return tx.Model(&models.LetterSection{}).Where("shelf = ?", oldName).Update("shelf", newName).Error
	})
}

// DeleteShelf removes a shelf and its slots. Blocked while any slot on it is
// occupied or any letter section still points at it.
func (s *Service) DeleteShelf(name string) error {
	name = strings.ToUpper(strings.TrimSpace(name))
	if _, err := s.GetShelf(name); err != nil {
		return err
	}

	var occupied int64
	if err := s.db.Model(&models.Slot{}).Where("shelf = ? AND occupied = ?", name, true).Count(&occupied).Error; err != nil {
		return err
	}
	if occupied > 0 {
		return ErrShelfInUse
	}

	var refs int64
	if err := s.db.Model(&models.LetterSection{}).Where("shelf = ?", name).Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		return ErrShelfReferenced
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shelf = ?", name).Delete(&models.Slot{}).Error; err != nil {
			return err
		}
		return tx.Where("name = ?", name).Delete(&models.Shelf{}).Error
	})
}
