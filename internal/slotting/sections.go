package slotting

import (
	"errors"
	"strconv"
	"strings"

	"github.com/pharmled/pharmledgo/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Bounds is a resolved, parsable section: a rectangular span on one shelf.
// Columns outside [StartCol, EndCol] only matter on the boundary rows;
// interior rows span the shelf's full populated column range.
type Bounds struct {
	Shelf    string `json:"shelf"`
	StartRow string `json:"start_row"`
	StartCol int    `json:"start_col"`
	EndRow   string `json:"end_row"`
	EndCol   int    `json:"end_col"`
}

// parseBound parses "A1" into ("A", 1). ok is false for anything that is not
// a single row letter A-Z followed by a positive integer.
func parseBound(text string) (row string, col int, ok bool) {
	s := strings.ToUpper(strings.TrimSpace(text))
	if len(s) < 2 {
		return "", 0, false
	}
	row = string(s[0])
	if row < "A" || row > "Z" {
		return "", 0, false
	}
	col, err := strconv.Atoi(s[1:])
	if err != nil || col < 1 {
		return "", 0, false
	}
	return row, col, true
}

// normalizeLetter maps user input onto the stored section keys: single
// letters uppercase, any casing of the overflow name to its canonical form.
func normalizeLetter(letter string) string {
	letter = strings.TrimSpace(letter)
	if strings.EqualFold(letter, models.OverflowLetter) {
		return models.OverflowLetter
	}
	return strings.ToUpper(letter)
}

// SeedSections inserts any missing letter rows (A-Z plus Overflow), blank.
// Safe to run at every startup; existing rows are never touched.
func (s *Service) SeedSections() error {
	for _, letter := range models.SectionLetters() {
		sec := models.LetterSection{Letter: letter}
		err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&sec).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// ListSections returns all 27 section rows in filing order
func (s *Service) ListSections() ([]models.LetterSection, error) {
	var raw []models.LetterSection
	if err := s.db.Find(&raw).Error; err != nil {
		return nil, err
	}
	byLetter := make(map[string]models.LetterSection, len(raw))
	for _, sec := range raw {
		byLetter[sec.Letter] = sec
	}
	ordered := make([]models.LetterSection, 0, len(raw))
	for _, letter := range models.SectionLetters() {
		if sec, ok := byLetter[letter]; ok {
			ordered = append(ordered, sec)
		}
	}
	return ordered, nil
}

// SetSection updates a letter's binding. A blank shelf unconfigures the
// section (bounds are cleared with it). A non-blank shelf must exist and
// both bounds must parse, with the lower bound's row not after the upper's.
func (s *Service) SetSection(letter, shelf, lower, upper string) error {
	letter = normalizeLetter(letter)
	shelf = strings.ToUpper(strings.TrimSpace(shelf))

	if shelf == "" {
		lower, upper = "", ""
	} else {
		if _, err := s.GetShelf(shelf); err != nil {
			if errors.Is(err, ErrShelfNotFound) {
				return ErrUnknownShelf
			}
			return err
		}
		loRow, _, loOK := parseBound(lower)
		upRow, _, upOK := parseBound(upper)
		if !loOK || !upOK {
			return ErrInvalidBound
		}
		if loRow > upRow {
			return ErrInvalidBound
		}
		lower = strings.ToUpper(strings.TrimSpace(lower))
		upper = strings.ToUpper(strings.TrimSpace(upper))
	}

	sec := models.LetterSection{
		Letter:     letter,
		Shelf:      shelf,
		LowerBound: lower,
		UpperBound: upper,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "letter"}},
		UpdateAll: true,
	}).Create(&sec).Error
}

// GetSection resolves a letter's section to concrete bounds. Returns
// (nil, nil) when the section is unconfigured: blank shelf or either bound
// unparsable. Callers must treat nil as "no capacity here".
func (s *Service) GetSection(letter string) (*Bounds, error) {
	var sec models.LetterSection
	err := s.db.Where("letter = ?", normalizeLetter(letter)).First(&sec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if sec.Shelf == "" {
		return nil, nil
	}
	loRow, loCol, loOK := parseBound(sec.LowerBound)
	upRow, upCol, upOK := parseBound(sec.UpperBound)
	if !loOK || !upOK {
		return nil, nil
	}
	return &Bounds{
		Shelf:    sec.Shelf,
		StartRow: loRow,
		StartCol: loCol,
		EndRow:   upRow,
		EndCol:   upCol,
	}, nil
}

// OverflowSection resolves the reserved fallback section
func (s *Service) OverflowSection() (*Bounds, error) {
	return s.GetSection(models.OverflowLetter)
}
