package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Slot labels are the external display form of a storage cell:
//
//	"F-A61"   shelf F, row A, column 61 (canonical)
//	"F-A-61"  three-part hyphenated variant
//	"1234"    raw numeric slot id
//
// Formatting always produces the canonical two-part form; parsing accepts all
// three so manual entry and scanned QR payloads resolve the same way.

// SlotRef is the result of parsing a label. Either ID is set (raw numeric
// input) or the Shelf/Row/Col address is.
type SlotRef struct {
	ID    int64
	Shelf string
	Row   string
	Col   int
}

// IsID reports whether the reference carries a raw slot id instead of an address.
func (r SlotRef) IsID() bool {
	return r.ID != 0
}

// FormatSlotLabel renders the canonical display form, e.g. "F-A61".
func FormatSlotLabel(shelf, row string, col int) string {
	return fmt.Sprintf("%s-%s%d", shelf, row, col)
}

// ParseSlotLabel parses any accepted label form into a SlotRef.
func ParseSlotLabel(label string) (*SlotRef, error) {
	s := strings.ToUpper(strings.TrimSpace(label))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "--", "-")
	if s == "" {
		return nil, errors.New("empty label")
	}

	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		if id <= 0 {
			return nil, errors.New("slot id must be positive")
		}
		return &SlotRef{ID: id}, nil
	}

	parts := strings.Split(s, "-")
	switch len(parts) {
	case 2:
		// "F-A61"
		shelf, rowcol := parts[0], parts[1]
		if shelf == "" || len(rowcol) < 2 {
			return nil, fmt.Errorf("malformed label %q", label)
		}
		row := string(rowcol[0])
		if row < "A" || row > "Z" {
			return nil, fmt.Errorf("invalid row letter in %q", label)
		}
		col, err := strconv.Atoi(rowcol[1:])
		if err != nil || col < 1 {
			return nil, fmt.Errorf("invalid column in %q", label)
		}
		return &SlotRef{Shelf: shelf, Row: row, Col: col}, nil
	case 3:
		// "F-A-61"
		shelf, row, coltxt := parts[0], parts[1], parts[2]
		if shelf == "" || len(row) != 1 || row < "A" || row > "Z" {
			return nil, fmt.Errorf("malformed label %q", label)
		}
		col, err := strconv.Atoi(coltxt)
		if err != nil || col < 1 {
			return nil, fmt.Errorf("invalid column in %q", label)
		}
		return &SlotRef{Shelf: shelf, Row: row, Col: col}, nil
	}
	return nil, fmt.Errorf("malformed label %q", label)
}
