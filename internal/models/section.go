package models

import "time"

// OverflowLetter is the reserved pseudo-letter used as the fallback
// allocation target when a patient's own section is full or unconfigured.
const OverflowLetter = "Overflow"

// LetterSection binds one filing letter to a rectangular span of slots on a
// single shelf. All 27 rows (A-Z plus Overflow) are seeded at first run and
// only ever edited. A blank shelf or an unparsable bound means the section is
// unconfigured and has no capacity.
type LetterSection struct {
	Letter     string    `gorm:"primaryKey;type:varchar(16)" json:"letter"`
	Shelf      string    `json:"shelf"`
	LowerBound string    `json:"lower_bound"` // e.g. "A1"
	UpperBound string    `json:"upper_bound"` // e.g. "D20"
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for LetterSection model
func (LetterSection) TableName() string {
	return "letter_sections"
}

// SectionLetters returns the 27 seeded letters in filing order
func SectionLetters() []string {
	letters := make([]string, 0, 27)
	for c := 'A'; c <= 'Z'; c++ {
		letters = append(letters, string(c))
	}
	return append(letters, OverflowLetter)
}
