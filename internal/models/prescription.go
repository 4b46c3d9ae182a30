package models

import (
	"time"

	"gorm.io/gorm"
)

// BasketSize defines how many adjacent slots a prescription basket needs
type BasketSize string

const (
	BasketSmall BasketSize = "small" // one slot
	BasketLarge BasketSize = "large" // two column-adjacent slots on the same row
)

// Normalize maps empty or unknown values to BasketSmall, matching how
// legacy rows without a basket size are treated everywhere else.
func (b BasketSize) Normalize() BasketSize {
	if b == BasketLarge {
		return BasketLarge
	}
	return BasketSmall
}

// SlotCount returns the number of cells the basket occupies
func (b BasketSize) SlotCount() int {
	if b.Normalize() == BasketLarge {
		return 2
	}
	return 1
}

// Prescription represents a filled prescription waiting for pickup.
// SlotID references the first cell of the basket's slot group; for large
// baskets the second cell is the col+1 neighbour on the same shelf row.
type Prescription struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	PatientID  uint           `gorm:"not null;index" json:"patient_id"`
	Medication string         `gorm:"not null" json:"medication"`
	Quantity   int            `json:"quantity"`
	DateAdded  time.Time      `json:"date_added"`
	BasketSize BasketSize     `gorm:"type:varchar(8);default:'small'" json:"basket_size"`
	SlotID     *int64         `gorm:"index" json:"slot_id,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

// TableName specifies the table name for Prescription model
func (Prescription) TableName() string {
	return "prescriptions"
}

// BeforeCreate stamps DateAdded for rows created without one
func (p *Prescription) BeforeCreate(tx *gorm.DB) error {
	if p.DateAdded.IsZero() {
		p.DateAdded = time.Now()
	}
	p.BasketSize = p.BasketSize.Normalize()
	return nil
}
