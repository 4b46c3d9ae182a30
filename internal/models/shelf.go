package models

import (
	"time"
)

// Shelf represents one physical storage unit. Row letters run 'A'..'A'+RowsCount-1,
// columns 1..ColsCount. Shelves only grow: shrinking would orphan occupied cells.
type Shelf struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	RowsCount int       `gorm:"not null;default:1" json:"rows_count"`
	ColsCount int       `gorm:"not null;default:1" json:"cols_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Shelf model
func (Shelf) TableName() string {
	return "shelves"
}

// Slot is one addressable storage cell, unique per (shelf, row, col).
// Occupied is the authoritative ledger flag, repaired by reconciliation.
type Slot struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	Shelf    string `gorm:"not null;uniqueIndex:idx_slot_addr,priority:1" json:"shelf"`
	Row      string `gorm:"type:varchar(1);not null;uniqueIndex:idx_slot_addr,priority:2" json:"row"`
	Col      int    `gorm:"not null;uniqueIndex:idx_slot_addr,priority:3" json:"col"`
	Occupied bool   `gorm:"default:false;index" json:"occupied"`
}

// TableName specifies the table name for Slot model
func (Slot) TableName() string {
	return "slots"
}
