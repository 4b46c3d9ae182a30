package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActionLog records staff-visible system events (assignments, releases,
// settings changes). The Details payload carries structured context such as
// slot labels or prescription ids.
type ActionLog struct {
	ID      uint           `gorm:"primaryKey" json:"id"`
	TS      time.Time      `gorm:"index" json:"ts"`
	Actor   string         `gorm:"default:'system'" json:"actor"`
	Action  string         `gorm:"not null" json:"action"`
	Details datatypes.JSON `json:"details,omitempty"`
}

// TableName specifies the table name for ActionLog model
func (ActionLog) TableName() string {
	return "actions_log"
}
