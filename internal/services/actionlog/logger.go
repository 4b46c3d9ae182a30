// Package actionlog records staff-visible system events
package actionlog

import (
	"encoding/json"
	"log"
	"time"

	"github.com/pharmled/pharmledgo/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Logger appends action entries. A failed write is logged and swallowed:
// the action log must never block the operation it describes.
type Logger struct {
	db *gorm.DB
}

// NewLogger creates an action logger
func NewLogger(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

// Log records an action with optional structured details
func (l *Logger) Log(actor, action string, details map[string]interface{}) {
	if actor == "" {
		actor = "system"
	}
	entry := models.ActionLog{
		TS:     time.Now(),
		Actor:  actor,
		Action: action,
	}
	if len(details) > 0 {
		if raw, err := json.Marshal(details); err == nil {
			entry.Details = datatypes.JSON(raw)
		}
	}
	if err := l.db.Create(&entry).Error; err != nil {
		log.Printf("⚠️ Action log write failed: %v", err)
	}
}

// Today returns today's entries, newest first
func (l *Logger) Today(limit int) ([]models.ActionLog, error) {
	if limit <= 0 {
		limit = 300
	}
	midnight := time.Now().Truncate(24 * time.Hour)
	var entries []models.ActionLog
	err := l.db.Where("ts >= ?", midnight).
		Order("ts DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
