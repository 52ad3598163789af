package services

import (
	"log"

	"gorm.io/gorm"

	"github.com/wangari/restaurant-api/models"
)

// LogActivity appends an audit trail entry. Logging is best-effort: a
// failure here must never fail the operation being logged, so errors are
// written to the server log and swallowed.
func LogActivity(db *gorm.DB, userID *uint, action, modelName, objectID, description, oldValue, newValue, ipAddress string) {
	entry := models.ActivityLog{
		UserID:      userID,
		Action:      action,
		ModelName:   modelName,
		ObjectID:    objectID,
		Description: description,
		OldValue:    oldValue,
		NewValue:    newValue,
		IPAddress:   ipAddress,
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("failed to record activity log entry (%s %s %s): %v", action, modelName, objectID, err)
	}
}
