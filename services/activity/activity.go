package activity

import (
	"encoding/json"
	"fmt"
	"time"

	"foodgram-backend/enums"
	"foodgram-backend/models"

	"github.com/jinzhu/gorm"
)

// Insert appends a row to the activity_log table with data serialized as JSON.
func Insert(db *gorm.DB, logName, description string, data interface{}) error {
	properties, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal activity properties: %w", err)
	}

	insertTime := time.Now().UTC()
	activityLogEntity := models.ActivityLog{
		CreatedAt:   &insertTime,
		UpdatedAt:   &insertTime,
		LogName:     logName,
		Description: description,
		Properties:  string(properties),
		CauserType:  enums.SystemOperate,
	}
	if err := db.Create(&activityLogEntity).Error; err != nil {
		return fmt.Errorf("failed to insert activity log: %w", err)
	}
	return nil
}

// Latest returns the newest rows for logName, newest first.
func Latest(db *gorm.DB, logName string, limit int) ([]models.ActivityLog, error) {
	var entities []models.ActivityLog
	err := db.Where("log_name = ?", logName).Order("id desc").Limit(limit).Find(&entities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read activity log: %w", err)
	}
	return entities, nil
}
