package model

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLog is append-only. Details carries free-form JSON, including the
// aggregated side-effect report for lifecycle transitions.
type ActivityLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AccountID  uuid.UUID  `gorm:"type:uuid;index" json:"account_id"`
	UserID     *uuid.UUID `gorm:"type:uuid" json:"user_id"`
	Action     string     `gorm:"type:varchar(100)" json:"action"`
	EntityType string     `gorm:"type:varchar(50)" json:"entity_type"`
	EntityID   uuid.UUID  `gorm:"type:uuid" json:"entity_id"`
	Details    string     `gorm:"type:jsonb" json:"details"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (a *ActivityLog) TableName() string {
	return "activity_logs"
}
