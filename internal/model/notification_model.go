package model

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AccountID uuid.UUID `gorm:"type:uuid;index" json:"account_id"`
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Type      string    `gorm:"type:varchar(50)" json:"type"`
	Title     string    `gorm:"type:varchar(255)" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func (n *Notification) TableName() string {
	return "notifications"
}

const (
	QueuedKindAssessment = "assessment_email"
)

// QueuedNotification is a deferred-delivery row. The notification worker
// claims rows whose ProcessAfter has passed and ProcessedAt is still nil.
type QueuedNotification struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AccountID    uuid.UUID  `gorm:"type:uuid;index" json:"account_id"`
	CandidateID  uuid.UUID  `gorm:"type:uuid;index" json:"candidate_id"`
	Kind         string     `gorm:"type:varchar(50)" json:"kind"`
	Payload      string     `gorm:"type:jsonb" json:"payload"`
	ProcessAfter time.Time  `gorm:"index" json:"process_after"`
	ProcessedAt  *time.Time `json:"processed_at"`
	LastError    string     `gorm:"type:text" json:"last_error"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (q *QueuedNotification) TableName() string {
	return "queued_notifications"
}
