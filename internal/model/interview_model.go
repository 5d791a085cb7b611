package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	InterviewStatusScheduled = "scheduled"
	InterviewStatusPending   = "pending"
	InterviewStatusCompleted = "completed"
	InterviewStatusCancelled = "cancelled"
)

type Interview struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AccountID     uuid.UUID  `gorm:"type:uuid;index" json:"account_id"`
	CandidateID   uuid.UUID  `gorm:"type:uuid;index" json:"candidate_id"`
	InterviewerID *uuid.UUID `gorm:"type:uuid" json:"interviewer_id"`
	Type          string     `gorm:"type:varchar(50)" json:"type"`
	Status        string     `gorm:"type:varchar(20)" json:"status"`
	ScheduledDate *time.Time `json:"scheduled_date"` // nil means invited but not yet booked
	Notes         string     `gorm:"type:text" json:"notes"`
	ConductedDate *time.Time `json:"conducted_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (i *Interview) TableName() string {
	return "interviews"
}

// IsActive reports whether the interview still occupies the candidate's
// single active slot.
func (i *Interview) IsActive() bool {
	return i.Status == InterviewStatusScheduled || i.Status == InterviewStatusPending
}

// AppendNote adds a timestamped line to the audit trail. Notes are never
// rewritten, only appended.
func (i *Interview) AppendNote(note string) {
	line := fmt.Sprintf("[%s] %s", time.Now().UTC().Format(time.RFC3339), note)
	if i.Notes == "" {
		i.Notes = line
		return
	}
	i.Notes += "\n" + line
}
