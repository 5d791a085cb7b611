package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

const (
	JobStatusDraft  = "draft"
	JobStatusActive = "active"
	JobStatusClosed = "closed"
)

type Job struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AccountID     uuid.UUID       `gorm:"type:uuid;index" json:"account_id"`
	Title         string          `gorm:"type:varchar(255)" json:"title"`
	Description   string          `gorm:"type:text" json:"description"`
	Skills        string          `gorm:"type:text" json:"skills"` // comma separated
	Department    string          `gorm:"type:varchar(100)" json:"department"`
	Type          string          `gorm:"type:varchar(50)" json:"type"`
	Status        string          `gorm:"type:varchar(20)" json:"status"`
	ExpressReview bool            `json:"express_review"`
	HiPeopleLink  string          `gorm:"type:varchar(500)" json:"hi_people_link"`
	PostedDate    *time.Time      `json:"posted_date"`
	Embedding     pgvector.Vector `gorm:"type:vector(3072)" json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (j *Job) TableName() string {
	return "jobs"
}
