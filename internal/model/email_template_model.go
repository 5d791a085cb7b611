package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	TemplateKindInterview  = "interview"
	TemplateKindOffer      = "offer"
	TemplateKindRejection  = "rejection"
	TemplateKindTalentPool = "talent_pool"
	TemplateKindOnboarding = "onboarding"
	TemplateKindAssessment = "assessment"
)

// EmailTemplate is a per-user override of a built-in template kind.
type EmailTemplate struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AccountID uuid.UUID `gorm:"type:uuid;index" json:"account_id"`
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Kind      string    `gorm:"type:varchar(50);index" json:"kind"`
	Subject   string    `gorm:"type:varchar(500)" json:"subject"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *EmailTemplate) TableName() string {
	return "email_templates"
}
