package model

import (
	"time"

	"github.com/google/uuid"
)

type Evaluation struct {
	ID                   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AccountID            uuid.UUID `gorm:"type:uuid;index" json:"account_id"`
	InterviewID          uuid.UUID `gorm:"type:uuid;index" json:"interview_id"`
	EvaluatorID          uuid.UUID `gorm:"type:uuid" json:"evaluator_id"`
	TechnicalProficiency int       `json:"technical_proficiency"` // 1-5
	LeadershipInitiative int       `json:"leadership_initiative"` // 1-5
	ProblemSolving       int       `json:"problem_solving"`       // 1-5
	CommunicationSkills  int       `json:"communication_skills"`  // 1-5
	CulturalFit          int       `json:"cultural_fit"`          // 1-5
	Comments             string    `gorm:"type:text" json:"comments"`
	OverallRating        float64   `json:"overall_rating"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (e *Evaluation) TableName() string {
	return "evaluations"
}
