package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Pipeline stage statuses. The numeric prefix encodes funnel ordering;
// 200_rejected sorts after every live stage on purpose.
const (
	StatusApplicationSubmitted  = "00_application_submitted"
	StatusAssessmentSent        = "20_assessment_sent"
	StatusAssessmentCompleted   = "30_assessment_completed"
	StatusFirstInterviewSent    = "45_1st_interview_sent"
	StatusFirstInterviewBooked  = "60_1st_interview_scheduled"
	StatusSecondInterviewBooked = "75_2nd_interview_scheduled"
	StatusTalentPool            = "90_talent_pool"
	StatusOfferSent             = "95_offer_sent"
	StatusOfferAccepted         = "100_offer_accepted"
	StatusRejected              = "200_rejected"
)

// Terminal-outcome flag, kept consistent with status on terminal transitions.
type FinalDecision string

const (
	DecisionNone       FinalDecision = ""
	DecisionOffer      FinalDecision = "offer"
	DecisionRejected   FinalDecision = "rejected"
	DecisionTalentPool FinalDecision = "talent_pool"
)

// IsInterviewStage reports whether a status implies an outstanding interview
// invite or booking. Leaving any of these cancels the candidate's active
// interviews.
func IsInterviewStage(status string) bool {
	switch status {
	case StatusFirstInterviewSent, StatusFirstInterviewBooked, StatusSecondInterviewBooked:
		return true
	}
	return false
}

type Candidate struct {
	ID                    uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AccountID             uuid.UUID       `gorm:"type:uuid;index" json:"account_id"`
	JobID                 *uuid.UUID      `gorm:"type:uuid;index" json:"job_id"`
	Name                  string          `gorm:"type:varchar(255)" json:"name"`
	Email                 string          `gorm:"type:varchar(255);index" json:"email"`
	Phone                 string          `gorm:"type:varchar(50)" json:"phone"`
	Location              string          `gorm:"type:varchar(255)" json:"location"`
	ResumeURL             string          `gorm:"type:varchar(500)" json:"resume_url"`
	Skills                string          `gorm:"type:text" json:"skills"` // comma separated
	ExperienceYears       float64         `json:"experience_years"`
	MatchScore            float64         `json:"match_score"`
	Status                string          `gorm:"type:varchar(50)" json:"status"`
	FinalDecisionStatus   FinalDecision   `gorm:"type:varchar(50)" json:"final_decision_status"`
	HiPeopleScore         float64         `json:"hi_people_score"`
	HiPeoplePercentile    float64         `json:"hi_people_percentile"`
	AssessmentCompletedAt *time.Time      `json:"assessment_completed_at"`
	GHLContactID          string          `gorm:"type:varchar(100);index" json:"ghl_contact_id"`
	Embedding             pgvector.Vector `gorm:"type:vector(3072)" json:"-"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

func (c *Candidate) TableName() string {
	return "candidates"
}

// SkillList splits the comma-separated skills column.
func (c *Candidate) SkillList() []string {
	if strings.TrimSpace(c.Skills) == "" {
		return nil
	}
	parts := strings.Split(c.Skills, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// MergeSkills unions new skills into the existing list, case-insensitively.
func (c *Candidate) MergeSkills(extra []string) {
	seen := map[string]bool{}
	merged := c.SkillList()
	for _, s := range merged {
		seen[strings.ToLower(s)] = true
	}
	for _, s := range extra {
		s = strings.TrimSpace(s)
		if s == "" || seen[strings.ToLower(s)] {
			continue
		}
		seen[strings.ToLower(s)] = true
		merged = append(merged, s)
	}
	c.Skills = strings.Join(merged, ", ")
}
