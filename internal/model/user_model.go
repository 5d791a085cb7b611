package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleCEO         Role = "ceo"
	RoleCOO         Role = "coo"
	RoleDirector    Role = "director"
	RoleRecruiter   Role = "recruiter"
	RoleInterviewer Role = "interviewer"
)

// CanEditEvaluationFields reports whether the role may write the privileged
// assessment/evaluation fields on a candidate.
func (r Role) CanEditEvaluationFields() bool {
	switch r {
	case RoleAdmin, RoleCEO, RoleCOO, RoleDirector:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AccountID    uuid.UUID `gorm:"type:uuid;index" json:"account_id"`
	Name         string    `gorm:"type:varchar(255)" json:"name"`
	Email        string    `gorm:"type:varchar(255);index" json:"email"`
	Role         Role      `gorm:"type:varchar(50)" json:"role"`
	CalendarLink string    `gorm:"type:varchar(500)" json:"calendar_link"`
	AIAPIKey     string    `gorm:"type:varchar(255)" json:"-"`
	SessionToken string    `gorm:"type:varchar(255);index" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) TableName() string {
	return "users"
}
