package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	OfferStatusSent     = "sent"
	OfferStatusAccepted = "accepted"
	OfferStatusDeclined = "declined"
)

type Offer struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AccountID       uuid.UUID  `gorm:"type:uuid;index" json:"account_id"`
	CandidateID     uuid.UUID  `gorm:"type:uuid;index" json:"candidate_id"`
	OfferType       string     `gorm:"type:varchar(50)" json:"offer_type"`
	Compensation    string     `gorm:"type:varchar(255)" json:"compensation"`
	StartDate       *time.Time `json:"start_date"`
	Status          string     `gorm:"type:varchar(20)" json:"status"`
	SentDate        time.Time  `json:"sent_date"`
	ContractURL     string     `gorm:"type:varchar(500)" json:"contract_url"`
	AcceptanceToken string     `gorm:"type:varchar(100);uniqueIndex" json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (o *Offer) TableName() string {
	return "offers"
}

// IsTerminal reports whether the offer can no longer be responded to.
func (o *Offer) IsTerminal() bool {
	return o.Status == OfferStatusAccepted || o.Status == OfferStatusDeclined
}
