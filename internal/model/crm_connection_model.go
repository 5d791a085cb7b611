package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	CRMProviderGHL      = "ghl"
	CRMProviderAirtable = "airtable"
	CRMProviderSheets   = "sheets"
)

// CRMConnection is a tenant's link to one external CRM. An account can hold
// any number of these; the sync fan-out iterates them.
type CRMConnection struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AccountID  uuid.UUID `gorm:"type:uuid;index" json:"account_id"`
	Provider   string    `gorm:"type:varchar(50)" json:"provider"`
	APIKey     string    `gorm:"type:varchar(255)" json:"-"`
	ExternalID string    `gorm:"type:varchar(255)" json:"external_id"` // base/sheet/location id
	Enabled    bool      `json:"enabled"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *CRMConnection) TableName() string {
	return "crm_connections"
}
