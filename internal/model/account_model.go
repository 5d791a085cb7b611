package model

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID                uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name              string    `gorm:"type:varchar(255)" json:"name"`
	Slug              string    `gorm:"type:varchar(100);uniqueIndex" json:"slug"`
	CrossCalendarSync bool      `json:"cross_calendar_sync"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (a *Account) TableName() string {
	return "accounts"
}
