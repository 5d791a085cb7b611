package repository

import (
	"github.com/google/uuid"
	"github.com/hireos/hireos/internal/model"
	"gorm.io/gorm"
)

type CRMConnectionRepository struct {
	db *gorm.DB
}

func NewCRMConnectionRepository(db *gorm.DB) *CRMConnectionRepository {
	return &CRMConnectionRepository{db}
}

func (r *CRMConnectionRepository) ListEnabled(accountID uuid.UUID) ([]model.CRMConnection, error) {
	var conns []model.CRMConnection
	err := r.db.Where("account_id = ? AND enabled = ?", accountID, true).Find(&conns).Error
	return conns, err
}
