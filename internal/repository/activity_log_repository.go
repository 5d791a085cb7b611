package repository

import (
	"github.com/google/uuid"
	"github.com/hireos/hireos/internal/model"
	"gorm.io/gorm"
)

type ActivityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db}
}

func (r *ActivityLogRepository) Create(l *model.ActivityLog) error {
	return r.db.Create(l).Error
}

func (r *ActivityLogRepository) ListByEntity(accountID uuid.UUID, entityType string, entityID uuid.UUID) ([]model.ActivityLog, error) {
	var logs []model.ActivityLog
	err := r.db.Where("account_id = ? AND entity_type = ? AND entity_id = ?",
		accountID, entityType, entityID).
		Order("created_at DESC").Find(&logs).Error
	return logs, err
}
