package repository

import (
	"github.com/google/uuid"
	"github.com/hireos/hireos/internal/model"
	"gorm.io/gorm"
)

type EmailTemplateRepository struct {
	db *gorm.DB
}

func NewEmailTemplateRepository(db *gorm.DB) *EmailTemplateRepository {
	return &EmailTemplateRepository{db}
}

func (r *EmailTemplateRepository) FindByUserAndKind(accountID, userID uuid.UUID, kind string) (*model.EmailTemplate, error) {
	var t model.EmailTemplate
	err := r.db.First(&t, "account_id = ? AND user_id = ? AND kind = ?", accountID, userID, kind).Error
	return &t, err
}

func (r *EmailTemplateRepository) Upsert(t *model.EmailTemplate) error {
	return r.db.Save(t).Error
}
