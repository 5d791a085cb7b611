package repository

import (
	"github.com/google/uuid"
	"github.com/hireos/hireos/internal/model"
	"gorm.io/gorm"
)

type EvaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{db}
}

func (r *EvaluationRepository) Create(e *model.Evaluation) error {
	return r.db.Create(e).Error
}

// FindLatestByInterview returns the newest evaluation; latest wins.
func (r *EvaluationRepository) FindLatestByInterview(accountID, interviewID uuid.UUID) (*model.Evaluation, error) {
	var e model.Evaluation
	err := r.db.Where("account_id = ? AND interview_id = ?", accountID, interviewID).
		Order("created_at DESC").First(&e).Error
	return &e, err
}
