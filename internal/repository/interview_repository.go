package repository

import (
	"github.com/google/uuid"
	"github.com/hireos/hireos/internal/model"
	"gorm.io/gorm"
)

type InterviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) *InterviewRepository {
	return &InterviewRepository{db}
}

func (r *InterviewRepository) Create(i *model.Interview) error {
	return r.db.Create(i).Error
}

func (r *InterviewRepository) Update(i *model.Interview) error {
	return r.db.Save(i).Error
}

func (r *InterviewRepository) FindByID(accountID, id uuid.UUID) (*model.Interview, error) {
	var i model.Interview
	err := r.db.First(&i, "account_id = ? AND id = ?", accountID, id).Error
	return &i, err
}

func (r *InterviewRepository) ListByCandidate(accountID, candidateID uuid.UUID) ([]model.Interview, error) {
	var interviews []model.Interview
	err := r.db.Where("account_id = ? AND candidate_id = ?", accountID, candidateID).
		Order("created_at DESC").Find(&interviews).Error
	return interviews, err
}

// ListActiveByCandidate returns scheduled/pending interviews, newest first.
func (r *InterviewRepository) ListActiveByCandidate(accountID, candidateID uuid.UUID) ([]model.Interview, error) {
	var interviews []model.Interview
	err := r.db.Where("account_id = ? AND candidate_id = ? AND status IN ?",
		accountID, candidateID,
		[]string{model.InterviewStatusScheduled, model.InterviewStatusPending}).
		Order("created_at DESC").Find(&interviews).Error
	return interviews, err
}
