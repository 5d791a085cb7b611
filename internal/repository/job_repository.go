package repository

import (
	"github.com/google/uuid"
	"github.com/hireos/hireos/internal/model"
	"gorm.io/gorm"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db}
}

func (r *JobRepository) Create(job *model.Job) error {
	return r.db.Create(job).Error
}

func (r *JobRepository) Update(job *model.Job) error {
	return r.db.Save(job).Error
}

func (r *JobRepository) FindByID(accountID, id uuid.UUID) (*model.Job, error) {
	var j model.Job
	err := r.db.First(&j, "account_id = ? AND id = ?", accountID, id).Error
	return &j, err
}

func (r *JobRepository) List(accountID uuid.UUID, status string) ([]model.Job, error) {
	q := r.db.Where("account_id = ?", accountID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var jobs []model.Job
	err := q.Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}
