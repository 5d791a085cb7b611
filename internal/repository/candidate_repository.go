package repository

import (
	"strings"

	"github.com/google/uuid"
	"github.com/hireos/hireos/internal/model"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type CandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) *CandidateRepository {
	return &CandidateRepository{db}
}

func (r *CandidateRepository) Create(c *model.Candidate) error {
	return r.db.Create(c).Error
}

func (r *CandidateRepository) Update(c *model.Candidate) error {
	return r.db.Save(c).Error
}

func (r *CandidateRepository) FindByID(accountID, id uuid.UUID) (*model.Candidate, error) {
	var c model.Candidate
	err := r.db.First(&c, "account_id = ? AND id = ?", accountID, id).Error
	return &c, err
}

func (r *CandidateRepository) FindByNameAndEmail(accountID uuid.UUID, name, email string) (*model.Candidate, error) {
	var c model.Candidate
	err := r.db.First(&c, "account_id = ? AND name = ? AND LOWER(email) = ?",
		accountID, name, strings.ToLower(email)).Error
	return &c, err
}

func (r *CandidateRepository) FindByEmail(accountID uuid.UUID, email string) (*model.Candidate, error) {
	var c model.Candidate
	err := r.db.First(&c, "account_id = ? AND LOWER(email) = ?", accountID, strings.ToLower(email)).Error
	return &c, err
}

func (r *CandidateRepository) FindByGHLContactID(accountID uuid.UUID, contactID string) (*model.Candidate, error) {
	var c model.Candidate
	err := r.db.First(&c, "account_id = ? AND ghl_contact_id = ?", accountID, contactID).Error
	return &c, err
}

func (r *CandidateRepository) List(accountID uuid.UUID, jobID *uuid.UUID, status string) ([]model.Candidate, error) {
	q := r.db.Where("account_id = ?", accountID)
	if jobID != nil {
		q = q.Where("job_id = ?", *jobID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var candidates []model.Candidate
	err := q.Order("created_at DESC").Find(&candidates).Error
	return candidates, err
}

// SearchByEmbedding returns the account's candidates closest to the given
// vector, nearest first.
func (r *CandidateRepository) SearchByEmbedding(accountID uuid.UUID, embedding pgvector.Vector, topK int) ([]model.Candidate, error) {
	var candidates []model.Candidate
	err := r.db.Raw(`
        SELECT *, embedding <-> ? AS distance
        FROM candidates
        WHERE account_id = ? AND embedding IS NOT NULL
        ORDER BY embedding <-> ?
        LIMIT ?
    `, embedding, accountID, embedding, topK).Scan(&candidates).Error
	return candidates, err
}
