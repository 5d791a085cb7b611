package repository

import (
	"github.com/google/uuid"
	"github.com/hireos/hireos/internal/model"
	"gorm.io/gorm"
)

type OfferRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) *OfferRepository {
	return &OfferRepository{db}
}

func (r *OfferRepository) Create(o *model.Offer) error {
	return r.db.Create(o).Error
}

func (r *OfferRepository) Update(o *model.Offer) error {
	return r.db.Save(o).Error
}

// FindByToken is the public acceptance lookup; no account scoping because
// the token itself is the credential.
func (r *OfferRepository) FindByToken(token string) (*model.Offer, error) {
	var o model.Offer
	err := r.db.First(&o, "acceptance_token = ?", token).Error
	return &o, err
}

// FindLatestByCandidate returns the newest offer for a candidate; callers
// treat it as the candidate's one active offer.
func (r *OfferRepository) FindLatestByCandidate(accountID, candidateID uuid.UUID) (*model.Offer, error) {
	var o model.Offer
	err := r.db.Where("account_id = ? AND candidate_id = ?", accountID, candidateID).
		Order("created_at DESC").First(&o).Error
	return &o, err
}
