package repository

import (
	"github.com/google/uuid"
	"github.com/hireos/hireos/internal/model"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db}
}

func (r *UserRepository) FindBySessionToken(token string) (*model.User, error) {
	var u model.User
	err := r.db.First(&u, "session_token = ?", token).Error
	return &u, err
}

// FindByPrimaryID is the one unscoped user lookup; used by the calendar
// webhook, where the user id in the URL determines the tenant.
func (r *UserRepository) FindByPrimaryID(id uuid.UUID) (*model.User, error) {
	var u model.User
	err := r.db.First(&u, "id = ?", id).Error
	return &u, err
}

func (r *UserRepository) FindByID(accountID, id uuid.UUID) (*model.User, error) {
	var u model.User
	err := r.db.First(&u, "account_id = ? AND id = ?", accountID, id).Error
	return &u, err
}

func (r *UserRepository) ListByAccount(accountID uuid.UUID) ([]model.User, error) {
	var users []model.User
	err := r.db.Where("account_id = ?", accountID).Find(&users).Error
	return users, err
}

func (r *UserRepository) FindAccount(id uuid.UUID) (*model.Account, error) {
	var a model.Account
	err := r.db.First(&a, "id = ?", id).Error
	return &a, err
}
