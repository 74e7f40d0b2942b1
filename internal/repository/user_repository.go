package repository

import (
	"errors"

	"github.com/dostonbek/testplatform/internal/model"
	"gorm.io/gorm"
)

// UserRepository holds the single current-session marker: at most one user
// row exists at a time.
type UserRepository interface {
	SaveCurrent(user *model.User) error
	Current() (*model.User, error)
	Clear() error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) SaveCurrent(user *model.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.User{}).Error; err != nil {
			return err
		}
		return tx.Create(user).Error
	})
}

func (r *userRepository) Current() (*model.User, error) {
	var user model.User
	if err := r.db.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Clear() error {
	return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.User{}).Error
}
