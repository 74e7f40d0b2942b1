package repository

import (
	"github.com/dostonbek/testplatform/internal/model"
	"gorm.io/gorm"
)

// ResultRepository is the local durable fallback list of quiz results.
// Append order is preserved; nothing is deduplicated or capped.
type ResultRepository interface {
	Append(result *model.QuizResult) error
	FindAll() ([]model.QuizResult, error)
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

// Append writes one result inside a transaction so a failed write never
// corrupts the prior entries.
func (r *resultRepository) Append(result *model.QuizResult) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(result).Error
	})
}

func (r *resultRepository) FindAll() ([]model.QuizResult, error) {
	var results []model.QuizResult
	if err := r.db.Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
