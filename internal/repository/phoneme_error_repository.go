package repository

import (
	"time"

	"sabdakrida_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PhonemeErrorRepository struct {
	DB *gorm.DB
}

func NewPhonemeErrorRepository(db *gorm.DB) *PhonemeErrorRepository {
	return &PhonemeErrorRepository{DB: db}
}

// Record bumps the counter for one (user, error type) pair, inserting
// the row on first sight.
func (r *PhonemeErrorRepository) Record(userID uint, errorType string) error {
	row := model.PhonemeError{
		UserID:    userID,
		ErrorType: errorType,
		Count:     1,
		LastSeen:  time.Now(),
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "error_type"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count":     gorm.Expr("count + 1"),
			"last_seen": time.Now(),
		}),
	}).Create(&row).Error
}

// TopCategories returns a user's error categories most frequent first,
// recency breaking ties.
func (r *PhonemeErrorRepository) TopCategories(userID uint, limit int) ([]model.PhonemeError, error) {
	var rows []model.PhonemeError
	err := r.DB.Where("user_id = ?", userID).
		Order("count DESC").
		Order("last_seen DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *PhonemeErrorRepository) All(userID uint) ([]model.PhonemeError, error) {
	var rows []model.PhonemeError
	err := r.DB.Where("user_id = ?", userID).
		Order("count DESC").
		Find(&rows).Error
	return rows, err
}
