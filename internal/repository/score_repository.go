package repository

import (
	"sabdakrida_backend/internal/model"

	"gorm.io/gorm"
)

type ScoreRepository struct {
	DB *gorm.DB
}

func NewScoreRepository(db *gorm.DB) *ScoreRepository {
	return &ScoreRepository{DB: db}
}

func (r *ScoreRepository) Create(score *model.PronunciationScore) error {
	return r.DB.Create(score).Error
}

func (r *ScoreRepository) Recent(userID uint, limit int) ([]model.PronunciationScore, error) {
	var rows []model.PronunciationScore
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *ScoreRepository) AverageScore(userID uint) (float64, error) {
	var avg *float64
	err := r.DB.Model(&model.PronunciationScore{}).
		Where("user_id = ?", userID).
		Select("AVG(score)").
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}
