package repository

import (
	"errors"

	"sabdakrida_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TutorRepository struct {
	DB *gorm.DB
}

func NewTutorRepository(db *gorm.DB) *TutorRepository {
	return &TutorRepository{DB: db}
}

func (r *TutorRepository) LoadOrCreate(userID uint) (*model.TutorProfile, error) {
	var record model.TutorProgressRecord
	err := r.DB.Where("user_id = ?", userID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.NewTutorProfile(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return record.Decode(), nil
}

func (r *TutorRepository) Save(profile *model.TutorProfile) error {
	record := profile.Encode()
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(record).Error
}
