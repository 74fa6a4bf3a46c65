package repository

import (
	"errors"

	"sabdakrida_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

// LoadOrCreate returns the stored profile for a user, decoding the JSON
// columns, or a fresh default profile when no row exists yet. The fresh
// profile is not persisted until the first Save.
func (r *ProfileRepository) LoadOrCreate(userID uint, dims int) (*model.LearnerProfile, error) {
	var record model.LearnerProfileRecord
	err := r.DB.Where("user_id = ?", userID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.NewLearnerProfile(userID, dims), nil
	}
	if err != nil {
		return nil, err
	}
	return record.Decode(dims), nil
}

// Save upserts the whole row. Profiles are read-modify-written under a
// per-user lock in the service layer, so last-write-wins is safe here.
func (r *ProfileRepository) Save(profile *model.LearnerProfile) error {
	record := profile.Encode()
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(record).Error
}
