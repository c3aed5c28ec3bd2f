package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"healthtracker/internal/models"
)

// ProfileRepository persists the one-per-user UserProfile.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.UserProfile, error)
	Create(ctx context.Context, profile *models.UserProfile) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// GetByUserID loads the profile with its owner. A missing profile is a NOT_FOUND AppError.
func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.UserProfile, error) {
	ctx, done := observe(ctx, "GetByUserID", "user_profiles")
	defer done()

	var profile models.UserProfile
	err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("UserProfile for user", userID)
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	ctx, done := observe(ctx, "Create", "user_profiles")
	defer done()

	if err := r.db.WithContext(ctx).Omit("User").Create(profile).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("This user already has a profile.")
		}
		return models.NewInternalError(err)
	}
	return nil
}
