package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"healthtracker/internal/models"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	ctx, done := observe(ctx, "GetByID", "users")
	defer done()

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetByUsername returns nil, nil when no user has that username.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, done := observe(ctx, "GetByUsername", "users")
	defer done()

	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	ctx, done := observe(ctx, "Create", "users")
	defer done()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("A user with that username already exists.")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the user; dependent rows go with it through ON DELETE CASCADE.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	ctx, done := observe(ctx, "Delete", "users")
	defer done()

	if err := r.db.WithContext(ctx).Delete(&models.User{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
