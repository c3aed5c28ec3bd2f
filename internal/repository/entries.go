package repository

import (
	"context"

	"gorm.io/gorm"

	"healthtracker/internal/models"
)

// ActivityRepository persists FitnessActivity rows.
type ActivityRepository interface {
	Create(ctx context.Context, activity *models.FitnessActivity) error
	ListByUser(ctx context.Context, userID uint) ([]models.FitnessActivity, error)
}

// DietaryLogRepository persists DietaryLog rows.
type DietaryLogRepository interface {
	Create(ctx context.Context, log *models.DietaryLog) error
	ListByUser(ctx context.Context, userID uint) ([]models.DietaryLog, error)
}

// WeightEntryRepository persists WeightEntry rows.
type WeightEntryRepository interface {
	Create(ctx context.Context, entry *models.WeightEntry) error
	ListByUser(ctx context.Context, userID uint) ([]models.WeightEntry, error)
}

// GoalRepository persists FitnessGoal rows.
type GoalRepository interface {
	Create(ctx context.Context, goal *models.FitnessGoal) error
	ListByUser(ctx context.Context, userID uint) ([]models.FitnessGoal, error)
}

// ownedTable implements create and list-by-owner for any user-owned entity.
type ownedTable[T any] struct {
	db    *gorm.DB
	table string
}

func (r ownedTable[T]) create(ctx context.Context, row *T) error {
	ctx, done := observe(ctx, "Create", r.table)
	defer done()

	if err := r.db.WithContext(ctx).Omit("User").Create(row).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// listByUser returns the user's rows in insertion order.
func (r ownedTable[T]) listByUser(ctx context.Context, userID uint) ([]T, error) {
	ctx, done := observe(ctx, "ListByUser", r.table)
	defer done()

	rows := []T{}
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}

type activityRepository struct{ ownedTable[models.FitnessActivity] }

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{ownedTable[models.FitnessActivity]{db: db, table: "fitness_activities"}}
}

func (r *activityRepository) Create(ctx context.Context, activity *models.FitnessActivity) error {
	return r.create(ctx, activity)
}

func (r *activityRepository) ListByUser(ctx context.Context, userID uint) ([]models.FitnessActivity, error) {
	return r.listByUser(ctx, userID)
}

type dietaryLogRepository struct{ ownedTable[models.DietaryLog] }

func NewDietaryLogRepository(db *gorm.DB) DietaryLogRepository {
	return &dietaryLogRepository{ownedTable[models.DietaryLog]{db: db, table: "dietary_logs"}}
}

func (r *dietaryLogRepository) Create(ctx context.Context, log *models.DietaryLog) error {
	return r.create(ctx, log)
}

func (r *dietaryLogRepository) ListByUser(ctx context.Context, userID uint) ([]models.DietaryLog, error) {
	return r.listByUser(ctx, userID)
}

type weightEntryRepository struct{ ownedTable[models.WeightEntry] }

func NewWeightEntryRepository(db *gorm.DB) WeightEntryRepository {
	return &weightEntryRepository{ownedTable[models.WeightEntry]{db: db, table: "weight_entries"}}
}

func (r *weightEntryRepository) Create(ctx context.Context, entry *models.WeightEntry) error {
	return r.create(ctx, entry)
}

func (r *weightEntryRepository) ListByUser(ctx context.Context, userID uint) ([]models.WeightEntry, error) {
	return r.listByUser(ctx, userID)
}

type goalRepository struct{ ownedTable[models.FitnessGoal] }

func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{ownedTable[models.FitnessGoal]{db: db, table: "fitness_goals"}}
}

func (r *goalRepository) Create(ctx context.Context, goal *models.FitnessGoal) error {
	return r.create(ctx, goal)
}

func (r *goalRepository) ListByUser(ctx context.Context, userID uint) ([]models.FitnessGoal, error) {
	return r.listByUser(ctx, userID)
}
