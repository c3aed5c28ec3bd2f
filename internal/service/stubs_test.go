package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"healthtracker/internal/database"
	"healthtracker/internal/models"
)

type activityRepoStub struct {
	created []models.FitnessActivity
	rows    []models.FitnessActivity
	err     error
}

func (r *activityRepoStub) Create(_ context.Context, a *models.FitnessActivity) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, *a)
	return nil
}

func (r *activityRepoStub) ListByUser(context.Context, uint) ([]models.FitnessActivity, error) {
	return r.rows, r.err
}

type dietRepoStub struct {
	created []models.DietaryLog
}

func (r *dietRepoStub) Create(_ context.Context, d *models.DietaryLog) error {
	r.created = append(r.created, *d)
	return nil
}

func (r *dietRepoStub) ListByUser(context.Context, uint) ([]models.DietaryLog, error) {
	return r.created, nil
}

type weightRepoStub struct {
	created []models.WeightEntry
	rows    []models.WeightEntry
	calls   int
}

func (r *weightRepoStub) Create(_ context.Context, w *models.WeightEntry) error {
	r.created = append(r.created, *w)
	return nil
}

func (r *weightRepoStub) ListByUser(context.Context, uint) ([]models.WeightEntry, error) {
	r.calls++
	return r.rows, nil
}

type goalRepoStub struct {
	created []models.FitnessGoal
}

func (r *goalRepoStub) Create(_ context.Context, g *models.FitnessGoal) error {
	r.created = append(r.created, *g)
	return nil
}

func (r *goalRepoStub) ListByUser(context.Context, uint) ([]models.FitnessGoal, error) {
	return r.created, nil
}

type profileRepoStub struct {
	getFn func(ctx context.Context, userID uint) (*models.UserProfile, error)
}

func (r *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.UserProfile, error) {
	return r.getFn(ctx, userID)
}

func (r *profileRepoStub) Create(context.Context, *models.UserProfile) error {
	return nil
}

func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))
	return db
}
