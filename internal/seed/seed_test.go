package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"healthtracker/internal/database"
	"healthtracker/internal/models"
)

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

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestSeeder_Run(t *testing.T) {
	db := setupSQLite(t)
	opts := Options{Username: "demo", Password: "demo-pass-123", Days: 7, Seed: 42}

	summary, err := NewSeeder(db, opts).WithBcryptCost(bcrypt.MinCost).Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, summary.User)

	assert.EqualValues(t, 1, count(t, db, &models.User{}))
	assert.EqualValues(t, 1, count(t, db, &models.UserProfile{}))
	assert.Equal(t, 7, summary.Weights)
	assert.Equal(t, 2, summary.Goals)
	assert.GreaterOrEqual(t, summary.Meals, 7)
	assert.LessOrEqual(t, summary.Activities, 7)

	assert.EqualValues(t, summary.Weights, count(t, db, &models.WeightEntry{}))
	assert.EqualValues(t, summary.Meals, count(t, db, &models.DietaryLog{}))
	assert.EqualValues(t, summary.Activities, count(t, db, &models.FitnessActivity{}))

	var user models.User
	require.NoError(t, db.Where("username = ?", "demo").First(&user).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("demo-pass-123")))

	var meals []models.DietaryLog
	require.NoError(t, db.Find(&meals).Error)
	for _, m := range meals {
		assert.LessOrEqual(t, len([]rune(m.FoodItem)), maxTextLength)
		require.NotNil(t, m.UserID)
		assert.Equal(t, user.ID, *m.UserID)
	}

	var goals []models.FitnessGoal
	require.NoError(t, db.Find(&goals).Error)
	for _, g := range goals {
		assert.False(t, g.EndDate.Before(g.StartDate))
	}
}

func TestSeeder_RefusesExistingUser(t *testing.T) {
	db := setupSQLite(t)
	opts := Options{Username: "demo", Password: "demo-pass-123", Days: 2, Seed: 7}

	_, err := NewSeeder(db, opts).WithBcryptCost(bcrypt.MinCost).Run(context.Background())
	require.NoError(t, err)

	_, err = NewSeeder(db, opts).WithBcryptCost(bcrypt.MinCost).Run(context.Background())
	assert.ErrorContains(t, err, "already exists")
	assert.EqualValues(t, 1, count(t, db, &models.User{}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "oats", truncate("oats", 10))
	assert.Equal(t, "crème", truncate("crème brûlée", 5))
}
