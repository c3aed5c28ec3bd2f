package database

import "healthtracker/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models,
// parents before children.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.UserProfile{},
		&models.FitnessActivity{},
		&models.DietaryLog{},
		&models.FitnessGoal{},
		&models.WeightEntry{},
	}
}
