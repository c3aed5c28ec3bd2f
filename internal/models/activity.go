package models

import (
	"fmt"
	"time"
)

// FitnessActivity is one logged exercise session.
type FitnessActivity struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	UserID         uint          `gorm:"index;not null" json:"user_id"`
	User           *User         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ActivityType   string        `gorm:"size:50;not null" json:"activity_type"`
	Duration       time.Duration `gorm:"not null" json:"duration"`
	Intensity      string        `gorm:"size:50;not null" json:"intensity"`
	CaloriesBurned int           `gorm:"not null" json:"calories_burned"`
	DateTime       time.Time     `gorm:"not null" json:"date_time"`
}

func (a FitnessActivity) String() string {
	return fmt.Sprintf("%s on %s", a.ActivityType, a.DateTime.Format(DateLayout))
}
