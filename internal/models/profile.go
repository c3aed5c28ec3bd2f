package models

import "time"

// UserProfile extends a User with body metrics captured at registration.
type UserProfile struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	UserID            uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	User              *User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	DateOfBirth       *time.Time `gorm:"type:date" json:"date_of_birth"`
	Height            *float64   `json:"height"`
	Weight            *float64   `json:"weight"`
	FitnessLevel      string     `gorm:"size:50" json:"fitness_level"`
	DefaultWeightGoal *float64   `json:"default_weight_goal"`
}

func (p UserProfile) String() string {
	return usernameOf(p.User, p.UserID)
}
