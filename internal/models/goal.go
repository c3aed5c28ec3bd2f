package models

import (
	"fmt"
	"time"
)

// GoalType is the stored three-letter code of a goal category.
type GoalType string

const (
	GoalWeightLoss GoalType = "WGT"
	GoalHydration  GoalType = "HYD"
	GoalMuscleGain GoalType = "MUS"
)

// GoalTypes lists the goal categories in display order.
var GoalTypes = []GoalType{GoalWeightLoss, GoalHydration, GoalMuscleGain}

// Label returns the human-readable name of the goal type.
func (g GoalType) Label() string {
	switch g {
	case GoalWeightLoss:
		return "Weight Loss"
	case GoalHydration:
		return "Hydration"
	case GoalMuscleGain:
		return "Muscle Gain"
	default:
		return string(g)
	}
}

// Valid reports whether g is one of the known goal categories.
func (g GoalType) Valid() bool {
	for _, known := range GoalTypes {
		if g == known {
			return true
		}
	}
	return false
}

// FitnessGoal is a target the user tracks progress against over a date range.
type FitnessGoal struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"index;not null" json:"user_id"`
	User            *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	GoalType        GoalType  `gorm:"size:3;not null" json:"goal_type"`
	TargetValue     int       `gorm:"not null" json:"target_value"`
	StartDate       time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate         time.Time `gorm:"type:date;not null" json:"end_date"`
	CurrentProgress int       `gorm:"not null" json:"current_progress"`
}

func (g FitnessGoal) String() string {
	return fmt.Sprintf("%s goal for %s", string(g.GoalType), usernameOf(g.User, g.UserID))
}
