package models

import (
	"fmt"
	"time"
)

// DietaryLog records one food item eaten at a point in time. The owner column
// is nullable.
type DietaryLog struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   *uint     `gorm:"index" json:"user_id"`
	User     *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	FoodItem string    `gorm:"size:50;not null" json:"food_item"`
	Calories int       `gorm:"not null" json:"calories"`
	Carbs    int       `gorm:"not null" json:"carbs"`
	Proteins int       `gorm:"not null" json:"proteins"`
	Fats     int       `gorm:"not null" json:"fats"`
	Quantity int       `gorm:"not null" json:"quantity"`
	DateTime time.Time `gorm:"not null" json:"date_time"`
}

func (d DietaryLog) String() string {
	var owner uint
	if d.UserID != nil {
		owner = *d.UserID
	}
	return fmt.Sprintf("%s for %s on %s", d.FoodItem, usernameOf(d.User, owner), d.DateTime.Format(DateLayout))
}
