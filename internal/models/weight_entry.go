package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// WeightEntry is a single body-weight measurement for a calendar day.
type WeightEntry struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	UserID uint      `gorm:"index;not null" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Weight float64   `gorm:"not null" json:"weight"`
	Date   time.Time `gorm:"type:date;not null" json:"date"`
}

// Today returns the current calendar date at midnight UTC.
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// BeforeCreate applies the default date when none was set.
func (w *WeightEntry) BeforeCreate(_ *gorm.DB) error {
	if w.Date.IsZero() {
		w.Date = Today()
	}
	return nil
}

func (w WeightEntry) String() string {
	weight := strconv.FormatFloat(w.Weight, 'f', -1, 64)
	if !strings.Contains(weight, ".") {
		weight += ".0"
	}
	return fmt.Sprintf("%s - %s kg on %s", usernameOf(w.User, w.UserID), weight, w.Date.Format(DateLayout))
}
