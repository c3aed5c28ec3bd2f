// Package models contains data structures for the application's domain models.
package models

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date layout used for display and date inputs.
const DateLayout = "2006-01-02"

// User is the account identity every tracked entry belongs to.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:254" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) String() string {
	return u.Username
}

// usernameOf returns the username of a loaded user, or a placeholder keyed by id.
func usernameOf(u *User, id uint) string {
	if u != nil && u.Username != "" {
		return u.Username
	}
	return fmt.Sprintf("user #%d", id)
}
