package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// MaxUsernameLength bounds the username column.
const MaxUsernameLength = 150

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	validate        = validator.New()
)

// Validator returns the shared go-playground validator instance.
func Validator() *validator.Validate {
	return validate
}

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if len([]rune(username)) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	if !usernamePattern.MatchString(username) {
		return ErrUsernameCharacters
	}
	return nil
}

// ValidateEmail checks email format
func ValidateEmail(email string) error {
	if err := validate.Var(email, "required,email,max=254"); err != nil {
		return ErrEmailInvalid
	}
	return nil
}
