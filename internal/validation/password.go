// Package validation provides input validation utilities
package validation

import (
	"errors"
	"strings"
	"unicode"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

var (
	ErrPasswordTooShort   = errors.New("This password is too short. It must contain at least 8 characters.")
	ErrPasswordNumeric    = errors.New("This password is entirely numeric.")
	ErrPasswordCommon     = errors.New("This password is too common.")
	ErrPasswordSimilar    = errors.New("The password is too similar to the username.")
	ErrPasswordMismatch   = errors.New("The two password fields didn't match.")
	ErrUsernameTooLong    = errors.New("Ensure this value has at most 150 characters.")
	ErrUsernameCharacters = errors.New("Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	ErrEmailInvalid       = errors.New("Enter a valid email address.")
)

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwerty123": {}, "qwertyuiop": {}, "iloveyou": {}, "sunshine": {},
	"princess": {}, "football": {}, "baseball": {}, "welcome1": {}, "trustno1": {},
	"superman": {}, "letmein1": {}, "abc12345": {}, "starwars": {}, "passw0rd": {},
	"whatever": {}, "dragon12": {}, "computer": {}, "michelle": {}, "jennifer": {},
	"11111111": {}, "00000000": {}, "88888888": {}, "asdfghjk": {}, "zaq12wsx": {},
}

// PasswordProblems returns every rule the password breaks, in a stable order.
// username may be empty when it is not yet known.
func PasswordProblems(password, username string) []error {
	var problems []error

	if len([]rune(password)) < MinPasswordLength {
		problems = append(problems, ErrPasswordTooShort)
	}
	if password != "" && isAllDigits(password) {
		problems = append(problems, ErrPasswordNumeric)
	}
	if _, ok := commonPasswords[strings.ToLower(strings.TrimSpace(password))]; ok {
		problems = append(problems, ErrPasswordCommon)
	}
	if tooSimilar(password, username) {
		problems = append(problems, ErrPasswordSimilar)
	}

	return problems
}

// ValidatePassword checks if a password meets security requirements
func ValidatePassword(password, username string) error {
	return errors.Join(PasswordProblems(password, username)...)
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// tooSimilar flags passwords that contain the username or are contained in it.
func tooSimilar(password, username string) bool {
	p := strings.ToLower(password)
	u := strings.ToLower(username)
	if len(u) < 3 || len(p) < 3 {
		return false
	}
	return strings.Contains(p, u) || strings.Contains(u, p)
}
