// Package service holds the application operations. Every call takes the
// acting user's id explicitly.
package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"healthtracker/internal/forms"
	"healthtracker/internal/models"
	"healthtracker/internal/observability"
	"healthtracker/internal/repository"
)

// ErrUsernameTaken is returned when the requested username already exists.
var ErrUsernameTaken = errors.New("A user with that username already exists.")

// RegistrationService creates accounts together with their profile.
type RegistrationService struct {
	users      repository.UserRepository
	tx         repository.Transactor
	bcryptCost int
}

func NewRegistrationService(users repository.UserRepository, tx repository.Transactor) *RegistrationService {
	return &RegistrationService{users: users, tx: tx, bcryptCost: bcrypt.DefaultCost}
}

// WithBcryptCost overrides the hashing cost.
func (s *RegistrationService) WithBcryptCost(cost int) *RegistrationService {
	s.bcryptCost = cost
	return s
}

// Validate checks the submitted form and, when the fields are well formed,
// whether the username is free.
func (s *RegistrationService) Validate(ctx context.Context, values forms.Values) (forms.Result[forms.Registration], error) {
	res := forms.ValidateRegistration(values)
	if !res.Valid() {
		observability.ValidationFailures.WithLabelValues("registration").Inc()
		return res, nil
	}

	existing, err := s.users.GetByUsername(ctx, res.Value.User.Username)
	if err != nil {
		return res, err
	}
	if existing != nil {
		observability.ValidationFailures.WithLabelValues("registration").Inc()
		errs := forms.FieldErrors{}
		errs.Add("username", ErrUsernameTaken.Error())
		return forms.Result[forms.Registration]{Errors: errs}, nil
	}
	return res, nil
}

// Save hashes the password and, when commit is true, persists the user and
// profile in one transaction. With commit false the returned user is not
// stored and no profile exists.
func (s *RegistrationService) Save(ctx context.Context, reg forms.Registration, commit bool) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := reg.User
	user.Password = string(hash)
	if !commit {
		return &user, nil
	}

	err = s.tx.WithinTransaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Users.Create(ctx, &user); err != nil {
			if models.IsValidation(err) {
				return ErrUsernameTaken
			}
			return err
		}
		profile := reg.Profile
		profile.UserID = user.ID
		if err := tx.Profiles.Create(ctx, &profile); err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	observability.Registrations.Inc()
	return &user, nil
}
