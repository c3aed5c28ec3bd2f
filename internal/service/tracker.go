package service

import (
	"context"

	"healthtracker/internal/forms"
	"healthtracker/internal/models"
	"healthtracker/internal/observability"
	"healthtracker/internal/repository"
)

// ActivityService logs and lists exercise sessions.
type ActivityService struct {
	repo repository.ActivityRepository
}

func NewActivityService(repo repository.ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

// Add validates values and stores the activity for userID. Field errors are
// returned without touching storage.
func (s *ActivityService) Add(ctx context.Context, userID uint, values forms.Values) (forms.FieldErrors, error) {
	res := forms.ValidateActivity(values)
	if !res.Valid() {
		observability.ValidationFailures.WithLabelValues("activity").Inc()
		return res.Errors, nil
	}
	activity := res.Value
	activity.UserID = userID
	if err := s.repo.Create(ctx, &activity); err != nil {
		return nil, err
	}
	observability.EntriesCreated.WithLabelValues("activity").Inc()
	return nil, nil
}

func (s *ActivityService) List(ctx context.Context, userID uint) ([]models.FitnessActivity, error) {
	return s.repo.ListByUser(ctx, userID)
}

// DietService logs and lists food entries.
type DietService struct {
	repo repository.DietaryLogRepository
}

func NewDietService(repo repository.DietaryLogRepository) *DietService {
	return &DietService{repo: repo}
}

func (s *DietService) Add(ctx context.Context, userID uint, values forms.Values) (forms.FieldErrors, error) {
	res := forms.ValidateDietaryLog(values)
	if !res.Valid() {
		observability.ValidationFailures.WithLabelValues("dietary_log").Inc()
		return res.Errors, nil
	}
	log := res.Value
	log.UserID = &userID
	if err := s.repo.Create(ctx, &log); err != nil {
		return nil, err
	}
	observability.EntriesCreated.WithLabelValues("dietary_log").Inc()
	return nil, nil
}

func (s *DietService) List(ctx context.Context, userID uint) ([]models.DietaryLog, error) {
	return s.repo.ListByUser(ctx, userID)
}

// GoalService records and lists fitness goals.
type GoalService struct {
	repo repository.GoalRepository
}

func NewGoalService(repo repository.GoalRepository) *GoalService {
	return &GoalService{repo: repo}
}

func (s *GoalService) Add(ctx context.Context, userID uint, values forms.Values) (forms.FieldErrors, error) {
	res := forms.ValidateGoal(values)
	if !res.Valid() {
		observability.ValidationFailures.WithLabelValues("goal").Inc()
		return res.Errors, nil
	}
	goal := res.Value
	goal.UserID = userID
	if err := s.repo.Create(ctx, &goal); err != nil {
		return nil, err
	}
	observability.EntriesCreated.WithLabelValues("goal").Inc()
	return nil, nil
}

func (s *GoalService) List(ctx context.Context, userID uint) ([]models.FitnessGoal, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ProfileService reads the profile created at registration.
type ProfileService struct {
	repo repository.ProfileRepository
}

func NewProfileService(repo repository.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// Get returns the user's profile. A user without one gets a NOT_FOUND error;
// nothing is created or defaulted.
func (s *ProfileService) Get(ctx context.Context, userID uint) (*models.UserProfile, error) {
	return s.repo.GetByUserID(ctx, userID)
}
