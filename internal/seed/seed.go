// Package seed fills a database with a demo account and a generated history
// of workouts, meals, weigh-ins and goals. Development use only.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"

	"healthtracker/internal/forms"
	"healthtracker/internal/middleware"
	"healthtracker/internal/models"
	"healthtracker/internal/repository"
	"healthtracker/internal/service"
)

const maxTextLength = 50

var (
	activityTypes = []string{"Run", "Cycle", "Swim", "Walk", "Row", "Yoga", "Strength"}
	intensities   = []string{"Low", "Moderate", "High"}
	// rough kcal per minute for each intensity
	burnRate = map[string]int{"Low": 5, "Moderate": 8, "High": 12}
)

// Options configuration for the seeder
type Options struct {
	Username string
	Password string
	Days     int
	// Seed makes the generated history reproducible. Zero picks a random seed.
	Seed int64
}

// DefaultOptions seeds a "demo" account with a month of history.
func DefaultOptions() Options {
	return Options{Username: "demo", Password: "demo-pass-123", Days: 30}
}

// Summary reports what Run created.
type Summary struct {
	User       *models.User
	Activities int
	Meals      int
	Weights    int
	Goals      int
}

// Seeder creates one demo user with a generated history.
type Seeder struct {
	repos        *repository.Repositories
	registration *service.RegistrationService
	faker        *gofakeit.Faker
	opts         Options
}

func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	repos := repository.New(db)
	if opts.Days <= 0 {
		opts.Days = DefaultOptions().Days
	}
	return &Seeder{
		repos:        repos,
		registration: service.NewRegistrationService(repos.Users, repos),
		faker:        gofakeit.New(opts.Seed),
		opts:         opts,
	}
}

// WithBcryptCost overrides the password hashing cost.
func (s *Seeder) WithBcryptCost(cost int) *Seeder {
	s.registration.WithBcryptCost(cost)
	return s
}

// Run registers the demo user and writes the history in one transaction. It
// refuses to touch an existing account of the same name.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	existing, err := s.repos.Users.GetByUsername(ctx, s.opts.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("user %q already exists", s.opts.Username)
	}

	user, err := s.registration.Save(ctx, s.buildRegistration(), true)
	if err != nil {
		return nil, fmt.Errorf("create demo user: %w", err)
	}

	summary := &Summary{User: user}
	err = s.repos.WithinTransaction(ctx, func(tx *repository.Repositories) error {
		return s.seedHistory(ctx, tx, user.ID, summary)
	})
	if err != nil {
		return nil, fmt.Errorf("seed history: %w", err)
	}

	middleware.Logger.InfoContext(ctx, "demo data seeded",
		slog.String("username", user.Username),
		slog.Int("activities", summary.Activities),
		slog.Int("meals", summary.Meals),
		slog.Int("weights", summary.Weights),
		slog.Int("goals", summary.Goals))
	return summary, nil
}

func (s *Seeder) buildRegistration() forms.Registration {
	f := s.faker
	dob := f.DateRange(time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2004, 12, 31, 0, 0, 0, 0, time.UTC))
	dob = time.Date(dob.Year(), dob.Month(), dob.Day(), 0, 0, 0, 0, time.UTC)
	height := float64(f.Number(150, 200))
	weight := float64(f.Number(55, 100))
	goal := weight - float64(f.Number(2, 8))

	return forms.Registration{
		User: models.User{Username: s.opts.Username, Email: f.Email()},
		Profile: models.UserProfile{
			DateOfBirth:       &dob,
			Height:            &height,
			Weight:            &weight,
			FitnessLevel:      strconv.Itoa(f.Number(1, 10)),
			DefaultWeightGoal: &goal,
		},
		Password: s.opts.Password,
	}
}

func (s *Seeder) seedHistory(ctx context.Context, tx *repository.Repositories, userID uint, summary *Summary) error {
	f := s.faker
	first := models.Today().AddDate(0, 0, -(s.opts.Days - 1))
	weight := f.Float64Range(60, 95)

	for i := 0; i < s.opts.Days; i++ {
		day := first.AddDate(0, 0, i)

		if f.Bool() {
			activity := s.activity(day)
			activity.UserID = userID
			if err := tx.Activities.Create(ctx, &activity); err != nil {
				return err
			}
			summary.Activities++
		}

		for m := f.Number(1, 3); m > 0; m-- {
			meal := s.meal(day)
			meal.UserID = &userID
			if err := tx.DietaryLogs.Create(ctx, &meal); err != nil {
				return err
			}
			summary.Meals++
		}

		weight += f.Float64Range(-0.5, 0.4)
		entry := models.WeightEntry{UserID: userID, Weight: math.Round(weight*10) / 10, Date: day}
		if err := tx.Weights.Create(ctx, &entry); err != nil {
			return err
		}
		summary.Weights++
	}

	end := first.AddDate(0, 0, s.opts.Days+60)
	goals := []models.FitnessGoal{
		{GoalType: models.GoalWeightLoss, TargetValue: f.Number(2, 8), CurrentProgress: f.Number(0, 2)},
		{GoalType: models.GoalHydration, TargetValue: f.Number(2, 3), CurrentProgress: f.Number(0, 2)},
	}
	for i := range goals {
		goals[i].UserID = userID
		goals[i].StartDate = first
		goals[i].EndDate = end
		if err := tx.Goals.Create(ctx, &goals[i]); err != nil {
			return err
		}
		summary.Goals++
	}
	return nil
}

func (s *Seeder) activity(day time.Time) models.FitnessActivity {
	f := s.faker
	intensity := f.RandomString(intensities)
	minutes := f.Number(15, 90)
	return models.FitnessActivity{
		ActivityType:   f.RandomString(activityTypes),
		Duration:       time.Duration(minutes) * time.Minute,
		Intensity:      intensity,
		CaloriesBurned: minutes * burnRate[intensity],
		DateTime:       day.Add(time.Duration(f.Number(6, 20)) * time.Hour),
	}
}

func (s *Seeder) meal(day time.Time) models.DietaryLog {
	f := s.faker
	var food string
	switch f.Number(0, 3) {
	case 0:
		food = f.Breakfast()
	case 1:
		food = f.Lunch()
	case 2:
		food = f.Dinner()
	default:
		food = f.Snack()
	}
	carbs, proteins, fats := f.Number(5, 90), f.Number(2, 50), f.Number(1, 40)
	return models.DietaryLog{
		FoodItem: truncate(food, maxTextLength),
		Calories: carbs*4 + proteins*4 + fats*9,
		Carbs:    carbs,
		Proteins: proteins,
		Fats:     fats,
		Quantity: f.Number(1, 3),
		DateTime: day.Add(time.Duration(f.Number(7, 21)) * time.Hour),
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
