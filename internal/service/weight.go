package service

import (
	"context"
	"sort"

	"healthtracker/internal/forms"
	"healthtracker/internal/models"
	"healthtracker/internal/observability"
	"healthtracker/internal/repository"
)

// WeightChart is the plotting projection of a user's weight history: two
// parallel sequences ordered by date.
type WeightChart struct {
	Dates   []string  `json:"dates"`
	Weights []float64 `json:"weights"`
}

// NewWeightChart sorts entries by date, keeping insertion order for equal
// dates. The input slice is not modified.
func NewWeightChart(entries []models.WeightEntry) WeightChart {
	sorted := make([]models.WeightEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	chart := WeightChart{
		Dates:   make([]string, 0, len(sorted)),
		Weights: make([]float64, 0, len(sorted)),
	}
	for _, e := range sorted {
		chart.Dates = append(chart.Dates, e.Date.Format(models.DateLayout))
		chart.Weights = append(chart.Weights, e.Weight)
	}
	return chart
}

// WeightService records weight entries and builds the chart.
type WeightService struct {
	repo repository.WeightEntryRepository
}

func NewWeightService(repo repository.WeightEntryRepository) *WeightService {
	return &WeightService{repo: repo}
}

func (s *WeightService) Add(ctx context.Context, userID uint, values forms.Values) (forms.FieldErrors, error) {
	res := forms.ValidateWeightEntry(values)
	if !res.Valid() {
		observability.ValidationFailures.WithLabelValues("weight_entry").Inc()
		return res.Errors, nil
	}
	entry := res.Value
	entry.UserID = userID
	if err := s.repo.Create(ctx, &entry); err != nil {
		return nil, err
	}
	observability.EntriesCreated.WithLabelValues("weight_entry").Inc()
	return nil, nil
}

// History returns the user's entries and their chart, computed fresh on every call.
func (s *WeightService) History(ctx context.Context, userID uint) ([]models.WeightEntry, WeightChart, error) {
	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, WeightChart{}, err
	}
	return entries, NewWeightChart(entries), nil
}
