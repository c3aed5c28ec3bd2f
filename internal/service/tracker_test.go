package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthtracker/internal/forms"
	"healthtracker/internal/models"
)

func runActivity() forms.Values {
	return forms.Values{
		"activity_type":   "Run",
		"duration":        "00:30:00",
		"intensity":       "High",
		"calories_burned": "300",
		"date_time":       "2024-01-01T08:00",
	}
}

func TestActivityService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("valid submission is owned by the submitter", func(t *testing.T) {
		repo := &activityRepoStub{}
		errs, err := NewActivityService(repo).Add(ctx, 7, runActivity())
		require.NoError(t, err)
		assert.Empty(t, errs)
		require.Len(t, repo.created, 1)
		assert.Equal(t, uint(7), repo.created[0].UserID)
		assert.Equal(t, 300, repo.created[0].CaloriesBurned)
	})

	t.Run("invalid submission persists nothing", func(t *testing.T) {
		repo := &activityRepoStub{}
		values := runActivity()
		values["calories_burned"] = "lots"
		errs, err := NewActivityService(repo).Add(ctx, 7, values)
		require.NoError(t, err)
		assert.True(t, errs.Has("calories_burned"))
		assert.Empty(t, repo.created)
	})

	t.Run("storage failure propagates", func(t *testing.T) {
		repo := &activityRepoStub{err: models.NewInternalError(errors.New("db down"))}
		_, err := NewActivityService(repo).Add(ctx, 7, runActivity())
		assert.Error(t, err)
	})
}

func TestDietService_AddSetsNullableOwner(t *testing.T) {
	repo := &dietRepoStub{}
	svc := NewDietService(repo)
	errs, err := svc.Add(context.Background(), 3, forms.Values{
		"food_item": "Eggs", "calories": "150", "carbs": "1", "proteins": "12",
		"fats": "10", "quantity": "2", "date_time": "2024-01-02 08:30",
	})
	require.NoError(t, err)
	assert.Empty(t, errs)
	require.Len(t, repo.created, 1)
	require.NotNil(t, repo.created[0].UserID)
	assert.Equal(t, uint(3), *repo.created[0].UserID)

	list, err := svc.List(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGoalService_Add(t *testing.T) {
	repo := &goalRepoStub{}
	svc := NewGoalService(repo)

	errs, err := svc.Add(context.Background(), 4, forms.Values{
		"goal_type": "MUS", "target_value": "5", "start_date": "2024-02-01",
		"end_date": "2024-01-01", "current_progress": "0",
	})
	require.NoError(t, err)
	assert.True(t, errs.Has("end_date"))
	assert.Empty(t, repo.created)

	errs, err = svc.Add(context.Background(), 4, forms.Values{
		"goal_type": "MUS", "target_value": "5", "start_date": "2024-01-01",
		"end_date": "2024-02-01", "current_progress": "1",
	})
	require.NoError(t, err)
	assert.Empty(t, errs)
	require.Len(t, repo.created, 1)
	assert.Equal(t, uint(4), repo.created[0].UserID)
}

func TestProfileService_GetMissingIsNotFound(t *testing.T) {
	svc := NewProfileService(&profileRepoStub{getFn: func(_ context.Context, userID uint) (*models.UserProfile, error) {
		return nil, models.NewNotFoundError("UserProfile for user", userID)
	}})
	profile, err := svc.Get(context.Background(), 9)
	assert.Nil(t, profile)
	assert.True(t, models.IsNotFound(err))
}

func day(s string) time.Time {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNewWeightChart(t *testing.T) {
	tests := []struct {
		name        string
		entries     []models.WeightEntry
		wantDates   []string
		wantWeights []float64
	}{
		{"empty", nil, []string{}, []float64{}},
		{"single", []models.WeightEntry{{Weight: 70, Date: day("2024-01-05")}}, []string{"2024-01-05"}, []float64{70}},
		{
			"unsorted with ties",
			[]models.WeightEntry{
				{ID: 1, Weight: 72, Date: day("2024-01-03")},
				{ID: 2, Weight: 71, Date: day("2024-01-01")},
				{ID: 3, Weight: 70.5, Date: day("2024-01-03")},
				{ID: 4, Weight: 73, Date: day("2023-12-31")},
			},
			[]string{"2023-12-31", "2024-01-01", "2024-01-03", "2024-01-03"},
			[]float64{73, 71, 72, 70.5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chart := NewWeightChart(tt.entries)
			assert.Equal(t, tt.wantDates, chart.Dates)
			assert.Equal(t, tt.wantWeights, chart.Weights)
			assert.Len(t, chart.Weights, len(chart.Dates))
		})
	}
}

func TestWeightService_HistoryIsNotCached(t *testing.T) {
	repo := &weightRepoStub{rows: []models.WeightEntry{{Weight: 80, Date: day("2024-01-02")}}}
	svc := NewWeightService(repo)
	ctx := context.Background()

	_, chart, err := svc.History(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{80}, chart.Weights)

	repo.rows = append(repo.rows, models.WeightEntry{Weight: 79, Date: day("2024-01-01")})
	entries, chart, err := svc.History(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, chart.Dates)
	assert.Equal(t, 2, repo.calls)
}

func TestWeightService_Add(t *testing.T) {
	repo := &weightRepoStub{}
	svc := NewWeightService(repo)

	errs, err := svc.Add(context.Background(), 2, forms.Values{"weight": "-3", "date": "2024-01-01"})
	require.NoError(t, err)
	assert.True(t, errs.Has("weight"))
	assert.Empty(t, repo.created)

	errs, err = svc.Add(context.Background(), 2, forms.Values{"weight": "81.3", "date": "2024-01-01"})
	require.NoError(t, err)
	assert.Empty(t, errs)
	require.Len(t, repo.created, 1)
	assert.Equal(t, uint(2), repo.created[0].UserID)
}
