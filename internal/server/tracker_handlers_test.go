package server

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthtracker/internal/models"
)

func TestProtectedPagesRedirectToLogin(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/activities", "/activities/add", "/diet", "/diet/add", "/weight", "/profile", "/goals", "/goals/add"} {
		t.Run(path, func(t *testing.T) {
			resp := f.do(t, get(path, ""))
			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, "/login?"+url.Values{"next": {path}}.Encode(), resp.Header.Get("Location"))
		})
	}
}

func TestProtectedPages_InvalidTokenRedirects(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, get("/activities", "not-a-token"))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "/login?next=")
}

func TestAddActivity_StoresOwnedRowAndRedirects(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "runner", true)
	token := f.token(t, user.ID)

	resp := f.do(t, f.postForm("/activities/add", url.Values{
		"activity_type":   {"Run"},
		"duration":        {"00:30:00"},
		"intensity":       {"High"},
		"calories_burned": {"300"},
		"date_time":       {"2024-01-01T08:00"},
	}, token))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/activities", resp.Header.Get("Location"))

	var stored []models.FitnessActivity
	require.NoError(t, f.db.Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, user.ID, stored[0].UserID)
	assert.Equal(t, "Run", stored[0].ActivityType)
	assert.Equal(t, 30*time.Minute, stored[0].Duration)
	assert.Equal(t, 300, stored[0].CaloriesBurned)
	assert.True(t, stored[0].DateTime.Equal(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)))

	resp = f.do(t, get("/activities", token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "<td>Run</td>")
	assert.Contains(t, body, "<td>300</td>")
	assert.Contains(t, body, "<td>0:30:00</td>")
}

func TestAddActivity_InvalidRerendersWithErrors(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "runner", true)

	resp := f.do(t, f.postForm("/activities/add", url.Values{
		"duration":        {"00:30:00"},
		"intensity":       {"High"},
		"calories_burned": {"lots"},
		"date_time":       {"2024-01-01T08:00"},
	}, f.token(t, user.ID)))

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "This field is required.")
	assert.Contains(t, body, "Enter a whole number.")
	assert.Contains(t, body, `value="lots"`)
	assert.Zero(t, countRows(t, f.db, &models.FitnessActivity{}))
}

func TestAddActivity_GetRendersEmptyForm(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "runner", true)

	resp := f.do(t, get("/activities/add", f.token(t, user.ID)))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `name="activity_type"`)
	assert.NotContains(t, body, "errorlist")
}

func TestActivityList_OnlyShowsOwnRows(t *testing.T) {
	f := newFixture(t)
	me := f.createUser(t, "me", true)
	other := f.createUser(t, "other", true)

	when := time.Date(2024, 2, 1, 7, 0, 0, 0, time.UTC)
	require.NoError(t, f.db.Create(&models.FitnessActivity{UserID: me.ID, ActivityType: "Cycle", Duration: time.Hour, Intensity: "Low", CaloriesBurned: 410, DateTime: when}).Error)
	require.NoError(t, f.db.Create(&models.FitnessActivity{UserID: other.ID, ActivityType: "Swim", Duration: time.Hour, Intensity: "Low", CaloriesBurned: 520, DateTime: when}).Error)

	body := readBody(t, f.do(t, get("/activities", f.token(t, me.ID))))
	assert.Contains(t, body, "Cycle")
	assert.NotContains(t, body, "Swim")
}

func TestAddDietLog(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "eater", true)
	token := f.token(t, user.ID)

	resp := f.do(t, f.postForm("/diet/add", url.Values{
		"food_item": {"Oats"},
		"calories":  {"150"},
		"carbs":     {"27"},
		"proteins":  {"5"},
		"fats":      {"3"},
		"quantity":  {"1"},
		"date_time": {"2024-01-02 07:30"},
	}, token))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/diet", resp.Header.Get("Location"))

	var logs []models.DietaryLog
	require.NoError(t, f.db.Find(&logs).Error)
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].UserID)
	assert.Equal(t, user.ID, *logs[0].UserID)

	body := readBody(t, f.do(t, get("/diet", token)))
	assert.Contains(t, body, "<td>Oats</td>")
	assert.Contains(t, body, "<td>150</td>")
}

func TestAddDietLog_Invalid(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "eater", true)

	resp := f.do(t, f.postForm("/diet/add", url.Values{"food_item": {"Oats"}, "calories": {"-5"}}, f.token(t, user.ID)))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Ensure this value is greater than or equal to 0.")
	assert.Zero(t, countRows(t, f.db, &models.DietaryLog{}))
}

func TestWeightTracker_GetShowsSortedChart(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "lifter", true)

	day := func(s string) time.Time {
		d, err := time.Parse(models.DateLayout, s)
		require.NoError(t, err)
		return d
	}
	require.NoError(t, f.db.Create(&models.WeightEntry{UserID: user.ID, Weight: 79.5, Date: day("2024-01-02")}).Error)
	require.NoError(t, f.db.Create(&models.WeightEntry{UserID: user.ID, Weight: 80, Date: day("2024-01-01")}).Error)

	resp := f.do(t, get("/weight", f.token(t, user.ID)))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)

	today := models.Today().Format(models.DateLayout)
	assert.Contains(t, body, `max="`+today+`"`)
	assert.Contains(t, body, `value="`+today+`"`)
	assert.Contains(t, body, `"dates":["2024-01-01","2024-01-02"]`)
	assert.Contains(t, body, `"weights":[80,79.5]`)
}

func TestWeightTracker_PostRedirectsToItself(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "lifter", true)

	resp := f.do(t, f.postForm("/weight", url.Values{"weight": {"81.2"}, "date": {"2024-03-01"}}, f.token(t, user.ID)))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/weight", resp.Header.Get("Location"))
	assert.EqualValues(t, 1, countRows(t, f.db, &models.WeightEntry{}))
}

func TestWeightTracker_InvalidKeepsHistory(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "lifter", true)
	require.NoError(t, f.db.Create(&models.WeightEntry{UserID: user.ID, Weight: 82, Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)}).Error)

	resp := f.do(t, f.postForm("/weight", url.Values{"weight": {"0"}, "date": {"2024-03-01"}}, f.token(t, user.ID)))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Ensure this value is greater than 0.")
	assert.Contains(t, body, `"dates":["2024-01-05"]`)
	assert.EqualValues(t, 1, countRows(t, f.db, &models.WeightEntry{}))
}

func TestWeightTracker_RejectsNonFiniteWeight(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "lifter", true)
	token := f.token(t, user.ID)

	for _, weight := range []string{"Inf", "+Inf", "infinity", "NaN"} {
		resp := f.do(t, f.postForm("/weight", url.Values{"weight": {weight}, "date": {"2024-03-01"}}, token))
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, weight)
		assert.Contains(t, readBody(t, resp), "Enter a number.", weight)
	}
	assert.Zero(t, countRows(t, f.db, &models.WeightEntry{}))

	body := readBody(t, f.do(t, get("/weight", token)))
	assert.NotContains(t, body, "unsupported value")
}

func TestWeightTracker_RepeatedFieldUsesLastValue(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "lifter", true)

	resp := f.do(t, f.postForm("/weight", url.Values{"weight": {"70", "71.5"}, "date": {"2024-03-01"}}, f.token(t, user.ID)))
	require.Equal(t, http.StatusFound, resp.StatusCode)

	var entry models.WeightEntry
	require.NoError(t, f.db.First(&entry).Error)
	assert.Equal(t, 71.5, entry.Weight)
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "profiled", true)

	resp := f.do(t, get("/profile", f.token(t, user.ID)))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "<h1>profiled</h1>")
	assert.Contains(t, body, "profiled@example.com")
	assert.Contains(t, body, "<dd>180</dd>")
}

func TestProfile_MissingIsNotFound(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "bare", false)

	resp := f.do(t, get("/profile", f.token(t, user.ID)))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "not found")
	assert.Zero(t, countRows(t, f.db, &models.UserProfile{}))
}

func TestGoals(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "planner", true)
	token := f.token(t, user.ID)

	resp := f.do(t, f.postForm("/goals/add", url.Values{
		"goal_type":        {"WGT"},
		"target_value":     {"5"},
		"start_date":       {"2024-01-01"},
		"end_date":         {"2024-03-01"},
		"current_progress": {"1"},
	}, token))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/goals", resp.Header.Get("Location"))

	body := readBody(t, f.do(t, get("/goals", token)))
	assert.Contains(t, body, "<td>Weight Loss</td>")
}

func TestAddGoal_EndBeforeStart(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "planner", true)

	resp := f.do(t, f.postForm("/goals/add", url.Values{
		"goal_type":        {"HYD"},
		"target_value":     {"2"},
		"start_date":       {"2024-03-01"},
		"end_date":         {"2024-01-01"},
		"current_progress": {"0"},
	}, f.token(t, user.ID)))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "End date must be on or after the start date.")
	assert.Contains(t, body, `value="HYD" selected`)
	assert.Zero(t, countRows(t, f.db, &models.FitnessGoal{}))
}
