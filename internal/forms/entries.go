package forms

import (
	"time"

	"healthtracker/internal/models"
	"healthtracker/internal/validation"
)

const maxShortText = 50

// ValidateActivity checks an exercise session submission.
func ValidateActivity(values Values) Result[models.FitnessActivity] {
	p := newParser(values)
	activity := models.FitnessActivity{
		ActivityType:   p.text("activity_type", maxShortText),
		Duration:       p.duration("duration"),
		Intensity:      p.text("intensity", maxShortText),
		CaloriesBurned: p.wholeNumber("calories_burned", "gte=0", msgNonNegative),
		DateTime:       p.dateTime("date_time"),
	}
	return finish(activity, p.errs)
}

// ValidateDietaryLog checks a food entry submission.
func ValidateDietaryLog(values Values) Result[models.DietaryLog] {
	p := newParser(values)
	log := models.DietaryLog{
		FoodItem: p.text("food_item", maxShortText),
		Calories: p.wholeNumber("calories", "gte=0", msgNonNegative),
		Carbs:    p.wholeNumber("carbs", "gte=0", msgNonNegative),
		Proteins: p.wholeNumber("proteins", "gte=0", msgNonNegative),
		Fats:     p.wholeNumber("fats", "gte=0", msgNonNegative),
		Quantity: p.wholeNumber("quantity", "gte=0", msgNonNegative),
		DateTime: p.dateTime("date_time"),
	}
	return finish(log, p.errs)
}

// ValidateWeightEntry checks a body-weight submission. Future dates are accepted.
func ValidateWeightEntry(values Values) Result[models.WeightEntry] {
	p := newParser(values)
	entry := models.WeightEntry{Weight: p.positiveNumber("weight")}
	if d, ok := p.date("date"); ok {
		entry.Date = d
	}
	return finish(entry, p.errs)
}

type goalPeriod struct {
	StartDate time.Time
	EndDate   time.Time `validate:"gtefield=StartDate"`
}

// ValidateGoal checks a fitness goal submission.
func ValidateGoal(values Values) Result[models.FitnessGoal] {
	p := newParser(values)
	goal := models.FitnessGoal{}

	if raw, ok := p.required("goal_type"); ok {
		if gt := models.GoalType(raw); gt.Valid() {
			goal.GoalType = gt
		} else {
			p.errs.Add("goal_type", msgInvalidChoice)
		}
	}
	goal.TargetValue = p.wholeNumber("target_value", "gte=0", msgNonNegative)
	start, startOK := p.date("start_date")
	end, endOK := p.date("end_date")
	goal.StartDate, goal.EndDate = start, end
	goal.CurrentProgress = p.wholeNumber("current_progress", "gte=0", msgNonNegative)

	if startOK && endOK {
		period := goalPeriod{StartDate: start, EndDate: end}
		if err := validation.Validator().Struct(period); err != nil {
			p.errs.Add("end_date", msgEndBeforeStart)
		}
	}

	return finish(goal, p.errs)
}
