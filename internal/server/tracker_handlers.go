package server

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"healthtracker/internal/forms"
	"healthtracker/internal/models"
)

type entryAdder interface {
	Add(ctx context.Context, userID uint, values forms.Values) (forms.FieldErrors, error)
}

// entryForm serves an input page: GET shows the empty form, a valid POST
// stores the entry and redirects to success, an invalid one re-renders with
// the submitted values and a 422.
func (s *Server) entryForm(c *fiber.Ctx, adder entryAdder, view, success string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if c.Method() != fiber.MethodPost {
		data["Form"] = forms.NewForm(nil, nil)
		return s.render(c, fiber.StatusOK, view, data)
	}

	values := formValues(c)
	errs, err := adder.Add(c.UserContext(), currentUserID(c), values)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		data["Form"] = forms.NewForm(values, errs)
		return s.render(c, fiber.StatusUnprocessableEntity, view, data)
	}
	return c.Redirect(success)
}

// Home renders the landing page.
func (s *Server) Home(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "home", nil)
}

func (s *Server) ActivityList(c *fiber.Ctx) error {
	activities, err := s.activities.List(c.UserContext(), currentUserID(c))
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "activity_list", fiber.Map{"Activities": activities})
}

func (s *Server) AddActivity(c *fiber.Ctx) error {
	return s.entryForm(c, s.activities, "add_activity", "/activities", nil)
}

func (s *Server) DietLog(c *fiber.Ctx) error {
	logs, err := s.diet.List(c.UserContext(), currentUserID(c))
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "diet_log", fiber.Map{"Logs": logs})
}

func (s *Server) AddDietLog(c *fiber.Ctx) error {
	return s.entryForm(c, s.diet, "add_diet_log", "/diet", fiber.Map{
		"Nutrients": []string{"calories", "carbs", "proteins", "fats", "quantity"},
	})
}

// WeightTracker records a weight entry and shows the history with its chart
// data. A successful POST redirects back here.
func (s *Server) WeightTracker(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)
	today := models.Today().Format(models.DateLayout)

	form := forms.NewForm(forms.Values{"date": today}, nil)
	status := fiber.StatusOK
	if c.Method() == fiber.MethodPost {
		values := formValues(c)
		errs, err := s.weights.Add(ctx, userID, values)
		if err != nil {
			return err
		}
		if len(errs) == 0 {
			return c.Redirect("/weight")
		}
		form = forms.NewForm(values, errs)
		status = fiber.StatusUnprocessableEntity
	}

	entries, chart, err := s.weights.History(ctx, userID)
	if err != nil {
		return err
	}
	return s.render(c, status, "weight_tracker", fiber.Map{
		"Form":    form,
		"Today":   today,
		"Entries": entries,
		"Chart":   chart,
	})
}

// Profile shows the signed-in user's profile. A user without one gets the
// not-found page.
func (s *Server) Profile(c *fiber.Ctx) error {
	profile, err := s.profiles.Get(c.UserContext(), currentUserID(c))
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "profile", fiber.Map{"Profile": profile})
}

func (s *Server) GoalList(c *fiber.Ctx) error {
	goals, err := s.goals.List(c.UserContext(), currentUserID(c))
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "goal_list", fiber.Map{"Goals": goals})
}

func (s *Server) AddGoal(c *fiber.Ctx) error {
	return s.entryForm(c, s.goals, "add_goal", "/goals", nil)
}
