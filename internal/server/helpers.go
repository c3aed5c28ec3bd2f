package server

import (
	"github.com/gofiber/fiber/v2"

	"healthtracker/internal/forms"
	"healthtracker/internal/middleware"
)

// currentUserID returns the id set by the auth middleware, or 0 for anonymous
// requests.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(middleware.LocalUserID).(uint)
	return id
}

const (
	csrfCookie     = "csrftoken"
	csrfField      = "csrfmiddlewaretoken"
	csrfContextKey = "csrf"
)

// formValues collects the submitted fields of a urlencoded or multipart body.
// When a field repeats, the last value wins.
func formValues(c *fiber.Ctx) forms.Values {
	values := forms.Values{}
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		values[string(key)] = string(value)
	})
	if mf, err := c.MultipartForm(); err == nil {
		for k, vs := range mf.Value {
			if len(vs) > 0 {
				values[k] = vs[len(vs)-1]
			}
		}
	}
	delete(values, csrfField)
	return values
}

func csrfToken(c *fiber.Ctx) string {
	token, _ := c.Locals(csrfContextKey).(string)
	return token
}

// render executes a page with status. Every page learns whether someone is
// signed in so the layout can pick its navigation.
func (s *Server) render(c *fiber.Ctx, status int, view string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["LoggedIn"] = currentUserID(c) != 0
	data["CSRFToken"] = csrfToken(c)
	return c.Status(status).Render(view, data)
}
