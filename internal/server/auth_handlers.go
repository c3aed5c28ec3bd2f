package server

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"healthtracker/internal/forms"
	"healthtracker/internal/middleware"
	"healthtracker/internal/service"
)

const (
	sessionCookie = "session"
	loginPath     = "/login"
	afterLogin    = "/profile"
)

// RegisterForm renders an empty registration form.
func (s *Server) RegisterForm(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "register", fiber.Map{"Form": forms.NewForm(nil, nil)})
}

// Register creates the account and its profile, then sends the user to log in.
func (s *Server) Register(c *fiber.Ctx) error {
	ctx := c.UserContext()
	values := formValues(c)

	res, err := s.registration.Validate(ctx, values)
	if err != nil {
		return err
	}
	if !res.Valid() {
		return s.render(c, fiber.StatusUnprocessableEntity, "register", fiber.Map{"Form": forms.NewForm(values, res.Errors)})
	}

	user, err := s.registration.Save(ctx, res.Value, true)
	if errors.Is(err, service.ErrUsernameTaken) {
		errs := forms.FieldErrors{}
		errs.Add("username", err.Error())
		return s.render(c, fiber.StatusUnprocessableEntity, "register", fiber.Map{"Form": forms.NewForm(values, errs)})
	}
	if err != nil {
		return err
	}

	middleware.Logger.InfoContext(ctx, "user registered", slog.Uint64("new_user_id", uint64(user.ID)))
	return c.Redirect(loginPath)
}

// LoginForm renders the login form, remembering where to go afterwards.
func (s *Server) LoginForm(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "login", fiber.Map{
		"Form": forms.NewForm(nil, nil),
		"Next": safeNext(c.Query("next")),
	})
}

// Login checks the credentials, sets the session cookie and redirects to the
// requested local page or the profile.
func (s *Server) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()
	values := formValues(c)
	next := safeNext(values.Get("next"))

	errs := forms.FieldErrors{}
	username, password := values.Get("username"), values["password"]
	if username == "" {
		errs.Add("username", "This field is required.")
	}
	if password == "" {
		errs.Add("password", "This field is required.")
	}

	if len(errs) == 0 {
		user, err := s.sessions.Authenticate(ctx, username, password)
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			errs.Add(forms.NonFieldErrors, err.Error())
		case err != nil:
			return err
		default:
			sess, err := s.sessions.Issue(user.ID)
			if err != nil {
				return err
			}
			c.Cookie(&fiber.Cookie{
				Name:     sessionCookie,
				Value:    sess.Token,
				Path:     "/",
				Expires:  sess.ExpiresAt,
				HTTPOnly: true,
				Secure:   s.config.CookieSecure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
			if next == "" {
				next = afterLogin
			}
			return c.Redirect(next)
		}
	}

	return s.render(c, fiber.StatusUnprocessableEntity, "login", fiber.Map{
		"Form": forms.NewForm(values, errs),
		"Next": next,
	})
}

// Logout revokes the current session, if any, and always ends on the login page.
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.sessions.Revoke(c.UserContext(), c.Cookies(sessionCookie)); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "session revocation failed", slog.String("error", err.Error()))
	}
	s.clearSession(c)
	return c.Redirect(loginPath)
}

// AuthRequired lets the request through only with a valid session cookie.
// Anonymous visitors are sent to the login page with next set to the page
// they asked for.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(sessionCookie)
		if token != "" {
			userID, err := s.sessions.Verify(c.UserContext(), token)
			if err == nil {
				setUser(c, userID)
				return c.Next()
			}
			s.clearSession(c)
		}
		return c.Redirect(loginPath + "?" + url.Values{"next": {c.OriginalURL()}}.Encode())
	}
}

// OptionalAuth resolves the session when present but never blocks the request.
func (s *Server) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := c.Cookies(sessionCookie); token != "" {
			if userID, err := s.sessions.Verify(c.UserContext(), token); err == nil {
				setUser(c, userID)
			}
		}
		return c.Next()
	}
}

func setUser(c *fiber.Ctx, userID uint) {
	c.Locals(middleware.LocalUserID, userID)
	c.SetUserContext(context.WithValue(c.UserContext(), middleware.UserIDKey, userID))
}

func (s *Server) clearSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// safeNext keeps only same-site absolute paths so the login form cannot be
// used as an open redirect.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
