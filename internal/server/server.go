// Package server wires the HTTP pages, middleware and health probes of the
// health tracker.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"healthtracker/internal/cache"
	"healthtracker/internal/config"
	"healthtracker/internal/database"
	"healthtracker/internal/middleware"
	"healthtracker/internal/models"
	"healthtracker/internal/repository"
	"healthtracker/internal/service"
	"healthtracker/internal/views"
)

// Server holds the dependencies shared by every handler.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	repos        *repository.Repositories
	registration *service.RegistrationService
	sessions     *service.SessionService
	activities   *service.ActivityService
	diet         *service.DietService
	weights      *service.WeightService
	goals        *service.GoalService
	profiles     *service.ProfileService
}

// NewServer connects to the database and Redis, brings the schema up to date
// and builds the server.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := database.ApplySchema(ctx, db, cfg); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return NewServerWithDeps(cfg, db, cache.InitRedis(cfg.RedisURL))
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, errors.New("database handle is required")
	}

	repos := repository.New(db)
	ttl := time.Duration(cfg.SessionTTLHours) * time.Hour

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("healthtracker"),
		repos:          repos,
		registration:   service.NewRegistrationService(repos.Users, repos),
		sessions:       service.NewSessionService(repos.Users, redisClient, cfg.JWTSecret, ttl),
		activities:     service.NewActivityService(repos.Activities),
		diet:           service.NewDietService(repos.DietaryLogs),
		weights:        service.NewWeightService(repos.Weights),
		goals:          service.NewGoalService(repos.Goals),
		profiles:       service.NewProfileService(repos.Profiles),
	}, nil
}

// App returns the Fiber application, building it on first use.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	app := fiber.New(fiber.Config{
		AppName:      "Health Tracker",
		Views:        views.New(),
		ErrorHandler: s.ErrorHandler,
		BodyLimit:    1 * 1024 * 1024,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// Every unsafe request must echo the token from the csrf cookie in a form field.
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:" + csrfField,
		CookieName:     csrfCookie,
		CookieSecure:   s.config.CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		Expiration:     time.Duration(s.config.SessionTTLHours) * time.Hour,
		ContextKey:     csrfContextKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			middleware.Logger.WarnContext(c.UserContext(), "csrf check failed",
				slog.String("path", c.Path()), slog.String("error", err.Error()))
			return fiber.NewError(fiber.StatusForbidden, "CSRF verification failed. Request aborted.")
		},
	}))

	// Global rate limiting (200 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        200,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health/live" || c.Path() == "/health/ready"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, please try again later.")
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Health Tracker Metrics",
	}))

	identify := s.OptionalAuth()
	app.Get("/", identify, s.Home)
	app.Get("/register", identify, s.RegisterForm)
	app.Post("/register", identify, middleware.RateLimit(s.redis, 5, 10*time.Minute, "register"), s.Register)
	app.Get("/login", identify, s.LoginForm)
	app.Post("/login", identify, middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	app.All("/logout", s.Logout)

	auth := s.AuthRequired()

	app.Get("/activities", auth, s.ActivityList)
	app.Get("/activities/add", auth, s.AddActivity)
	app.Post("/activities/add", auth, s.AddActivity)

	app.Get("/diet", auth, s.DietLog)
	app.Get("/diet/add", auth, s.AddDietLog)
	app.Post("/diet/add", auth, s.AddDietLog)

	app.Get("/weight", auth, s.WeightTracker)
	app.Post("/weight", auth, s.WeightTracker)

	app.Get("/profile", auth, s.Profile)

	app.Get("/goals", auth, s.GoalList)
	app.Get("/goals/add", auth, s.AddGoal)
	app.Post("/goals/add", auth, s.AddGoal)
}

// ErrorHandler renders the error page for anything a handler returned.
// AppError and fiber.Error carry their own status; everything else is a 500.
func (s *Server) ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Something went wrong on our side. Please try again later."

	var appErr *models.AppError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		status = appErr.StatusCode()
		if status < fiber.StatusInternalServerError {
			message = appErr.Message
		}
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
		message = fiberErr.Message
	}

	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
			slog.String("path", c.Path()), slog.String("error", err.Error()))
	}

	if rerr := s.render(c, status, "error", fiber.Map{"Status": status, "Message": message}); rerr != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "render error page", slog.String("error", rerr.Error()))
		return c.Status(status).SendString(message)
	}
	return nil
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports whether the database (and Redis, when configured)
// answer. Running without Redis is a supported mode and does not fail the probe.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start listens on the configured port until the app is shut down.
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http: %w", err))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			errs = append(errs, fmt.Errorf("close database: %w", cerr))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", rerr))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return errors.Join(errs...)
}
