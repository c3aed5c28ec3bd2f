// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"healthtracker/internal/observability"
)

const pgUniqueViolation = "23505"

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate key")
}

// observe starts a repository span and latency timer; call the returned func when done.
func observe(ctx context.Context, operation, table string) (context.Context, func()) {
	ctx, span := observability.StartRepositorySpan(ctx, operation, table)
	stop := observability.TrackQuery(operation, table)
	return ctx, func() {
		stop()
		span.End()
	}
}

// Repositories bundles every repository bound to one database handle.
type Repositories struct {
	Users       UserRepository
	Profiles    ProfileRepository
	Activities  ActivityRepository
	DietaryLogs DietaryLogRepository
	Weights     WeightEntryRepository
	Goals       GoalRepository

	db *gorm.DB
}

// New returns the repositories backed by db.
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(db),
		Profiles:    NewProfileRepository(db),
		Activities:  NewActivityRepository(db),
		DietaryLogs: NewDietaryLogRepository(db),
		Weights:     NewWeightEntryRepository(db),
		Goals:       NewGoalRepository(db),
		db:          db,
	}
}

// Transactor runs fn against repositories sharing one transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(tx *Repositories) error) error
}

func (r *Repositories) WithinTransaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}
