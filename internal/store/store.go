// Package store provides persistence of load reports, so that the history of
// loads of a ruleset can be reviewed and compared.
package store

import (
	"context"
	"errors"

	"github.com/dekarrin/civrules/internal/report"
	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
)

// Store holds all the repositories.
type Store interface {
	Reports() ReportRepository
	Close() error
}

// ReportRepository stores load reports. Lists of reports are always ordered
// newest first.
type ReportRepository interface {
	// Create stores a new Report. If r has no ID, one is generated. It is an
	// error to create a Report whose ID is already stored.
	Create(ctx context.Context, r report.Report) (report.Report, error)
	GetByID(ctx context.Context, id uuid.UUID) (report.Report, error)
	GetAll(ctx context.Context) ([]report.Report, error)

	// GetAllByDir returns every report of loads of the ruleset in dir.
	GetAllByDir(ctx context.Context, dir string) ([]report.Report, error)

	// Latest returns the most recent report of a load of the ruleset in dir.
	Latest(ctx context.Context, dir string) (report.Report, error)
	Delete(ctx context.Context, id uuid.UUID) (report.Report, error)
	Close() error
}
