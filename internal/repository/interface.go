// Package repository persists the project files the tool owns (.yo-rc.json and .jhipster/*.json)
// and the local run history.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jhipster/jhipster-go/internal/core/entity"
	"github.com/jhipster/jhipster-go/internal/core/project"
)

// ErrEntityNotFound is returned when no .jhipster file exists for an entity.
var ErrEntityNotFound = errors.New("entity not found")

// ConfigRepository defines the interface for project configuration access.
type ConfigRepository interface {
	// Load loads the configuration. A missing file yields an empty configuration.
	Load(ctx context.Context) (*project.Config, error)

	// Save saves the configuration, keeping the other root keys of the file.
	Save(ctx context.Context, cfg *project.Config) error

	// Exists reports whether the project has a configuration file.
	Exists(ctx context.Context) (bool, error)
}

// EntityRepository defines the interface for entity definition access.
type EntityRepository interface {
	// FindAll returns every entity sorted by changelogDate, then name.
	FindAll(ctx context.Context) ([]*entity.Entity, error)

	// FindByName returns the entity with the given name.
	FindByName(ctx context.Context, name string) (*entity.Entity, error)

	// Save writes the entity definition.
	Save(ctx context.Context, e *entity.Entity) error

	// Delete removes the entity definition.
	Delete(ctx context.Context, name string) error
}

// Run is one recorded generator run.
type Run struct {
	ID         int64
	StartedAt  time.Time
	Command    string
	BaseName   string
	Generators []string
	Blueprints []string
	Status     string
	Error      string
	Duration   time.Duration
}

// Run statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// HistoryRepository defines the interface for run history access.
type HistoryRepository interface {
	// Record stores a run and sets its ID.
	Record(ctx context.Context, run *Run) error

	// FindAll returns the most recent runs first. limit <= 0 returns every run.
	FindAll(ctx context.Context, limit int) ([]*Run, error)

	// Last returns the most recent run, nil when there is none.
	Last(ctx context.Context) (*Run, error)
}
