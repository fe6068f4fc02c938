package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhipster/jhipster-go/internal/adapters/database"
)

// HistoryRepositoryImpl implements the HistoryRepository interface using a database.
// A nil adapter disables the history.
type HistoryRepositoryImpl struct {
	db database.Adapter
}

// NewHistoryRepository creates a new history repository.
func NewHistoryRepository(db database.Adapter) *HistoryRepositoryImpl {
	return &HistoryRepositoryImpl{db: db}
}

// Record inserts a run.
func (r *HistoryRepositoryImpl) Record(ctx context.Context, run *Run) error {
	if r.db == nil {
		return nil
	}
	if err := r.ensureRunsTable(ctx); err != nil {
		return fmt.Errorf("failed to ensure runs table: %w", err)
	}

	query := `
		INSERT INTO runs (started_at, command, base_name, generators, blueprints, status, error, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.Execute(ctx, query,
		run.StartedAt.UTC(),
		run.Command,
		run.BaseName,
		strings.Join(run.Generators, ","),
		strings.Join(run.Blueprints, ","),
		run.Status,
		run.Error,
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		run.ID = id
	}
	return nil
}

// FindAll returns the runs, most recent first.
func (r *HistoryRepositoryImpl) FindAll(ctx context.Context, limit int) ([]*Run, error) {
	if r.db == nil {
		return nil, nil
	}
	if err := r.ensureRunsTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure runs table: %w", err)
	}

	query := `
		SELECT id, started_at, command, base_name, generators, blueprints, status, error, duration_ms
		FROM runs
		ORDER BY started_at DESC, id DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query run history: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Last returns the most recent run.
func (r *HistoryRepositoryImpl) Last(ctx context.Context) (*Run, error) {
	runs, err := r.FindAll(ctx, 1)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return runs[0], nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		run                    Run
		generators, blueprints string
		errText                sql.NullString
		durationMs             int64
	)
	err := row.Scan(&run.ID, &run.StartedAt, &run.Command, &run.BaseName, &generators, &blueprints, &run.Status, &errText, &durationMs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run row: %w", err)
	}
	run.Generators = splitList(generators)
	run.Blueprints = splitList(blueprints)
	run.Error = errText.String
	run.Duration = time.Duration(durationMs) * time.Millisecond
	return &run, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// ensureRunsTable creates the runs table if it doesn't exist.
func (r *HistoryRepositoryImpl) ensureRunsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TIMESTAMP NOT NULL,
			command TEXT NOT NULL,
			base_name TEXT NOT NULL DEFAULT '',
			generators TEXT NOT NULL DEFAULT '',
			blueprints TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			error TEXT,
			duration_ms INTEGER NOT NULL DEFAULT 0
		)
	`
	_, err := r.db.Execute(ctx, query)
	return err
}

var _ HistoryRepository = (*HistoryRepositoryImpl)(nil)
