// Package sqlite registers the SQLite adapter.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/jhipster/jhipster-go/internal/adapters/database"
)

func init() {
	database.Register(New, "sqlite", "sqlite3")
}

// New creates a SQLite adapter over the file at cfg.URL.
func New(cfg database.Config) (database.Adapter, error) {
	// a single connection serialises writers
	cfg.MaxConnections = 1
	a := database.NewSQLAdapter("sqlite3", cfg.URL, database.SQLite, cfg)
	a.Setup = func(ctx context.Context, db *sql.DB) error {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		return nil
	}
	return a, nil
}
