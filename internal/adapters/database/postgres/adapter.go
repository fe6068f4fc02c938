// Package postgres registers the PostgreSQL adapter.
package postgres

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/jhipster/jhipster-go/internal/adapters/database"
)

func init() {
	database.Register(New, "postgresql", "postgres")
}

// New creates a PostgreSQL adapter. URLs are converted to a key/value connection string.
func New(cfg database.Config) (database.Adapter, error) {
	dsn := cfg.URL
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		parsed, err := pq.ParseURL(dsn)
		if err != nil {
			return nil, fmt.Errorf("invalid postgres url: %w", err)
		}
		dsn = parsed
	}
	return database.NewSQLAdapter("postgres", dsn, database.PostgreSQL, cfg), nil
}
