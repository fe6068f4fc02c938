package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const defaultConnectTimeout = 10 * time.Second

// SQLAdapter implements Adapter over database/sql for any registered driver.
type SQLAdapter struct {
	driver  string
	dsn     string
	dialect SQLDialect
	config  Config
	// Setup runs once after the connection is verified.
	Setup func(ctx context.Context, db *sql.DB) error

	db *sql.DB
}

// NewSQLAdapter creates an adapter opening dsn with the named database/sql driver.
func NewSQLAdapter(driver, dsn string, dialect SQLDialect, cfg Config) *SQLAdapter {
	return &SQLAdapter{driver: driver, dsn: dsn, dialect: dialect, config: cfg}
}

// Connect establishes the connection and verifies it.
func (a *SQLAdapter) Connect(ctx context.Context) error {
	db, err := sql.Open(a.driver, a.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if a.config.MaxConnections > 0 {
		db.SetMaxOpenConns(a.config.MaxConnections)
		db.SetMaxIdleConns(a.config.MaxConnections)
	}

	timeout := a.config.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}
	if a.Setup != nil {
		if err := a.Setup(ctx, db); err != nil {
			db.Close()
			return err
		}
	}
	a.db = db
	return nil
}

// Disconnect closes the database connection.
func (a *SQLAdapter) Disconnect(context.Context) error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// Execute executes a query without returning rows.
func (a *SQLAdapter) Execute(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if a.db == nil {
		return nil, ErrNotConnected
	}
	return a.db.ExecContext(ctx, query, args...)
}

// Query executes a query that returns rows.
func (a *SQLAdapter) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if a.db == nil {
		return nil, ErrNotConnected
	}
	return a.db.QueryContext(ctx, query, args...)
}

// QueryRow executes a query that returns a single row.
func (a *SQLAdapter) QueryRow(ctx context.Context, query string, args ...any) (*sql.Row, error) {
	if a.db == nil {
		return nil, ErrNotConnected
	}
	return a.db.QueryRowContext(ctx, query, args...), nil
}

// Ping checks the database connection.
func (a *SQLAdapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return ErrNotConnected
	}
	return a.db.PingContext(ctx)
}

// Dialect returns the SQL dialect.
func (a *SQLAdapter) Dialect() SQLDialect {
	return a.dialect
}

var _ Adapter = (*SQLAdapter)(nil)
