// Package database defines the SQL adapter used to probe project databases and to store the
// local run history. Drivers live in sub-packages that register themselves on import.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrUnknownProvider is returned for providers without a registered driver.
var ErrUnknownProvider = errors.New("unknown database provider")

// ErrNotConnected is returned when the adapter is used before Connect.
var ErrNotConnected = errors.New("database not connected")

// Adapter defines the database adapter interface.
type Adapter interface {
	// Connect establishes a database connection.
	Connect(ctx context.Context) error

	// Disconnect closes the database connection.
	Disconnect(ctx context.Context) error

	// Execute executes a SQL statement.
	Execute(ctx context.Context, query string, args ...any) (sql.Result, error)

	// Query executes a query that returns rows.
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)

	// QueryRow executes a query that returns a single row.
	QueryRow(ctx context.Context, query string, args ...any) (*sql.Row, error)

	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// Dialect returns the SQL dialect.
	Dialect() SQLDialect
}

// SQLDialect represents a SQL dialect.
type SQLDialect string

const (
	PostgreSQL SQLDialect = "postgres"
	MySQL      SQLDialect = "mysql"
	SQLite     SQLDialect = "sqlite"
)

// Config holds database connection configuration.
type Config struct {
	Provider       string
	URL            string
	MaxConnections int
	ConnectTimeout time.Duration
}

// Constructor builds an adapter for a provider.
type Constructor func(cfg Config) (Adapter, error)

var (
	mu           sync.RWMutex
	constructors = map[string]Constructor{}
)

// Register makes a driver available under the given provider names.
func Register(fn Constructor, providers ...string) {
	mu.Lock()
	defer mu.Unlock()
	for _, p := range providers {
		constructors[strings.ToLower(p)] = fn
	}
}

// Providers lists the registered provider names.
func Providers() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(constructors))
	for p := range constructors {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// NewAdapter creates an adapter for cfg.Provider without connecting.
func NewAdapter(cfg Config) (Adapter, error) {
	mu.RLock()
	fn, ok := constructors[strings.ToLower(cfg.Provider)]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
	return fn(cfg)
}

// Ping connects to the database described by cfg, pings it and disconnects.
func Ping(ctx context.Context, cfg Config) (time.Duration, error) {
	adapter, err := NewAdapter(cfg)
	if err != nil {
		return 0, err
	}
	start := time.Now()
	if err := adapter.Connect(ctx); err != nil {
		return 0, err
	}
	defer adapter.Disconnect(ctx)

	if err := adapter.Ping(ctx); err != nil {
		return 0, fmt.Errorf("failed to ping database: %w", err)
	}
	return time.Since(start), nil
}
