// Package mysql registers the MySQL and MariaDB adapter.
package mysql

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/jhipster/jhipster-go/internal/adapters/database"
)

func init() {
	database.Register(New, "mysql", "mariadb")
}

// New creates a MySQL adapter. Both driver DSNs and mysql:// or mariadb:// URLs are accepted.
func New(cfg database.Config) (database.Adapter, error) {
	dsn, err := DSN(cfg.URL)
	if err != nil {
		return nil, err
	}
	return database.NewSQLAdapter("mysql", dsn, database.MySQL, cfg), nil
}

// DSN converts a connection URL to a driver DSN and validates it.
func DSN(raw string) (string, error) {
	if !strings.HasPrefix(raw, "mysql://") && !strings.HasPrefix(raw, "mariadb://") {
		if _, err := mysql.ParseDSN(raw); err != nil {
			return "", fmt.Errorf("invalid mysql dsn: %w", err)
		}
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid mysql url: %w", err)
	}
	c := mysql.NewConfig()
	c.Net = "tcp"
	c.Addr = u.Host
	if u.Port() == "" {
		c.Addr = u.Hostname() + ":3306"
	}
	c.DBName = strings.TrimPrefix(u.Path, "/")
	c.Timeout = 10 * time.Second
	if u.User != nil {
		c.User = u.User.Username()
		c.Passwd, _ = u.User.Password()
	}
	return c.FormatDSN(), nil
}
