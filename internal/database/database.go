// Package database provides destination connection management for dumpmigrate.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver, registered as "pgx"

	"github.com/dbsmedya/dumpmigrate/internal/config"
	"github.com/dbsmedya/dumpmigrate/internal/sqlutil"
)

// openDB is replaced in tests.
var openDB = sql.Open

// Manager handles the connection to the destination database.
type Manager struct {
	DB *sql.DB

	config  *config.DatabaseConfig
	dialect sqlutil.Dialect
	retries int
	backoff time.Duration
}

// NewManager creates a new database manager from configuration.
func NewManager(cfg *config.DatabaseConfig) *Manager {
	return &Manager{
		config:  cfg,
		retries: 3,
		backoff: time.Second,
	}
}

// Connect opens and verifies the destination connection.
func (m *Manager) Connect(ctx context.Context) error {
	if m.config == nil {
		return fmt.Errorf("destination database is not configured")
	}

	dialect, err := sqlutil.DialectFor(m.config.Driver)
	if err != nil {
		return fmt.Errorf("failed to connect to destination database: %w", err)
	}
	m.dialect = dialect

	m.DB, err = m.connectWithRetry(ctx, m.config)
	if err != nil {
		return fmt.Errorf("failed to connect to destination database: %w", err)
	}

	return nil
}

// Dialect returns the SQL dialect of the destination. It is only meaningful
// after Connect.
func (m *Manager) Dialect() sqlutil.Dialect {
	return m.dialect
}

// connectWithRetry attempts to connect with exponential backoff.
func (m *Manager) connectWithRetry(ctx context.Context, cfg *config.DatabaseConfig) (*sql.DB, error) {
	var db *sql.DB
	var err error

	backoff := m.backoff

	for i := 0; i < m.retries; i++ {
		db, err = m.connect(cfg)
		if err == nil {
			pingErr := db.PingContext(ctx)
			if pingErr == nil {
				return db, nil
			}
			db.Close()
			err = pingErr
		}

		if i < m.retries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}
	}

	return nil, fmt.Errorf("failed after %d retries: %w", m.retries, err)
}

// connect creates a database handle and configures its pool.
func (m *Manager) connect(cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := openDB(cfg.Driver, BuildDSN(cfg))
	if err != nil {
		return nil, err
	}

	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
	}
	if cfg.MaxIdleConnections > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConnections)
	}
	db.SetConnMaxLifetime(10 * time.Minute)

	return db, nil
}

// BuildDSN constructs the data source name for the configured driver.
func BuildDSN(cfg *config.DatabaseConfig) string {
	if cfg.Driver == "pgx" {
		return buildPostgresDSN(cfg)
	}
	return buildMySQLDSN(cfg)
}

// buildMySQLDSN formats user:password@tcp(host:port)/database?params.
func buildMySQLDSN(cfg *config.DatabaseConfig) string {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
	)

	if cfg.Database != "" {
		dsn += cfg.Database
	}

	params := "?parseTime=true&charset=utf8mb4"
	switch cfg.TLS {
	case "disable":
		params += "&tls=false"
	case "required":
		params += "&tls=true"
	case "preferred", "":
		params += "&tls=preferred"
	}

	return dsn + params
}

// buildPostgresDSN formats a postgres:// URL understood by pgx.
func buildPostgresDSN(cfg *config.DatabaseConfig) string {
	sslmode := "prefer"
	switch cfg.TLS {
	case "disable":
		sslmode = "disable"
	case "required":
		sslmode = "require"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Database,
		RawQuery: "sslmode=" + sslmode,
	}
	return u.String()
}

// Close closes the destination connection.
func (m *Manager) Close() error {
	if m.DB == nil {
		return nil
	}
	if err := m.DB.Close(); err != nil {
		return fmt.Errorf("destination close: %w", err)
	}
	return nil
}

// Ping verifies the destination connection is alive.
func (m *Manager) Ping(ctx context.Context) error {
	if m.DB == nil {
		return fmt.Errorf("destination is not connected")
	}
	if err := m.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("destination ping failed: %w", err)
	}
	return nil
}
