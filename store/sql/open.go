package sqlstore

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-account-webhooks/core"
	persistence "github.com/goliatone/go-persistence-bun"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"

	driverPostgres = "postgres"
	driverSQLite   = "sqlite3"

	defaultPingTimeout = 5 * time.Second
	otelIdentifier     = "go-account-webhooks"
)

// PersistenceConfig adapts a database URL to the go-persistence-bun config
// contract.
type PersistenceConfig struct {
	Debug       bool
	Driver      string
	Server      string
	PingTimeout time.Duration
}

func (c PersistenceConfig) GetDebug() bool {
	return c.Debug
}

func (c PersistenceConfig) GetDriver() string {
	return c.Driver
}

func (c PersistenceConfig) GetServer() string {
	return c.Server
}

func (c PersistenceConfig) GetPingTimeout() time.Duration {
	if c.PingTimeout <= 0 {
		return defaultPingTimeout
	}
	return c.PingTimeout
}

func (c PersistenceConfig) GetOtelIdentifier() string {
	return otelIdentifier
}

// DialectForURL reports the migration dialect and database/sql driver for a
// database URL. Anything that is not a postgres URL is treated as sqlite.
func DialectForURL(databaseURL string) (dialect string, driver string) {
	lower := strings.ToLower(strings.TrimSpace(databaseURL))
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DialectPostgres, driverPostgres
	}
	return DialectSQLite, driverSQLite
}

// OpenPersistenceClient opens the configured database and wraps it in a
// persistence client. The returned dialect selects the migration set.
func OpenPersistenceClient(cfg core.DatabaseConfig) (*persistence.Client, string, error) {
	server := strings.TrimSpace(cfg.URL)
	if server == "" {
		return nil, "", fmt.Errorf("sqlstore: database url is required")
	}
	dialect, driver := DialectForURL(server)

	sqlDB, err := sql.Open(driver, server)
	if err != nil {
		return nil, "", fmt.Errorf("sqlstore: open %s: %w", driver, err)
	}

	var bunDialect schema.Dialect = pgdialect.New()
	if dialect == DialectSQLite {
		sqlDB.SetMaxOpenConns(1)
		bunDialect = sqlitedialect.New()
	}

	client, err := persistence.New(PersistenceConfig{
		Debug:  cfg.Debug,
		Driver: driver,
		Server: server,
	}, sqlDB, bunDialect)
	if err != nil {
		_ = sqlDB.Close()
		return nil, "", fmt.Errorf("sqlstore: persistence client: %w", err)
	}
	return client, dialect, nil
}
