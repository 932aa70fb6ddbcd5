package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	accountwebhooks "github.com/goliatone/go-account-webhooks"
	persistence "github.com/goliatone/go-persistence-bun"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

const rootPath = "data/sql/migrations"

// Set is the schema for one dialect: the up/down pairs for accounts and the
// webhook event ledger.
type Set struct {
	Dialect string
	Path    string
	FS      fs.FS
	Up      []string
}

// Sets resolves the postgres and sqlite schema from the embedded tree, or from
// source when one is given.
func Sets(source ...fs.FS) ([]Set, error) {
	root := accountwebhooks.GetMigrationsFS()
	if len(source) > 0 && source[0] != nil {
		root = source[0]
	}
	postgres, err := fs.Sub(root, rootPath)
	if err != nil {
		return nil, fmt.Errorf("migrations: resolve %s: %w", rootPath, err)
	}
	sqlite, err := fs.Sub(postgres, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("migrations: resolve sqlite schema: %w", err)
	}

	sets := []Set{
		{Dialect: DialectPostgres, Path: rootPath, FS: postgres},
		{Dialect: DialectSQLite, Path: rootPath + "/sqlite", FS: sqlite},
	}
	for i := range sets {
		up, err := upFiles(sets[i])
		if err != nil {
			return nil, err
		}
		sets[i].Up = up
	}
	return sets, nil
}

// ForDialect returns the schema set used by dialect.
func ForDialect(dialect string, source ...fs.FS) (Set, error) {
	dialect = normalizeDialect(dialect)
	sets, err := Sets(source...)
	if err != nil {
		return Set{}, err
	}
	for _, set := range sets {
		if set.Dialect == dialect {
			return set, nil
		}
	}
	return Set{}, fmt.Errorf("migrations: unsupported dialect %q", dialect)
}

// Apply registers the schema for dialect with client and migrates to the
// latest version.
func Apply(ctx context.Context, client *persistence.Client, dialect string) error {
	if client == nil {
		return fmt.Errorf("migrations: persistence client is required")
	}
	set, err := ForDialect(dialect)
	if err != nil {
		return err
	}
	client.RegisterSQLMigrations(set.FS)
	if err := client.Migrate(ctx); err != nil {
		return fmt.Errorf("migrations: migrate %s: %w", set.Dialect, err)
	}
	return nil
}

func upFiles(set Set) ([]string, error) {
	up, err := fs.Glob(set.FS, "*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("migrations: glob %s: %w", set.Path, err)
	}
	if len(up) == 0 {
		return nil, fmt.Errorf("migrations: %s schema %q has no *.up.sql files", set.Dialect, set.Path)
	}
	for _, name := range up {
		down := strings.TrimSuffix(name, ".up.sql") + ".down.sql"
		if _, err := fs.Stat(set.FS, down); err != nil {
			return nil, fmt.Errorf("migrations: %s is missing %s: %w", set.Path, down, err)
		}
	}
	sort.Strings(up)
	return up, nil
}

func normalizeDialect(dialect string) string {
	switch strings.TrimSpace(strings.ToLower(dialect)) {
	case "postgresql", "pg", DialectPostgres:
		return DialectPostgres
	case "sqlite3", DialectSQLite:
		return DialectSQLite
	default:
		return strings.TrimSpace(strings.ToLower(dialect))
	}
}
