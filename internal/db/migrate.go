package db

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// RunMigrations brings the schema up to date. Each .sql file is applied at
// most once, in lexical order; applied names are recorded in
// schema_migrations. overrideDir, when non-empty and present on disk, replaces
// the embedded migration set (used by tests and local tooling).
func RunMigrations(sqlDB *sql.DB, overrideDir string) error {
	if _, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return errors.Wrap(err, "create schema_migrations")
	}

	applied, err := appliedMigrations(sqlDB)
	if err != nil {
		return err
	}

	names, source, err := migrationSource(overrideDir)
	if err != nil {
		return err
	}
	for _, name := range names {
		if applied[name] {
			continue
		}
		script, err := fs.ReadFile(source, name)
		if err != nil {
			return errors.Wrapf(err, "read migration %s", name)
		}
		if len(script) == 0 {
			continue
		}
		tx, err := sqlDB.Begin()
		if err != nil {
			return errors.Wrap(err, "begin migration tx")
		}
		if _, err := tx.Exec(string(script)); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "apply migration %s", name)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (name) VALUES (?)`, name); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "record migration %s", name)
		}
		if err := tx.Commit(); err != nil {
			return errors.Wrapf(err, "commit migration %s", name)
		}
	}
	return nil
}

func appliedMigrations(sqlDB *sql.DB) (map[string]bool, error) {
	rows, err := sqlDB.Query(`SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, errors.Wrap(err, "list applied migrations")
	}
	defer rows.Close()
	applied := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "scan migration name")
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

// migrationSource returns the sorted .sql file names plus the fs they live in.
func migrationSource(overrideDir string) ([]string, fs.FS, error) {
	if overrideDir != "" {
		if info, err := os.Stat(overrideDir); err == nil && info.IsDir() {
			fsys := os.DirFS(overrideDir)
			names, err := sqlNames(fsys)
			return names, fsys, err
		}
	}
	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		return nil, nil, errors.Wrap(err, "open embedded migrations")
	}
	names, err := sqlNames(sub)
	return names, sub, err
}

func sqlNames(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, errors.Wrap(err, "read migrations dir")
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".sql" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, fmt.Errorf("no migration files found")
	}
	return names, nil
}
