package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	dbstore "github.com/perspecta/perspecta/internal/db"
)

// openSQLite opens (creating if needed) the sqlite database at path and brings
// the schema up to date. migrationsDir overrides the embedded migrations when
// set.
func openSQLite(path, migrationsDir string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000", filepath.ToSlash(path))
	sqliteDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := dbstore.RunMigrations(sqliteDB, migrationsDir); err != nil {
		_ = sqliteDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqliteDB, nil
}
