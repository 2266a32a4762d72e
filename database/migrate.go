package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migration represents a database migration
type Migration struct {
	Version  string
	Filename string
	SQL      string
}

// RunMigrations executes all pending migrations and returns how many ran
func RunMigrations(ctx context.Context, db *sql.DB) (int, error) {
	// Create migrations table if it doesn't exist
	if err := createMigrationsTable(ctx, db); err != nil {
		return 0, fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations, err := LoadMigrations(migrationFiles)
	if err != nil {
		return 0, fmt.Errorf("failed to load migrations: %w", err)
	}

	applied, err := getAppliedMigrations(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	count := 0
	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}

		slog.Info("Running migration", "file", migration.Filename)
		if err := runMigration(ctx, db, migration); err != nil {
			return count, fmt.Errorf("failed to run migration %s: %w", migration.Filename, err)
		}
		count++
	}

	return count, nil
}

// createMigrationsTable creates the migrations tracking table
func createMigrationsTable(ctx context.Context, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version TEXT PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
	_, err := db.ExecContext(ctx, query)
	return err
}

// LoadMigrations reads every *.sql file under migrations/ sorted by version
func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	files, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no migration files found")
	}

	var migrations []Migration
	for _, file := range files {
		content, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		filename := path.Base(file)
		migrations = append(migrations, Migration{
			Version:  strings.TrimSuffix(filename, ".sql"),
			Filename: filename,
			SQL:      string(content),
		})
	}

	// Sort migrations by filename/version
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// getAppliedMigrations returns the set of already applied migration versions
func getAppliedMigrations(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	versions := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		versions[version] = true
	}

	return versions, rows.Err()
}

// runMigration executes a single migration and records it in one transaction
func runMigration(ctx context.Context, db *sql.DB, migration Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, migration.SQL); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO migrations (version) VALUES (?)", migration.Version); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return tx.Commit()
}
