package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

// OpenDB opens the SQLite database and checks the connection
func OpenDB(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite allows one writer; a single connection keeps appends ordered
	db.SetMaxOpenConns(1)

	// Enable foreign key constraints
	if _, err = db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// InitializeDatabase opens the database connection and runs migrations
func InitializeDatabase(ctx context.Context, dataSourceName string) (*sql.DB, error) {
	db, err := OpenDB(dataSourceName)
	if err != nil {
		return nil, err
	}

	applied, err := RunMigrations(ctx, db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("Database initialized", "path", dataSourceName, "migrations_applied", applied)
	return db, nil
}
