package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tahcohcat/annunciator/internal/logger"
)

type DB struct {
	*sqlx.DB
}

// NewDB opens (and if needed creates) the usage ledger at path
func NewDB(path string) (*DB, error) {
	if path == "" {
		path = "annunciator.db" // Default SQLite file
	}

	db, err := sqlx.Connect("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	dbWrapper := &DB{DB: db}

	// Initialize database schema
	if err := dbWrapper.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.New().Debug(fmt.Sprintf("Usage ledger ready at %s", path))
	return dbWrapper, nil
}

// createTables creates the ledger tables
func (db *DB) createTables() error {
	runsTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		input_path TEXT NOT NULL,
		provider TEXT NOT NULL,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		finished_at DATETIME,
		processed INTEGER DEFAULT 0,
		completed INTEGER DEFAULT 0,
		characters INTEGER DEFAULT 0
	);`

	synthesesTable := `
	CREATE TABLE IF NOT EXISTS syntheses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		path TEXT NOT NULL,
		voice TEXT NOT NULL,
		engine TEXT NOT NULL,
		language TEXT NOT NULL,
		output_format TEXT NOT NULL,
		characters INTEGER DEFAULT 0,
		prepended BOOLEAN DEFAULT FALSE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);`

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_syntheses_run_id ON syntheses(run_id);`,
		`CREATE INDEX IF NOT EXISTS idx_syntheses_path ON syntheses(path);`,
	}

	for _, query := range []string{runsTable, synthesesTable} {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	for _, index := range indexes {
		if _, err := db.Exec(index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
