package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Options selects the database backend
type Options struct {
	// Type is "sqlite" or "postgres"
	Type string
	// URL is the postgres connection string
	URL string
	// DataDir holds the sqlite file
	DataDir string
	// Path overrides the sqlite file location, e.g. ":memory:"
	Path string
}

// Connect opens the database and creates the schema
func Connect(opts Options) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch opts.Type {
	case "postgres":
		db, err = sqlx.Connect("postgres", opts.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
	case "", "sqlite":
		path := opts.Path
		if path == "" {
			dataDir := opts.DataDir
			if dataDir == "" {
				dataDir = "data"
			}
			if err := os.MkdirAll(dataDir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
			path = filepath.Join(dataDir, "vocabtrainer.db")
		}

		db, err = sqlx.Connect("sqlite3", path)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		db.SetMaxOpenConns(1) // SQLite doesn't support multiple writers
		db.SetMaxIdleConns(1)
	default:
		return nil, fmt.Errorf("unsupported database type %q", opts.Type)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	id := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == "postgres" {
		id = "BIGSERIAL PRIMARY KEY"
	}

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS term_scores (
			language TEXT NOT NULL,
			term TEXT NOT NULL,
			level TEXT NOT NULL,
			last_tested_on TEXT,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (language, term)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create term_scores table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS test_results (
			id ` + id + `,
			chat_id BIGINT NOT NULL,
			language TEXT NOT NULL,
			categories TEXT,
			total_words INTEGER NOT NULL,
			correct_words INTEGER NOT NULL,
			wrong_words INTEGER NOT NULL,
			skipped_words INTEGER NOT NULL,
			passes INTEGER NOT NULL,
			test_date TIMESTAMP NOT NULL,
			duration INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create test_results table: %w", err)
	}

	return nil
}
