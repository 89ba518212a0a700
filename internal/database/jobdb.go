package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DBFileName is the database file created inside the data directory.
const DBFileName = "webrecon.db"

// ErrJobNotFound is returned when no job has the requested ID.
var ErrJobNotFound = errors.New("job not found")

// JobDB stores finished jobs and their result rows in SQLite.
type JobDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures JobDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file when missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the job database in dbDir.
func Open(dbDir string, opts Options) (*JobDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	} else if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		}
		return nil, fmt.Errorf("failed to check database path: %w", err)
	}

	mode := "rw"
	if opts.CreateIfNotExists {
		mode = "rwc"
	}
	db, err := sql.Open("sqlite", dbPath+"?mode="+mode+"&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	jdb := &JobDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if err := jdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return jdb, nil
}

// Path returns the database file path.
func (j *JobDB) Path() string {
	return j.dbPath
}

// Close closes the database connection.
func (j *JobDB) Close() error {
	return j.db.Close()
}

func (j *JobDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		target TEXT NOT NULL,
		state TEXT NOT NULL,
		error TEXT,
		started_at DATETIME,
		finished_at DATETIME,
		running_time_ns INTEGER NOT NULL DEFAULT 0,
		processed INTEGER NOT NULL DEFAULT 0,
		filtered INTEGER NOT NULL DEFAULT 0,
		requests_per_second REAL NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_kind ON jobs(kind);
	CREATE INDEX IF NOT EXISTS idx_jobs_started ON jobs(started_at);

	CREATE TABLE IF NOT EXISTS rows (
		job_id TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		id INTEGER NOT NULL,
		url TEXT NOT NULL,
		parent_url TEXT,
		payload TEXT,
		parameter TEXT,
		title TEXT,
		status INTEGER NOT NULL,
		word_count INTEGER NOT NULL DEFAULT 0,
		char_count INTEGER NOT NULL DEFAULT 0,
		links_found INTEGER NOT NULL DEFAULT 0,
		length INTEGER NOT NULL DEFAULT 0,
		depth_remaining INTEGER,
		hash TEXT,
		snippet TEXT,
		is_error INTEGER NOT NULL DEFAULT 0,
		error_message TEXT,
		retained INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (job_id, id)
	);

	CREATE INDEX IF NOT EXISTS idx_rows_status ON rows(job_id, status);
	CREATE INDEX IF NOT EXISTS idx_rows_hash ON rows(hash);

	CREATE TABLE IF NOT EXISTS findings (
		job_id TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		severity TEXT NOT NULL,
		value TEXT,
		url TEXT NOT NULL,
		PRIMARY KEY (job_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_findings_type ON findings(type);
	`
	_, err := j.db.ExecContext(context.Background(), schema)
	return err
}
