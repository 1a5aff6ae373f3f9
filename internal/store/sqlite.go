package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/amishk599/resumetailor/internal/model"
)

// ErrNotFound is returned by Get when no completion has the given ID.
var ErrNotFound = errors.New("completion not found")

// Ensure SQLiteStore implements model.CompletionStore.
var _ model.CompletionStore = (*SQLiteStore)(nil)

// SQLiteStore keeps the history of generated results in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// completions table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS completions (
		id              TEXT PRIMARY KEY,
		mode            TEXT NOT NULL,
		job_description TEXT NOT NULL,
		resume          TEXT NOT NULL,
		result          TEXT NOT NULL,
		failed          INTEGER NOT NULL DEFAULT 0,
		created_at      DATETIME NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating completions table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save records a completion. A missing ID or CreatedAt is filled in.
func (s *SQLiteStore) Save(c model.Completion) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO completions (id, mode, job_description, resume, result, failed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Mode, c.JobDescription, c.Resume, c.Result, c.Failed, c.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving completion %s: %w", c.ID, err)
	}
	return nil
}

// List returns up to limit completions, newest first. A non-positive limit
// returns all of them.
func (s *SQLiteStore) List(limit int) ([]model.Completion, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		`SELECT id, mode, job_description, resume, result, failed, created_at
		 FROM completions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing completions: %w", err)
	}
	defer rows.Close()

	var out []model.Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing completions: %w", err)
	}
	return out, nil
}

// Get returns the completion with the given ID.
func (s *SQLiteStore) Get(id string) (model.Completion, error) {
	row := s.db.QueryRow(
		`SELECT id, mode, job_description, resume, result, failed, created_at
		 FROM completions WHERE id = ?`, id)
	c, err := scanCompletion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Completion{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c, err
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCompletion(sc scanner) (model.Completion, error) {
	var c model.Completion
	err := sc.Scan(&c.ID, &c.Mode, &c.JobDescription, &c.Resume, &c.Result, &c.Failed, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return c, err
	}
	if err != nil {
		return c, fmt.Errorf("scanning completion: %w", err)
	}
	return c, nil
}
