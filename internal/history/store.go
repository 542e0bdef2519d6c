package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Entry is one visited search
type Entry struct {
	ID        int       `json:"id" yaml:"id"`
	Organism  string    `json:"organism" yaml:"organism"`
	Query     string    `json:"query" yaml:"query"`
	Action    string    `json:"action" yaml:"action"`
	VisitedAt time.Time `json:"visited_at" yaml:"visited_at"`
}

// Store persists the canonical queries a user visited
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the history database at path
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// One connection, so an in-memory database is shared by every query.
	db.SetMaxOpenConns(1)

	// Create schema
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Add records a visited query. Repeating the latest query of the same
// organism is not recorded again.
func (s *Store) Add(entry Entry) error {
	var last string
	err := s.db.QueryRow(`
		SELECT query FROM search_history
		WHERE organism = ?
		ORDER BY visited_at DESC, id DESC
		LIMIT 1`, entry.Organism).Scan(&last)
	switch {
	case err == nil && last == entry.Query:
		return nil
	case err != nil && err != sql.ErrNoRows:
		return fmt.Errorf("failed to read history: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO search_history (organism, query, action)
		VALUES (?, ?, ?)`,
		entry.Organism,
		entry.Query,
		entry.Action,
	)
	if err != nil {
		return fmt.Errorf("failed to add history entry: %w", err)
	}
	return nil
}

// GetRecent retrieves the most recent entries
func (s *Store) GetRecent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, organism, query, action, visited_at
		FROM search_history
		ORDER BY visited_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	return scanEntries(rows)
}

// Search finds entries whose query contains text
func (s *Store) Search(text string, limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, organism, query, action, visited_at
		FROM search_history
		WHERE query LIKE ?
		ORDER BY visited_at DESC, id DESC
		LIMIT ?`, "%"+text+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search history: %w", err)
	}
	return scanEntries(rows)
}

// Prune keeps only the newest maxEntries entries. Zero keeps everything.
func (s *Store) Prune(maxEntries int) (int64, error) {
	if maxEntries <= 0 {
		return 0, nil
	}
	res, err := s.db.Exec(`
		DELETE FROM search_history
		WHERE id NOT IN (
			SELECT id FROM search_history
			ORDER BY visited_at DESC, id DESC
			LIMIT ?
		)`, maxEntries)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return res.RowsAffected()
}

// Clear deletes all entries
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM search_history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Organism, &e.Query, &e.Action, &e.VisitedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
