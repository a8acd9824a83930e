package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteSet persists seen identifiers so a restart does not reprocess them
type SQLiteSet struct {
	conn *sql.DB
}

// OpenSQLiteSet opens (or creates) the database at path and initializes the schema
func OpenSQLiteSet(path string) (*SQLiteSet, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows a single writer
	conn.SetMaxOpenConns(1)

	s := &SQLiteSet{conn: conn}
	if err := s.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection
func (s *SQLiteSet) Close() error {
	return s.conn.Close()
}

func (s *SQLiteSet) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS seen_items (
		id TEXT PRIMARY KEY,
		seen_at DATETIME NOT NULL
	);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Has reports whether id was added
func (s *SQLiteSet) Has(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.conn.QueryRowContext(ctx, `SELECT 1 FROM seen_items WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query seen item: %w", err)
	}
	return true, nil
}

// Add inserts id; adding twice keeps the first timestamp
func (s *SQLiteSet) Add(ctx context.Context, id string) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO seen_items (id, seen_at) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`,
		id, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert seen item: %w", err)
	}
	return nil
}

// Len returns the number of identifiers
func (s *SQLiteSet) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM seen_items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count seen items: %w", err)
	}
	return n, nil
}
