package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS report_requests (
        user_id INTEGER NOT NULL,
        day TEXT NOT NULL, -- YYYY-MM-DD
        count INTEGER NOT NULL DEFAULT 0,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        PRIMARY KEY (user_id, day)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// IncrementReportRequests bumps the user's counter for day and returns the new value.
func (s *SQLiteStore) IncrementReportRequests(ctx context.Context, userID int64, day string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
        INSERT INTO report_requests (user_id, day, count) VALUES (?, ?, 1)
        ON CONFLICT (user_id, day) DO UPDATE SET count = count + 1, updated_at = CURRENT_TIMESTAMP
        RETURNING count`, userID, day).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to increment report requests: %w", err)
	}
	return count, nil
}

// DeleteReportRequestsBefore drops counters for days earlier than day.
func (s *SQLiteStore) DeleteReportRequestsBefore(ctx context.Context, day string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM report_requests WHERE day < ?", day)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old report requests: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}
