package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteKV implements KV on a local SQLite database. It backs serverless
// single-player installs where running Redis would be overkill.
type SQLiteKV struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ KV = (*SQLiteKV)(nil)

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

// NewSQLiteKV opens (and if needed initializes) the database at path.
// Use ":memory:" for an ephemeral store.
func NewSQLiteKV(path string, logger *slog.Logger) (*SQLiteKV, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// SQLite handles one writer at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(kvSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize kv schema: %w", err)
	}

	return &SQLiteKV{db: db, logger: logger}, nil
}

func (s *SQLiteKV) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping failed: %w", err)
	}
	return nil
}

func (s *SQLiteKV) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Debug("SQLite key not found", "key", key)
		return "", nil
	}
	if err != nil {
		s.logger.Error("SQLite GET failed", "key", key, "error", err)
		return "", fmt.Errorf("sqlite get failed: %w", err)
	}
	return value, nil
}

func (s *SQLiteKV) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		s.logger.Error("SQLite SET failed", "key", key, "error", err)
		return fmt.Errorf("sqlite set failed: %w", err)
	}
	return nil
}

func (s *SQLiteKV) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
			s.logger.Error("SQLite DEL failed", "key", key, "error", err)
			return fmt.Errorf("sqlite del failed: %w", err)
		}
	}
	return nil
}

func (s *SQLiteKV) Close() error {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close SQLite database", "error", err)
		return err
	}
	return nil
}
