package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fintrack/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteKV stores documents in a single kv table.
type SQLiteKV struct {
	db     *sql.DB
	logger *log.Logger
}

// NewSQLiteKV opens (creating if needed) the database at dbPath and runs
// the embedded migrations.
func NewSQLiteKV(dbPath string) (*SQLiteKV, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteKV{
		db:     db,
		logger: log.Default().WithComponent(log.ComponentStorage),
	}, nil
}

func (s *SQLiteKV) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteKV) Save(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	s.logger.DebugContext(ctx, "Document saved", log.FieldKey, key, "bytes", len(value))
	return nil
}

// Ping reports whether the database is reachable.
func (s *SQLiteKV) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteKV) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
