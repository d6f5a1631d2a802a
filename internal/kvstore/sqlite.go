package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/alexisbeaulieu97/picgrid/internal/kvstore/migrations"
	"github.com/alexisbeaulieu97/picgrid/internal/logger"
	"github.com/alexisbeaulieu97/picgrid/internal/ports"
	apperrors "github.com/alexisbeaulieu97/picgrid/pkg/errors"
)

// SQLiteStore persists key/value entries in an SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens the database at path, enables WAL mode and applies pending
// migrations.
func OpenSQLite(ctx context.Context, path string, log *logger.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, apperrors.NewPersistenceError("", "create directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperrors.NewPersistenceError("", "open database", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, apperrors.NewPersistenceError("", "enable WAL mode", err)
	}

	// SQLite serialises writers; a single connection keeps that explicit.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, apperrors.NewPersistenceError("", "ping database", err)
	}

	if err := migrations.Run(ctx, db, log); err != nil {
		db.Close()
		return nil, apperrors.NewPersistenceError("", "migrate", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns the value stored under key.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, apperrors.NewPersistenceError(key, "read", err)
	}
	return value, true, nil
}

// Set upserts value under key.
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return apperrors.NewPersistenceError(key, "write", fmt.Errorf("upsert: %w", err))
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ ports.KeyValueStore = (*SQLiteStore)(nil)
