// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package store provides the local SQLite cache: last good datasets per
// language, image data URIs and small key/value settings.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/akyodex/akyodex/internal/domain"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const keyImageVersion = "image_version"

// Store handles SQLite persistence. Safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates a Store at dbPath, creating parent directories and tables.
// File databases use WAL mode.
func Open(dbPath string) (*Store, error) {
	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Each in-memory connection is a separate database.
	if dbPath == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != MemoryPath {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()

			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}

	if err := s.createTables(); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS datasets (
		lang TEXT PRIMARY KEY,
		body TEXT NOT NULL,
		row_count INTEGER NOT NULL DEFAULT 0,
		fetched_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS images (
		id TEXT PRIMARY KEY,
		data_uri TEXT NOT NULL,
		stored_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Close()
}

// LoadDataset returns the cached dataset for lang.
func (s *Store) LoadDataset(ctx context.Context, lang string) (domain.Dataset, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		dataset   = domain.Dataset{Lang: lang, FromCache: true}
		fetchedAt time.Time
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT body, row_count, fetched_at FROM datasets WHERE lang = ?`, lang,
	).Scan(&dataset.Text, &dataset.RowCountHint, &fetchedAt)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.Dataset{}, false, nil
	case err != nil:
		return domain.Dataset{}, false, fmt.Errorf("load dataset %s: %w", lang, err)
	}

	dataset.FetchedAt = fetchedAt

	return dataset, true, nil
}

// SaveDataset replaces the cached dataset for dataset.Lang.
func (s *Store) SaveDataset(ctx context.Context, dataset domain.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fetchedAt := dataset.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO datasets (lang, body, row_count, fetched_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(lang) DO UPDATE SET
			body = excluded.body,
			row_count = excluded.row_count,
			fetched_at = excluded.fetched_at
	`, dataset.Lang, dataset.Text, dataset.RowCountHint, fetchedAt.UTC())
	if err != nil {
		return fmt.Errorf("save dataset %s: %w", dataset.Lang, err)
	}

	return nil
}

// GetImage returns the cached data URI for id. Lookup errors count as misses.
func (s *Store) GetImage(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var dataURI string

	err := s.db.QueryRow(`SELECT data_uri FROM images WHERE id = ?`, id).Scan(&dataURI)
	if err != nil {
		return "", false
	}

	return dataURI, true
}

// PutImage stores dataURI for id.
func (s *Store) PutImage(id, dataURI string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO images (id, data_uri, stored_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data_uri = excluded.data_uri, stored_at = excluded.stored_at
	`, id, dataURI, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save image %s: %w", id, err)
	}

	return nil
}

// DeleteImage removes the cached image for id.
func (s *Store) DeleteImage(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM images WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete image %s: %w", id, err)
	}

	return nil
}

// ImageCount returns the number of cached images.
func (s *Store) ImageCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM images`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count images: %w", err)
	}

	return count, nil
}

// ImageVersion returns the stored cache-busting token, or "".
func (s *Store) ImageVersion(ctx context.Context) (string, error) {
	return s.get(ctx, keyImageVersion)
}

// SetImageVersion stores the cache-busting token.
func (s *Store) SetImageVersion(ctx context.Context, token string) error {
	return s.set(ctx, keyImageVersion, token)
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string

	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}

	return value, nil
}

func (s *Store) set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}

	return nil
}
