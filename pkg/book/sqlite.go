package book

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS option_slots (
	section TEXT NOT NULL,
	name    TEXT NOT NULL,
	value   TEXT NOT NULL,
	PRIMARY KEY (section, name)
);`

// SQLiteStore persists slots in the option_slots table of a SQLite
// database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (or creates) the database at path and ensures the
// schema. Use ":memory:" for a throwaway database.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("book: sqlite store requires a path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("book: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("book: create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context, key Key) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM option_slots WHERE section = ? AND name = ?`,
		key.Section, key.Name,
	).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("book: load %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Save(ctx context.Context, key Key, value string) error {
	return saveSlot(ctx, s.db, key, value)
}

func (s *SQLiteStore) Delete(ctx context.Context, key Key) error {
	return deleteSlot(ctx, s.db, key)
}

// Batch runs fn inside one transaction, committed only when fn succeeds.
func (s *SQLiteStore) Batch(ctx context.Context, fn func(w Writer) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("book: begin batch: %w", err)
	}
	if err := fn(txWriter{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("book: commit batch: %w", err)
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type txWriter struct {
	tx *sql.Tx
}

func (w txWriter) Save(ctx context.Context, key Key, value string) error {
	return saveSlot(ctx, w.tx, key, value)
}

func (w txWriter) Delete(ctx context.Context, key Key) error {
	return deleteSlot(ctx, w.tx, key)
}

func saveSlot(ctx context.Context, db execer, key Key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO option_slots (section, name, value) VALUES (?, ?, ?)
		ON CONFLICT (section, name) DO UPDATE SET value = excluded.value`,
		key.Section, key.Name, value,
	)
	if err != nil {
		return fmt.Errorf("book: save %s: %w", key, err)
	}
	return nil
}

func deleteSlot(ctx context.Context, db execer, key Key) error {
	if _, err := db.ExecContext(ctx,
		`DELETE FROM option_slots WHERE section = ? AND name = ?`,
		key.Section, key.Name,
	); err != nil {
		return fmt.Errorf("book: delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Keys(ctx context.Context) ([]Key, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT section, name FROM option_slots ORDER BY section, name`)
	if err != nil {
		return nil, fmt.Errorf("book: list keys: %w", err)
	}
	defer rows.Close()

	var keys []Key
	for rows.Next() {
		var key Key
		if err := rows.Scan(&key.Section, &key.Name); err != nil {
			return nil, fmt.Errorf("book: scan key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("book: list keys: %w", err)
	}
	return keys, nil
}

func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("book: close: %w", err)
	}
	return nil
}
