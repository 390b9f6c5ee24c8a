// Package draft persists at most one in-progress transaction form so a
// reload does not lose what the user typed. This is the only durable
// state the client keeps.
package draft

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fluxo/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNoDraft is returned by Load when nothing was parked.
var ErrNoDraft = errors.New("no draft saved")

// Store keeps the single draft row in a local SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens (and migrates) the draft database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save parks form as the draft, replacing any earlier one.
func (s *Store) Save(ctx context.Context, form core.TransactionForm) error {
	payload, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO drafts (id, payload) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET
			payload = excluded.payload,
			saved_at = CURRENT_TIMESTAMP`,
		string(payload))
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Load returns the parked draft, or ErrNoDraft.
func (s *Store) Load(ctx context.Context) (core.TransactionForm, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM drafts WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return core.TransactionForm{}, ErrNoDraft
	}
	if err != nil {
		return core.TransactionForm{}, fmt.Errorf("load draft: %w", err)
	}

	var form core.TransactionForm
	if err := json.Unmarshal([]byte(payload), &form); err != nil {
		return core.TransactionForm{}, fmt.Errorf("decode draft: %w", err)
	}
	return form, nil
}

// Clear drops the draft. Clearing when none exists is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = 1`); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}
