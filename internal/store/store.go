// Package store keeps calculator form states in an in-memory SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/pacecalc/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// MemoryPath selects a private in-memory database.
const MemoryPath = ":memory:"

// ErrExists is returned by Create when the id already has a record.
var ErrExists = errors.New("form state already exists")

// Store maps instance ids to form states.
type Store struct {
	db *sql.DB
}

// Open opens the database at path and applies migrations. An empty path or
// MemoryPath keeps everything in memory.
func Open(path string) (*Store, error) {
	if path == "" {
		path = MemoryPath
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Each pooled connection to :memory: would see its own empty database.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS form_states (
			id INTEGER PRIMARY KEY,
			pace_seconds INTEGER NOT NULL,
			split_interval INTEGER NOT NULL,
			distance INTEGER NOT NULL,
			show_splits INTEGER NOT NULL,
			label TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Create inserts state for id. It returns ErrExists and writes nothing when
// id is already present.
func (s *Store) Create(ctx context.Context, id model.InstanceID, state model.FormState) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO form_states (id, pace_seconds, split_interval, distance, show_splits, label)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		int64(id),
		int64(state.Pace/time.Second),
		state.SplitInterval,
		state.Distance,
		state.ShowSplits,
		state.Label,
	)
	if err != nil {
		return fmt.Errorf("failed to create form state %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to create form state %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("form state %d: %w", id, ErrExists)
	}
	return nil
}

// Update applies mutate to the record for id. Absent ids are ignored so an
// edit that arrives after removal is harmless.
func (s *Store) Update(ctx context.Context, id model.InstanceID, mutate func(*model.FormState)) error {
	state, ok, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	mutate(&state)
	_, err = s.db.ExecContext(ctx,
		`UPDATE form_states
		 SET pace_seconds = ?, split_interval = ?, distance = ?, show_splits = ?, label = ?
		 WHERE id = ?`,
		int64(state.Pace/time.Second),
		state.SplitInterval,
		state.Distance,
		state.ShowSplits,
		state.Label,
		int64(id),
	)
	if err != nil {
		return fmt.Errorf("failed to update form state %d: %w", id, err)
	}
	return nil
}

// Remove deletes the record for id. Removing an absent id is not an error.
func (s *Store) Remove(ctx context.Context, id model.InstanceID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM form_states WHERE id = ?`, int64(id)); err != nil {
		return fmt.Errorf("failed to remove form state %d: %w", id, err)
	}
	return nil
}

// Get returns the record for id, or the default form state when absent.
func (s *Store) Get(ctx context.Context, id model.InstanceID) (model.FormState, error) {
	state, ok, err := s.lookup(ctx, id)
	if err != nil {
		return model.DefaultFormState(), err
	}
	if !ok {
		return model.DefaultFormState(), nil
	}
	return state, nil
}

// IDs lists the ids that have a record, ascending.
func (s *Store) IDs(ctx context.Context) ([]model.InstanceID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM form_states ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list form states: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var ids []model.InstanceID
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, model.InstanceID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) lookup(ctx context.Context, id model.InstanceID) (model.FormState, bool, error) {
	var (
		state       model.FormState
		paceSeconds int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT pace_seconds, split_interval, distance, show_splits, label
		 FROM form_states WHERE id = ?`, int64(id)).
		Scan(&paceSeconds, &state.SplitInterval, &state.Distance, &state.ShowSplits, &state.Label)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FormState{}, false, nil
	}
	if err != nil {
		return model.FormState{}, false, fmt.Errorf("failed to read form state %d: %w", id, err)
	}
	state.Pace = time.Duration(paceSeconds) * time.Second
	return state, true, nil
}
