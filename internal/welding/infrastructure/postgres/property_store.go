package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrEmptyRowID is returned when a row id is empty.
	ErrEmptyRowID = errors.New("property store: empty row id")
	// ErrRowNotFound is returned for a row that was never registered.
	ErrRowNotFound = errors.New("property store: row not found")
)

// PropertyStore keeps flat attribute rows in part_properties.
type PropertyStore struct {
	db *sql.DB
}

// NewPropertyStore constructs a store.
func NewPropertyStore(db *sql.DB) *PropertyStore {
	return &PropertyStore{db: db}
}

// GetProperties returns the non-empty attributes of a row.
func (s *PropertyStore) GetProperties(ctx context.Context, rowID string) (map[string]string, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("property store: nil db")
	}
	if rowID == "" {
		return nil, ErrEmptyRowID
	}
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM property_rows WHERE row_id = $1)`, rowID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrRowNotFound, rowID)
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT name, value
FROM part_properties
WHERE row_id = $1 AND name <> '' AND value <> ''`, rowID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	props := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		props[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return props, nil
}

// WriteProperties upserts all values of an existing row in one transaction.
func (s *PropertyStore) WriteProperties(ctx context.Context, rowID string, values map[string]string) error {
	if s == nil || s.db == nil {
		return errors.New("property store: nil db")
	}
	if rowID == "" {
		return ErrEmptyRowID
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := lockRow(ctx, tx, rowID); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := upsertProperties(ctx, tx, rowID, values); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func lockRow(ctx context.Context, tx *sql.Tx, rowID string) error {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT row_id FROM property_rows WHERE row_id = $1 FOR UPDATE`, rowID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %q", ErrRowNotFound, rowID)
	}
	return err
}

func ensureRow(ctx context.Context, tx *sql.Tx, rowID string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO property_rows (row_id) VALUES ($1) ON CONFLICT (row_id) DO NOTHING`, rowID)
	return err
}

func upsertProperties(ctx context.Context, tx *sql.Tx, rowID string, values map[string]string) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, err := tx.ExecContext(ctx, `
INSERT INTO part_properties (row_id, name, value, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (row_id, name)
DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`, rowID, name, values[name])
		if err != nil {
			return err
		}
	}
	return nil
}
