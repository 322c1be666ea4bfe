package postgres

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"weld-schedule/internal/welding/infrastructure/memory"
)

// ImportModel copies a model snapshot into the plant tables in one transaction.
// Existing parts with the same ids are replaced; property rows are merged.
func ImportModel(ctx context.Context, db *sql.DB, model *memory.Model) error {
	if db == nil {
		return errors.New("import model: nil db")
	}
	if model == nil {
		return errors.New("import model: nil model")
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := importModel(ctx, tx, model); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func importModel(ctx context.Context, tx *sql.Tx, model *memory.Model) error {
	for _, part := range model.Parts() {
		if _, err := tx.ExecContext(ctx, `DELETE FROM plant_parts WHERE id = $1`, part.Ref.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO plant_parts (id, kind, row_id) VALUES ($1, $2, $3)`,
			part.Ref.ID, string(part.Ref.Kind), part.Ref.RowID); err != nil {
			return err
		}
		for i, port := range part.Ports {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO plant_ports (part_id, ord, name, x, y, z) VALUES ($1, $2, $3, $4, $5, $6)`,
				part.Ref.ID, i, port.Name, port.Position.X, port.Position.Y, port.Position.Z); err != nil {
				return err
			}
		}
		for i, sub := range part.SubParts {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO plant_sub_parts (part_id, ord, kind, row_id) VALUES ($1, $2, $3, $4)`,
				part.Ref.ID, i, string(sub.Kind), sub.RowID); err != nil {
				return err
			}
		}
		portNames := make([]string, 0, len(part.Connections))
		for name := range part.Connections {
			portNames = append(portNames, name)
		}
		sort.Strings(portNames)
		for _, name := range portNames {
			for i, other := range part.Connections[name] {
				if _, err := tx.ExecContext(ctx, `
INSERT INTO plant_connections (part_id, port_name, ord, other_part_id) VALUES ($1, $2, $3, $4)`,
					part.Ref.ID, name, i, other); err != nil {
					return err
				}
			}
		}
	}
	for _, rowID := range model.RowIDs() {
		if err := ensureRow(ctx, tx, rowID); err != nil {
			return err
		}
		if err := upsertProperties(ctx, tx, rowID, model.Row(rowID)); err != nil {
			return err
		}
	}
	return nil
}
