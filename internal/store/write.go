package store

import (
	"context"
	"fmt"
)

// WriteRun inserts a run, or updates the last completed day of an
// existing one.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, item_count, days)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET days = excluded.days
	`, run.ID, run.ItemCount, run.Days)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteItems upserts the current state of items in a single transaction.
// The run must exist (foreign key constraint).
func (s *Store) WriteItems(ctx context.Context, rows []ItemRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write items: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO items (run_id, item_id, position, name, type, sell_in, quality, rules)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, item_id) DO UPDATE SET
			position = excluded.position,
			sell_in = excluded.sell_in,
			quality = excluded.quality,
			rules = excluded.rules
	`)
	if err != nil {
		return fmt.Errorf("write items: prepare: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		rulesJSON, err := marshalRules(row.Item)
		if err != nil {
			return fmt.Errorf("write items: %s: %w", row.ItemID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			row.RunID,
			row.ItemID,
			row.Position,
			row.Item.Name,
			row.Item.Type.String(),
			row.Item.SellIn,
			row.Item.Quality,
			rulesJSON,
		); err != nil {
			return fmt.Errorf("write items: %s: %w", row.ItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write items: commit: %w", err)
	}
	return nil
}

// WriteTick inserts a tick record.
// Uses ON CONFLICT DO NOTHING - rewriting the same (run, day, item) is a no-op.
func (s *Store) WriteTick(ctx context.Context, t Tick) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ticks
		(run_id, day, item_id, position, name, sell_in_before, sell_in_after,
		 quality_before, quality_after, rule_index, adjustment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, day, item_id) DO NOTHING
	`,
		t.RunID,
		t.Day,
		t.ItemID,
		t.Position,
		t.Name,
		t.SellInBefore,
		t.SellInAfter,
		t.QualityBefore,
		t.QualityAfter,
		t.RuleIndex,
		t.Adjustment,
	)
	if err != nil {
		return fmt.Errorf("write tick: %w", err)
	}
	return nil
}
