package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ReadRun returns a run by id, or ErrNotFound.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	var run Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, item_count, days FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &run.ItemCount, &run.Days)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run: %w", err)
	}
	return run, nil
}

// ListRuns returns all runs ordered by id.
//
// Returns an empty slice (not nil) if no runs exist.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, item_count, days FROM runs ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.ItemCount, &run.Days); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadItems returns the latest state of every item in a run, in
// inventory order.
//
// Returns an empty slice (not nil) if the run has no items.
func (s *Store) ReadItems(ctx context.Context, runID string) ([]ItemRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, position, name, type, sell_in, quality, rules
		FROM items
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := []ItemRow{}
	for rows.Next() {
		var (
			row                  ItemRow
			name, typ, rulesJSON string
			sellIn, quality      int
		)
		if err := rows.Scan(&row.ItemID, &row.Position, &name, &typ, &sellIn, &quality, &rulesJSON); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		item, err := unmarshalItem(name, typ, sellIn, quality, rulesJSON)
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", row.ItemID, err)
		}
		row.RunID = runID
		row.Item = item
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// ReadTicks returns tick records for a run ordered by day, then inventory
// position. An empty itemID returns every item's ticks.
//
// Returns an empty slice (not nil) if no ticks match.
func (s *Store) ReadTicks(ctx context.Context, runID, itemID string) ([]Tick, error) {
	query := `
		SELECT run_id, day, item_id, position, name, sell_in_before, sell_in_after,
		       quality_before, quality_after, rule_index, adjustment
		FROM ticks
		WHERE run_id = ?`
	args := []any{runID}
	if itemID != "" {
		query += " AND item_id = ?"
		args = append(args, itemID)
	}
	query += " ORDER BY day ASC, position ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ticks: %w", err)
	}
	defer rows.Close()

	ticks := []Tick{}
	for rows.Next() {
		var t Tick
		if err := rows.Scan(
			&t.RunID, &t.Day, &t.ItemID, &t.Position, &t.Name,
			&t.SellInBefore, &t.SellInAfter,
			&t.QualityBefore, &t.QualityAfter,
			&t.RuleIndex, &t.Adjustment,
		); err != nil {
			return nil, fmt.Errorf("scan tick: %w", err)
		}
		ticks = append(ticks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ticks: %w", err)
	}
	return ticks, nil
}
