package db

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
)

// ReplaceConfig describes a full-table replace.
type ReplaceConfig struct {
	Schema  string   // "" = search path
	Table   string   // target table
	DDL     string   // column definitions for CREATE TABLE IF NOT EXISTS
	Columns []string // COPY column order
}

// ReplaceTable swaps a table's contents for rows in one transaction:
//  1. CREATE TABLE IF NOT EXISTS
//  2. TRUNCATE
//  3. COPY rows
//
// Readers see either the old rows or the new ones.
func ReplaceTable(ctx context.Context, pool Pool, cfg ReplaceConfig, rows [][]any) (int64, error) {
	if cfg.Table == "" {
		return 0, eris.New("db: replace: no table specified")
	}
	if len(cfg.Columns) == 0 {
		return 0, eris.New("db: replace: no columns specified")
	}
	ident := Identifier(cfg.Schema, cfg.Table).Sanitize()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "db: replace: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", ident, cfg.DDL)); err != nil {
		return 0, eris.Wrapf(err, "db: replace: create %s", ident)
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE %s", ident)); err != nil {
		return 0, eris.Wrapf(err, "db: replace: truncate %s", ident)
	}

	n, err := CopyFromSchema(ctx, tx, cfg.Schema, cfg.Table, cfg.Columns, rows)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "db: replace: commit tx")
	}
	return n, nil
}
