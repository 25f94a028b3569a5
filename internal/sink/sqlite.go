package sink

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/sells-group/county-roi/internal/pipeline"
)

const sqliteDDL = `
	fips                  TEXT PRIMARY KEY,
	county                TEXT NOT NULL,
	median_rent           REAL NOT NULL,
	median_home_value     REAL NOT NULL,
	median_taxes          REAL NOT NULL,
	rental_roi_pct        REAL NOT NULL,
	property_tax_rate_pct REAL NOT NULL,
	run_id                TEXT NOT NULL,
	fetched_at            TEXT NOT NULL,
	geom                  BLOB NOT NULL
`

// SQLite publishes into a local SQLite table. Geometry is stored as EWKB.
type SQLite struct {
	db    *sql.DB
	table string
}

// OpenSQLite opens (or creates) the database file at dsn.
func OpenSQLite(dsn, table string) (*SQLite, error) {
	if err := checkIdent("table", table); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLite{db: db, table: table}, nil
}

// Publish replaces the table contents in one transaction.
func (s *SQLite) Publish(ctx context.Context, ds *pipeline.Dataset) (int64, error) {
	vals, err := rows(ds)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %q (%s)", s.table, sqliteDDL)); err != nil {
		return 0, eris.Wrapf(err, "sqlite: create %s", s.table)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %q", s.table)); err != nil {
		return 0, eris.Wrapf(err, "sqlite: clear %s", s.table)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(Columns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s)",
		s.table, strings.Join(Columns, ", "), placeholders))
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close() //nolint:errcheck

	for _, v := range vals {
		if _, err := stmt.ExecContext(ctx, v...); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert %v", v[0])
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit tx")
	}

	n := int64(len(vals))
	zap.L().Info("sink: published to sqlite",
		zap.String("component", "sink.sqlite"),
		zap.String("table", s.table),
		zap.Int64("rows", n),
		zap.String("run_id", ds.RunID.String()),
	)
	return n, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
