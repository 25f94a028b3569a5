package sink

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/county-roi/internal/db"
	"github.com/sells-group/county-roi/internal/pipeline"
)

const postgresDDL = `
	fips                  TEXT PRIMARY KEY,
	county                TEXT NOT NULL,
	median_rent           DOUBLE PRECISION NOT NULL,
	median_home_value     DOUBLE PRECISION NOT NULL,
	median_taxes          DOUBLE PRECISION NOT NULL,
	rental_roi_pct        DOUBLE PRECISION NOT NULL,
	property_tax_rate_pct DOUBLE PRECISION NOT NULL,
	run_id                TEXT NOT NULL,
	fetched_at            TEXT NOT NULL,
	geom                  geometry(MultiPolygon, 4326) NOT NULL
`

// Postgres publishes into a PostGIS table.
type Postgres struct {
	pool    db.Pool
	schema  string
	table   string
	closeFn func()
}

// NewPostgres wraps an open pool. closeFn, if non-nil, runs on Close.
func NewPostgres(pool db.Pool, schema, table string, closeFn func()) (*Postgres, error) {
	if schema != "" {
		if err := checkIdent("schema", schema); err != nil {
			return nil, err
		}
	}
	if err := checkIdent("table", table); err != nil {
		return nil, err
	}
	return &Postgres{pool: pool, schema: schema, table: table, closeFn: closeFn}, nil
}

// OpenPostgres connects to dsn and returns a sink owning the pool.
func OpenPostgres(ctx context.Context, dsn, schema, table string) (*Postgres, error) {
	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	s, err := NewPostgres(pool, schema, table, pool.Close)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Publish replaces the table contents in one transaction.
func (p *Postgres) Publish(ctx context.Context, ds *pipeline.Dataset) (int64, error) {
	vals, err := rows(ds)
	if err != nil {
		return 0, err
	}

	n, err := db.ReplaceTable(ctx, p.pool, db.ReplaceConfig{
		Schema:  p.schema,
		Table:   p.table,
		DDL:     postgresDDL,
		Columns: Columns,
	}, vals)
	if err != nil {
		return 0, err
	}

	zap.L().Info("sink: published to postgres",
		zap.String("component", "sink.postgres"),
		zap.String("table", db.Identifier(p.schema, p.table).Sanitize()),
		zap.Int64("rows", n),
		zap.String("run_id", ds.RunID.String()),
	)
	return n, nil
}

// Close releases the pool if the sink owns it.
func (p *Postgres) Close() error {
	if p.closeFn != nil {
		p.closeFn()
	}
	return nil
}
