// Package sink publishes a Dataset to a database table. Sinks only write;
// nothing is read back.
package sink

import (
	"context"
	"regexp"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/county-roi/internal/model"
	"github.com/sells-group/county-roi/internal/pipeline"
	"github.com/sells-group/county-roi/internal/tiger"
)

// Sink replaces a table's contents with a Dataset.
type Sink interface {
	Publish(ctx context.Context, ds *pipeline.Dataset) (int64, error)
	Close() error
}

// Columns is the published column order.
var Columns = []string{
	"fips",
	"county",
	"median_rent",
	"median_home_value",
	"median_taxes",
	"rental_roi_pct",
	"property_tax_rate_pct",
	"run_id",
	"fetched_at",
	"geom",
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkIdent(kind, s string) error {
	if !identRe.MatchString(s) {
		return eris.Errorf("sink: invalid %s name %q", kind, s)
	}
	return nil
}

// rowValues returns one county in Columns order, with the boundary as EWKB.
func rowValues(ds *pipeline.Dataset, c model.EnrichedCounty) ([]any, error) {
	wkb, err := tiger.EncodeWKB(c.Boundary)
	if err != nil {
		return nil, eris.Wrapf(err, "sink: encode boundary for %s", c.FIPS)
	}
	return []any{
		c.FIPS,
		c.Name,
		c.MedianRent,
		c.MedianHomeValue,
		c.MedianTaxes,
		c.ROIPct,
		c.TaxRatePct,
		ds.RunID.String(),
		ds.FetchedAt.UTC().Format(time.RFC3339),
		wkb,
	}, nil
}

func rows(ds *pipeline.Dataset) ([][]any, error) {
	out := make([][]any, 0, len(ds.Counties))
	for _, c := range ds.Counties {
		vals, err := rowValues(ds, c)
		if err != nil {
			return nil, err
		}
		out = append(out, vals)
	}
	return out, nil
}

// Open returns the sink for driver ("postgres" or "sqlite").
func Open(ctx context.Context, driver, dsn, schema, table string) (Sink, error) {
	switch driver {
	case "postgres":
		return OpenPostgres(ctx, dsn, schema, table)
	case "sqlite":
		return OpenSQLite(dsn, table)
	default:
		return nil, eris.Errorf("sink: unknown driver %q (valid: postgres, sqlite)", driver)
	}
}
