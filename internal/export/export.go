// Package export turns a Dataset into the downloadable county table.
package export

import (
	"strconv"
	"strings"

	"github.com/sells-group/county-roi/internal/model"
	"github.com/sells-group/county-roi/internal/pipeline"
)

// Columns is the export header, in order. The map layer carries the same
// keys as feature properties.
var Columns = []string{"fips", "county", "rental_roi_pct", "property_tax_rate_pct"}

// Percent is a percentage written with four decimals.
type Percent float64

// MarshalText implements encoding.TextMarshaler.
func (p Percent) MarshalText() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(p), 'f', 4, 64)), nil
}

// Round returns the value as written, for JSON properties.
func (p Percent) Round() float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(float64(p), 'f', 4, 64), 64)
	return f
}

// Row is one county of the export table.
type Row struct {
	FIPS               string  `csv:"fips" json:"fips"`
	County             string  `csv:"county" json:"county"`
	RentalROIPct       Percent `csv:"rental_roi_pct" json:"rental_roi_pct"`
	PropertyTaxRatePct Percent `csv:"property_tax_rate_pct" json:"property_tax_rate_pct"`
}

// Properties returns the row keyed by Columns.
func (r Row) Properties() map[string]any {
	return map[string]any{
		"fips":                  r.FIPS,
		"county":                r.County,
		"rental_roi_pct":        r.RentalROIPct.Round(),
		"property_tax_rate_pct": r.PropertyTaxRatePct.Round(),
	}
}

// Rows returns one row per county in Dataset order.
func Rows(ds *pipeline.Dataset) []Row {
	rows := make([]Row, 0, len(ds.Counties))
	for _, c := range ds.Counties {
		rows = append(rows, NewRow(c))
	}
	return rows
}

// NewRow returns the export row for one county.
func NewRow(c model.EnrichedCounty) Row {
	return Row{
		FIPS:               c.FIPS,
		County:             c.Name,
		RentalROIPct:       Percent(c.ROIPct),
		PropertyTaxRatePct: Percent(c.TaxRatePct),
	}
}

// Filename returns the download name for a state, e.g.
// "indiana_county_roi_tax.csv".
func Filename(stateName, ext string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(stateName), "_"))
	if slug == "" {
		slug = "state"
	}
	return slug + "_county_roi_tax." + strings.TrimPrefix(ext, ".")
}
