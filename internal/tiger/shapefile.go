package tiger

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/county-roi/internal/model"
)

// ParseCounties reads a county shapefile and returns the boundaries whose
// STATEFP equals stateFIPS. Records with a null or degenerate shape are
// skipped. A truncated or corrupt file is an error, never a partial result.
func ParseCounties(shpPath, stateFIPS string) ([]model.CountyGeometry, error) {
	dec, err := attributeDecoder(shpPath)
	if err != nil {
		return nil, err
	}

	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "tiger: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	stateIdx := fieldIndex(reader, "STATEFP")
	countyIdx := fieldIndex(reader, "COUNTYFP")
	nameIdx := fieldIndex(reader, "NAME")
	if stateIdx < 0 || countyIdx < 0 {
		return nil, eris.New("tiger: required shapefile fields (STATEFP, COUNTYFP) not found")
	}

	var (
		out     []model.CountyGeometry
		skipped int
		records int
	)
	for reader.Next() {
		records++
		_, shape := reader.Shape()

		if attr(reader, stateIdx) != stateFIPS {
			continue
		}
		fips := stateFIPS + attr(reader, countyIdx)

		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		boundary := PolygonToMultiPolygon(poly)
		if boundary == nil {
			skipped++
			continue
		}

		var name string
		if nameIdx >= 0 {
			name, err = dec.String(attr(reader, nameIdx))
			if err != nil {
				return nil, eris.Wrapf(err, "tiger: decode NAME for %s", fips)
			}
		}

		out = append(out, model.CountyGeometry{
			FIPS:     fips,
			Name:     name,
			Boundary: boundary,
		})
	}

	if err := reader.Err(); err != nil {
		return nil, eris.Wrap(err, "tiger: read shapefile")
	}
	// A .shp cut at a record boundary ends with a clean EOF.
	if want := reader.AttributeCount(); records != want {
		return nil, eris.Errorf("tiger: read shapefile: %d shapes for %d attribute records", records, want)
	}

	if skipped > 0 {
		zap.L().Debug("tiger: skipped shapefile records",
			zap.String("state_fips", stateFIPS),
			zap.Int("skipped", skipped),
		)
	}

	return out, nil
}

// fieldIndex returns the index of a named field in the shapefile, or -1 if not found.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}

// attr reads a trimmed attribute of the current record.
func attr(reader *shp.Reader, field int) string {
	return strings.TrimSpace(strings.TrimRight(reader.Attribute(field), "\x00"))
}
