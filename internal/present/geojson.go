package present

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/county-roi/internal/export"
	"github.com/sells-group/county-roi/internal/model"
	"github.com/sells-group/county-roi/internal/pipeline"
)

// FeatureCollection returns one feature per county, with the export row as
// its properties and the FIPS code as its ID.
func FeatureCollection(ds *pipeline.Dataset) (*geojson.FeatureCollection, error) {
	fc := &geojson.FeatureCollection{
		Features: make([]*geojson.Feature, 0, len(ds.Counties)),
	}
	for _, c := range ds.Counties {
		f, err := Feature(c)
		if err != nil {
			return nil, err
		}
		fc.Features = append(fc.Features, f)
	}
	return fc, nil
}

// Feature returns a single county as a GeoJSON feature.
func Feature(c model.EnrichedCounty) (*geojson.Feature, error) {
	if c.Boundary == nil {
		return nil, eris.Errorf("present: county %s has no boundary", c.FIPS)
	}
	return &geojson.Feature{
		ID:         c.FIPS,
		Geometry:   c.Boundary,
		Properties: export.NewRow(c).Properties(),
	}, nil
}

// Bounds returns the extent of every county boundary, or nil when the
// Dataset is empty.
func Bounds(ds *pipeline.Dataset) *geom.Bounds {
	var b *geom.Bounds
	for _, c := range ds.Counties {
		if c.Boundary == nil {
			continue
		}
		if b == nil {
			b = geom.NewBounds(geom.XY)
		}
		b.Extend(c.Boundary)
	}
	return b
}

// Center returns the [lat, lon] centre of the Dataset's bounds.
func Center(ds *pipeline.Dataset) [2]float64 {
	b := Bounds(ds)
	if b == nil {
		return [2]float64{}
	}
	return [2]float64{
		(b.Min(1) + b.Max(1)) / 2,
		(b.Min(0) + b.Max(0)) / 2,
	}
}
