package sink

import (
	"time"

	"github.com/google/uuid"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/county-roi/internal/model"
	"github.com/sells-group/county-roi/internal/pipeline"
)

func square(x, y float64) *geom.MultiPolygon {
	return geom.NewMultiPolygonFlat(geom.XY,
		[]float64{x, y, x, y + 1, x + 1, y + 1, x + 1, y, x, y},
		[][]int{{10}},
	)
}

func testDataset() *pipeline.Dataset {
	return &pipeline.Dataset{
		RunID:     uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2"),
		StateFIPS: "18",
		StateName: "Indiana",
		FetchedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Counties: []model.EnrichedCounty{
			{FIPS: "18001", Name: "Adams County, Indiana", Boundary: square(-85, 40),
				MedianRent: 800, MedianHomeValue: 120000, MedianTaxes: 1200, ROIPct: 8.0, TaxRatePct: 1.0},
			{FIPS: "18003", Name: "Allen County, Indiana", Boundary: square(-86, 41),
				MedianRent: 900, MedianHomeValue: 150000, MedianTaxes: 1800, ROIPct: 7.2, TaxRatePct: 1.2},
		},
	}
}
