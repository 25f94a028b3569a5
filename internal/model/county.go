package model

import (
	"math"

	"github.com/twpayne/go-geom"
)

// CountyRecord holds the ACS housing figures for one county.
// A NaN value marks a figure the survey suppressed or did not report.
type CountyRecord struct {
	FIPS            string  `json:"fips"`
	Name            string  `json:"name"`
	MedianRent      float64 `json:"median_rent"`
	MedianHomeValue float64 `json:"median_home_value"`
	MedianTaxes     float64 `json:"median_taxes"`
}

// CountyGeometry is a county boundary from the cartographic boundary files.
type CountyGeometry struct {
	FIPS     string
	Name     string
	Boundary *geom.MultiPolygon
}

// EnrichedCounty is a county present in both sources, with derived ratios.
type EnrichedCounty struct {
	FIPS            string
	Name            string
	Boundary        *geom.MultiPolygon
	MedianRent      float64
	MedianHomeValue float64
	MedianTaxes     float64
	ROIPct          float64
	TaxRatePct      float64
}

// Missing reports whether v carries no usable value.
func Missing(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
