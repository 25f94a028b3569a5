package model

import (
	"github.com/rotisserie/eris"
)

// Metric selects which derived ratio colours the map.
type Metric string

const (
	MetricROI     Metric = "roi"
	MetricTaxRate Metric = "tax_rate"
)

// Metrics lists the selectable metrics in display order.
var Metrics = []Metric{MetricROI, MetricTaxRate}

// Label returns the legend label for the metric.
func (m Metric) Label() string {
	switch m {
	case MetricROI:
		return "Rental ROI (%)"
	case MetricTaxRate:
		return "Property Tax Rate (%)"
	default:
		return string(m)
	}
}

// Value returns the metric's value for a county.
func (m Metric) Value(c EnrichedCounty) float64 {
	if m == MetricTaxRate {
		return c.TaxRatePct
	}
	return c.ROIPct
}

// ParseMetric converts a query or flag value into a Metric.
// An empty string selects MetricROI.
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "", "roi":
		return MetricROI, nil
	case "tax_rate", "tax":
		return MetricTaxRate, nil
	default:
		return "", eris.Errorf("unknown metric: %q (valid: roi, tax_rate)", s)
	}
}
