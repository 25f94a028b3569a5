// Package enrich joins ACS county records with county boundaries and
// derives the rental ROI and property tax rate for each county.
package enrich

// monthsPerYear annualizes the ACS monthly median gross rent.
const monthsPerYear = 12

// ROIPct returns annualized median rent as a percentage of median home value.
// A zero home value yields ±Inf, or NaN when rent is also zero.
func ROIPct(medianRent, medianHomeValue float64) float64 {
	return medianRent * monthsPerYear / medianHomeValue * 100
}

// TaxRatePct returns median real estate taxes as a percentage of median home
// value. A zero home value yields ±Inf, or NaN when taxes are also zero.
func TaxRatePct(medianTaxes, medianHomeValue float64) float64 {
	return medianTaxes / medianHomeValue * 100
}
