// Package present renders a Dataset as a choropleth map page, a GeoJSON
// layer and table downloads.
package present

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
)

// DefaultBins is the number of equal-interval classes when none is configured.
const DefaultBins = 6

// ylGnBu is the ColorBrewer YlGnBu sequential scheme, keyed by class count.
var ylGnBu = map[int][]string{
	3: {"#edf8b1", "#7fcdbb", "#2c7fb8"},
	4: {"#ffffcc", "#a1dab4", "#41b6c4", "#225ea8"},
	5: {"#ffffcc", "#a1dab4", "#41b6c4", "#2c7fb8", "#253494"},
	6: {"#ffffcc", "#c7e9b4", "#7fcdbb", "#41b6c4", "#2c7fb8", "#253494"},
	7: {"#ffffcc", "#c7e9b4", "#7fcdbb", "#41b6c4", "#1d91c0", "#225ea8", "#0c2c84"},
	8: {"#ffffd9", "#edf8b1", "#c7e9b4", "#7fcdbb", "#41b6c4", "#1d91c0", "#225ea8", "#0c2c84"},
	9: {"#ffffd9", "#edf8b1", "#c7e9b4", "#7fcdbb", "#41b6c4", "#1d91c0", "#225ea8", "#253494", "#081d58"},
}

var palettes = map[string]map[int][]string{
	"YlGnBu": ylGnBu,
}

// Palette returns n colours of a named ColorBrewer scheme. Fewer than three
// classes take the lightest and darkest ends of the three-class scheme.
func Palette(name string, n int) ([]string, error) {
	scheme, ok := palettes[name]
	if !ok {
		return nil, eris.Errorf("present: unknown palette %q", name)
	}
	switch {
	case n == 1:
		return []string{scheme[3][1]}, nil
	case n == 2:
		return []string{scheme[3][0], scheme[3][2]}, nil
	}
	colors, ok := scheme[n]
	if !ok {
		return nil, eris.Errorf("present: palette %s has no %d-class scheme", name, n)
	}
	return append([]string(nil), colors...), nil
}

// Classify returns equal-interval breaks from min to max: bins+1 edges for
// bins classes. Non-finite values are ignored. A constant series yields a
// single class; an empty series yields nil.
func Classify(values []float64, bins int) []float64 {
	if bins <= 0 {
		bins = DefaultBins
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return nil
	}
	if lo == hi {
		return []float64{lo, hi}
	}

	step := (hi - lo) / float64(bins)
	breaks := make([]float64, bins+1)
	for i := range breaks {
		breaks[i] = lo + step*float64(i)
	}
	breaks[bins] = hi
	return breaks
}

// ClassOf returns the class index of v for the given breaks. Classes are
// right-closed except the first, which includes the minimum.
func ClassOf(v float64, breaks []float64) int {
	n := len(breaks) - 1
	if n <= 0 {
		return 0
	}
	i := sort.SearchFloat64s(breaks[1:], v)
	if i >= n {
		i = n - 1
	}
	return i
}
