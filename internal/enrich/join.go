package enrich

import (
	"sort"

	"github.com/sells-group/county-roi/internal/model"
)

// Drop reasons recorded in Report.Invalid.
const (
	ReasonMissingRent          = "missing_rent"
	ReasonMissingHomeValue     = "missing_home_value"
	ReasonMissingTaxes         = "missing_taxes"
	ReasonNonpositiveHomeValue = "nonpositive_home_value"
	ReasonNonfiniteRatio       = "nonfinite_ratio"
	ReasonEmptyBoundary        = "empty_boundary"
)

// Dropped is a county present in both sources that could not be enriched.
type Dropped struct {
	FIPS   string `json:"fips"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Report describes what the join left out. Every slice is sorted by FIPS.
type Report struct {
	RecordsOnly  []string  `json:"records_only"`  // ACS rows with no boundary
	GeometryOnly []string  `json:"geometry_only"` // boundaries with no ACS row
	Invalid      []Dropped `json:"invalid"`
	Duplicates   []string  `json:"duplicates"` // FIPS repeated in either input
}

// Dropped returns the number of counties excluded from the output.
func (r Report) Dropped() int {
	return len(r.RecordsOnly) + len(r.GeometryOnly) + len(r.Invalid)
}

// Clean reports whether nothing was excluded or repeated.
func (r Report) Clean() bool {
	return r.Dropped() == 0 && len(r.Duplicates) == 0
}

// Join inner-joins records and geometries on FIPS and computes the derived
// ratios. The result holds exactly one county per FIPS present in both
// inputs with usable figures, sorted by FIPS. The first occurrence of a
// repeated FIPS wins.
func Join(records []model.CountyRecord, geoms []model.CountyGeometry) ([]model.EnrichedCounty, Report) {
	var rep Report
	dupSeen := make(map[string]bool)

	byFIPS := make(map[string]model.CountyRecord, len(records))
	for _, r := range records {
		if _, ok := byFIPS[r.FIPS]; ok {
			if !dupSeen[r.FIPS] {
				rep.Duplicates = append(rep.Duplicates, r.FIPS)
				dupSeen[r.FIPS] = true
			}
			continue
		}
		byFIPS[r.FIPS] = r
	}

	geomSeen := make(map[string]bool, len(geoms))
	matched := make(map[string]bool, len(geoms))
	out := make([]model.EnrichedCounty, 0, len(geoms))
	for _, g := range geoms {
		if geomSeen[g.FIPS] {
			if !dupSeen[g.FIPS] {
				rep.Duplicates = append(rep.Duplicates, g.FIPS)
				dupSeen[g.FIPS] = true
			}
			continue
		}
		geomSeen[g.FIPS] = true

		r, ok := byFIPS[g.FIPS]
		if !ok {
			rep.GeometryOnly = append(rep.GeometryOnly, g.FIPS)
			continue
		}
		matched[g.FIPS] = true

		name := r.Name
		if name == "" {
			name = g.Name
		}

		if reason := invalidReason(r); reason != "" {
			rep.Invalid = append(rep.Invalid, Dropped{FIPS: g.FIPS, Name: name, Reason: reason})
			continue
		}
		if g.Boundary == nil || g.Boundary.NumPolygons() == 0 {
			rep.Invalid = append(rep.Invalid, Dropped{FIPS: g.FIPS, Name: name, Reason: ReasonEmptyBoundary})
			continue
		}

		ec := model.EnrichedCounty{
			FIPS:            g.FIPS,
			Name:            name,
			Boundary:        g.Boundary,
			MedianRent:      r.MedianRent,
			MedianHomeValue: r.MedianHomeValue,
			MedianTaxes:     r.MedianTaxes,
			ROIPct:          ROIPct(r.MedianRent, r.MedianHomeValue),
			TaxRatePct:      TaxRatePct(r.MedianTaxes, r.MedianHomeValue),
		}
		if model.Missing(ec.ROIPct) || model.Missing(ec.TaxRatePct) {
			rep.Invalid = append(rep.Invalid, Dropped{FIPS: g.FIPS, Name: name, Reason: ReasonNonfiniteRatio})
			continue
		}
		out = append(out, ec)
	}

	for fips := range byFIPS {
		if !matched[fips] {
			rep.RecordsOnly = append(rep.RecordsOnly, fips)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].FIPS < out[j].FIPS })
	sort.Strings(rep.RecordsOnly)
	sort.Strings(rep.GeometryOnly)
	sort.Strings(rep.Duplicates)
	sort.Slice(rep.Invalid, func(i, j int) bool { return rep.Invalid[i].FIPS < rep.Invalid[j].FIPS })

	return out, rep
}

// invalidReason returns why a record cannot produce finite ratios, or "".
func invalidReason(r model.CountyRecord) string {
	switch {
	case model.Missing(r.MedianRent):
		return ReasonMissingRent
	case model.Missing(r.MedianHomeValue):
		return ReasonMissingHomeValue
	case model.Missing(r.MedianTaxes):
		return ReasonMissingTaxes
	case r.MedianHomeValue <= 0:
		return ReasonNonpositiveHomeValue
	}
	return ""
}
