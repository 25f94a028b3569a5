// Package tiger downloads Census cartographic boundary shapefiles and turns
// county polygons into go-geom geometries.
package tiger

import (
	"fmt"
	"strings"
)

// DefaultBaseURL is the root of the Census Bureau geography archive.
const DefaultBaseURL = "https://www2.census.gov/geo/tiger"

// State identifies a state or DC by abbreviation, FIPS code and name.
type State struct {
	Abbr string
	FIPS string
	Name string
}

// States lists the 50 states and DC.
var States = []State{
	{"AL", "01", "Alabama"}, {"AK", "02", "Alaska"}, {"AZ", "04", "Arizona"},
	{"AR", "05", "Arkansas"}, {"CA", "06", "California"}, {"CO", "08", "Colorado"},
	{"CT", "09", "Connecticut"}, {"DE", "10", "Delaware"}, {"DC", "11", "District of Columbia"},
	{"FL", "12", "Florida"}, {"GA", "13", "Georgia"}, {"HI", "15", "Hawaii"},
	{"ID", "16", "Idaho"}, {"IL", "17", "Illinois"}, {"IN", "18", "Indiana"},
	{"IA", "19", "Iowa"}, {"KS", "20", "Kansas"}, {"KY", "21", "Kentucky"},
	{"LA", "22", "Louisiana"}, {"ME", "23", "Maine"}, {"MD", "24", "Maryland"},
	{"MA", "25", "Massachusetts"}, {"MI", "26", "Michigan"}, {"MN", "27", "Minnesota"},
	{"MS", "28", "Mississippi"}, {"MO", "29", "Missouri"}, {"MT", "30", "Montana"},
	{"NE", "31", "Nebraska"}, {"NV", "32", "Nevada"}, {"NH", "33", "New Hampshire"},
	{"NJ", "34", "New Jersey"}, {"NM", "35", "New Mexico"}, {"NY", "36", "New York"},
	{"NC", "37", "North Carolina"}, {"ND", "38", "North Dakota"}, {"OH", "39", "Ohio"},
	{"OK", "40", "Oklahoma"}, {"OR", "41", "Oregon"}, {"PA", "42", "Pennsylvania"},
	{"RI", "44", "Rhode Island"}, {"SC", "45", "South Carolina"}, {"SD", "46", "South Dakota"},
	{"TN", "47", "Tennessee"}, {"TX", "48", "Texas"}, {"UT", "49", "Utah"},
	{"VT", "50", "Vermont"}, {"VA", "51", "Virginia"}, {"WA", "53", "Washington"},
	{"WV", "54", "West Virginia"}, {"WI", "55", "Wisconsin"}, {"WY", "56", "Wyoming"},
}

// stateByFIPS is a reverse lookup from FIPS code to State.
var stateByFIPS map[string]State

func init() {
	stateByFIPS = make(map[string]State, len(States))
	for _, s := range States {
		stateByFIPS[s.FIPS] = s
	}
}

// StateByFIPS returns the state for a 2-digit FIPS code.
func StateByFIPS(fips string) (State, bool) {
	s, ok := stateByFIPS[fips]
	return s, ok
}

// BoundaryURL builds the download URL for the national county cartographic
// boundary archive, e.g. GENZ2018/shp/cb_2018_us_county_500k.zip.
// Resolution is one of 500k, 5m or 20m.
func BoundaryURL(baseURL string, year int, resolution string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if resolution == "" {
		resolution = "500k"
	}
	return fmt.Sprintf(
		"%s/GENZ%d/shp/cb_%d_us_county_%s.zip",
		strings.TrimRight(baseURL, "/"), year, year, resolution,
	)
}
