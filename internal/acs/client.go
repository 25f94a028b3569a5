// Package acs fetches county housing figures from the Census Bureau's
// American Community Survey API.
package acs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/county-roi/internal/fetcher"
	"github.com/sells-group/county-roi/internal/model"
)

// ACS detailed-table variables requested for every county.
const (
	VarName        = "NAME"
	VarMedianRent  = "B25064_001E" // median gross rent
	VarMedianValue = "B25077_001E" // median value, owner-occupied units
	VarMedianTaxes = "B25092_001E" // median real estate taxes paid
)

// Variables is the fixed column list sent in the get= parameter.
var Variables = []string{VarName, VarMedianRent, VarMedianValue, VarMedianTaxes}

// Options configures the ACS client.
type Options struct {
	BaseURL   string // e.g. https://api.census.gov/data
	Year      int    // estimate vintage, e.g. 2022
	Dataset   string // e.g. acs/acs5
	StateFIPS string // 2-digit state code
	APIKey    string // optional; anonymous requests are rate-limited upstream
}

// Client fetches one state's counties in a single request.
type Client struct {
	f    fetcher.Fetcher
	opts Options
}

// NewClient creates an ACS client.
func NewClient(f fetcher.Fetcher, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.census.gov/data"
	}
	if opts.Year == 0 {
		opts.Year = 2022
	}
	if opts.Dataset == "" {
		opts.Dataset = "acs/acs5"
	}
	return &Client{f: f, opts: opts}
}

// URL returns the request URL for the configured state and vintage.
func (c *Client) URL() string {
	u := fmt.Sprintf("%s/%d/%s?get=%s&for=county:*&in=state:%s",
		strings.TrimRight(c.opts.BaseURL, "/"),
		c.opts.Year,
		c.opts.Dataset,
		strings.Join(Variables, ","),
		c.opts.StateFIPS,
	)
	if c.opts.APIKey != "" {
		u += "&key=" + url.QueryEscape(c.opts.APIKey)
	}
	return u
}

// FetchCounties downloads and parses one row per county.
func (c *Client) FetchCounties(ctx context.Context) ([]model.CountyRecord, error) {
	log := zap.L().With(
		zap.String("component", "acs"),
		zap.Int("year", c.opts.Year),
		zap.String("state_fips", c.opts.StateFIPS),
	)
	log.Info("fetching ACS county figures")

	body, err := c.f.Download(ctx, c.URL())
	if err != nil {
		return nil, eris.Wrap(err, "acs: fetch counties")
	}
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, eris.Wrap(err, "acs: read response")
	}

	records, err := ParseResponse(data)
	if err != nil {
		return nil, err
	}

	log.Info("ACS county figures fetched", zap.Int("counties", len(records)))
	return records, nil
}

// requiredColumns must all be present in the response header.
var requiredColumns = []string{VarName, VarMedianRent, VarMedianValue, VarMedianTaxes, "state", "county"}

// ParseResponse decodes the API's [[header],[row],...] JSON into records.
// A header-only response yields no records. Suppressed figures become NaN.
func ParseResponse(data []byte) ([]model.CountyRecord, error) {
	// Nulls decode as nil so they can be told apart from empty strings.
	var raw [][]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrap(err, "acs: unmarshal JSON")
	}

	if len(raw) == 0 {
		return nil, eris.New("acs: empty response (no header row)")
	}

	header := raw[0]
	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		if col != nil {
			colIdx[*col] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			return nil, eris.Errorf("acs: response missing column %q", col)
		}
	}

	records := make([]model.CountyRecord, 0, len(raw)-1)
	for i, row := range raw[1:] {
		if len(row) != len(header) {
			return nil, eris.Errorf("acs: row %d has %d fields, header has %d", i+1, len(row), len(header))
		}

		state := strValue(row[colIdx["state"]])
		county := strValue(row[colIdx["county"]])
		if len(state) != 2 || len(county) != 3 {
			return nil, eris.Errorf("acs: row %d has malformed geography %q/%q", i+1, state, county)
		}

		rent, err := parseEstimate(row[colIdx[VarMedianRent]])
		if err != nil {
			return nil, eris.Wrapf(err, "acs: row %d %s", i+1, VarMedianRent)
		}
		value, err := parseEstimate(row[colIdx[VarMedianValue]])
		if err != nil {
			return nil, eris.Wrapf(err, "acs: row %d %s", i+1, VarMedianValue)
		}
		taxes, err := parseEstimate(row[colIdx[VarMedianTaxes]])
		if err != nil {
			return nil, eris.Wrapf(err, "acs: row %d %s", i+1, VarMedianTaxes)
		}

		records = append(records, model.CountyRecord{
			FIPS:            state + county,
			Name:            strValue(row[colIdx[VarName]]),
			MedianRent:      rent,
			MedianHomeValue: value,
			MedianTaxes:     taxes,
		})
	}

	return records, nil
}

// parseEstimate parses an ACS estimate. Null, empty and the negative
// annotation codes (-666666666 and friends) all mean "no estimate".
func parseEstimate(s *string) (float64, error) {
	v := strings.TrimSpace(strValue(s))
	if v == "" {
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "parse estimate %q", v)
	}
	if f < 0 {
		return math.NaN(), nil
	}
	return f, nil
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
