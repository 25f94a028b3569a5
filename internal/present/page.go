package present

import (
	"embed"
	"encoding/json"
	"html/template"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/county-roi/internal/model"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/map.html.tmpl"))

// MapOptions carries the presentation settings from configuration.
type MapOptions struct {
	Zoom        int
	TileURL     string
	Attribution string
	Palette     string
	Bins        int
	FillOpacity float64
	LineOpacity float64
}

// MetricOption is one entry of the metric toggle.
type MetricOption struct {
	Value    model.Metric
	Label    string
	Selected bool
}

// PageData is everything the map page template needs.
type PageData struct {
	Title     string
	StateName string
	Metrics   []MetricOption
	Layer     *Layer
	Center    [2]float64
	Options   MapOptions
	Features  template.JS // GeoJSON FeatureCollection
	CSVURL    string
	XLSXURL   string
	Counties  int
}

// NewPageData assembles the page for a metric. features is the encoded
// FeatureCollection.
func NewPageData(stateName string, metric model.Metric, layer *Layer, center [2]float64, features []byte, opts MapOptions) PageData {
	pd := PageData{
		Title:     stateName + " County Rental ROI and Property Tax Rate",
		StateName: stateName,
		Layer:     layer,
		Center:    center,
		Options:   opts,
		Features:  template.JS(features),
		CSVURL:    "/export.csv",
		XLSXURL:   "/export.xlsx",
		Counties:  len(layer.Fill),
	}
	for _, m := range model.Metrics {
		pd.Metrics = append(pd.Metrics, MetricOption{Value: m, Label: m.Label(), Selected: m == metric})
	}
	return pd
}

// Render writes the map page.
func Render(w io.Writer, pd PageData) error {
	if !json.Valid([]byte(pd.Features)) {
		return eris.New("present: features are not valid JSON")
	}
	if err := pageTmpl.Execute(w, pd); err != nil {
		return eris.Wrap(err, "present: render map page")
	}
	return nil
}
