package present

import (
	"github.com/sells-group/county-roi/internal/model"
	"github.com/sells-group/county-roi/internal/pipeline"
)

// LegendEntry is one class of the legend.
type LegendEntry struct {
	Color string  `json:"color"`
	From  float64 `json:"from"`
	To    float64 `json:"to"`
}

// Layer is a coloured rendering of one metric.
type Layer struct {
	Metric model.Metric      `json:"metric"`
	Label  string            `json:"label"`
	Breaks []float64         `json:"breaks"`
	Legend []LegendEntry     `json:"legend"`
	Fill   map[string]string `json:"fill"` // FIPS -> colour
}

// Choropleth classifies the metric's values into equal-interval classes and
// assigns each county the colour of its class.
func Choropleth(ds *pipeline.Dataset, metric model.Metric, palette string, bins int) (*Layer, error) {
	values := make([]float64, len(ds.Counties))
	for i, c := range ds.Counties {
		values[i] = metric.Value(c)
	}

	layer := &Layer{
		Metric: metric,
		Label:  metric.Label(),
		Breaks: Classify(values, bins),
		Fill:   make(map[string]string, len(ds.Counties)),
	}
	if layer.Breaks == nil {
		return layer, nil
	}

	colors, err := Palette(palette, len(layer.Breaks)-1)
	if err != nil {
		return nil, err
	}
	for i, col := range colors {
		layer.Legend = append(layer.Legend, LegendEntry{
			Color: col,
			From:  layer.Breaks[i],
			To:    layer.Breaks[i+1],
		})
	}
	for i, c := range ds.Counties {
		layer.Fill[c.FIPS] = colors[ClassOf(values[i], layer.Breaks)]
	}
	return layer, nil
}
