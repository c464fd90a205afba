// Package chart renders the 4-bar comparison chart for a prediction.
package chart

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/aurum/internal/interfaces"
)

// Fixed category order. This matches the persisted chart contract: the view
// layer and stored payloads both assume {Previous, Open, 7-Day Avg, Predicted}.
var categories = [4]string{"Previous", "Open", "7-Day Avg", "Predicted"}

// Bar fill colors: gray, blue, green, gold.
var barColors = [4]drawing.Color{
	drawing.ColorFromHex("6c757d"),
	drawing.ColorFromHex("0d6efd"),
	drawing.ColorFromHex("20c997"),
	drawing.ColorFromHex("ffc107"),
}

// yAxisMargin pads the y-range beyond the min/max of the plotted values.
const yAxisMargin = 50.0

// Renderer produces self-contained PNG charts. Deterministic for identical
// inputs; persisted payloads are still treated as opaque, never compared
// byte-for-byte across renderer versions.
type Renderer struct {
	width  int
	height int
}

// NewRenderer creates a renderer with the standard chart dimensions.
func NewRenderer() *Renderer {
	return &Renderer{
		width:  700,
		height: 400,
	}
}

// Render draws the comparison chart and returns raw PNG bytes.
func (r *Renderer) Render(previous, open, sevenDayAvg, predicted float64) ([]byte, error) {
	values := [4]float64{previous, open, sevenDayAvg, predicted}

	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	bars := make([]chart.Value, len(values))
	for i, v := range values {
		bars[i] = chart.Value{
			Value: v,
			Label: fmt.Sprintf("%s %.2f", categories[i], v),
			Style: chart.Style{
				FillColor:   barColors[i],
				StrokeColor: barColors[i],
			},
		}
	}

	graph := chart.BarChart{
		Title:    "Inputs vs Predicted Price",
		Width:    r.width,
		Height:   r.height,
		BarWidth: 90,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		YAxis: chart.YAxis{
			Name: "USD",
			Range: &chart.ContinuousRange{
				Min: minV - yAxisMargin,
				Max: maxV + yAxisMargin,
			},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

// EncodeBase64 converts a rendered PNG into the stored payload form.
func EncodeBase64(png []byte) string {
	return base64.StdEncoding.EncodeToString(png)
}

// DecodeBase64 converts a stored payload back into PNG bytes.
func DecodeBase64(payload string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(payload)
}

// Compile-time check
var _ interfaces.ChartRenderer = (*Renderer)(nil)
