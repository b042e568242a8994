package charts

import (
	"bytes"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/enpal-growth/landing-insights/internal/kpi"
)

// Cohort colors, shared with the report styling.
var (
	oldColor = drawing.ColorFromHex("FF6B35")
	newColor = drawing.ColorFromHex("4ECDC4")
)

const (
	chartWidth  = 800
	chartHeight = 350
)

// KPIComparisonPNG renders the two KPI sets as paired bars, OLD orange and
// NEW teal, one pair per metric. Counts and rates share the axis.
func KPIComparisonPNG(old, new kpi.Set) ([]byte, error) {
	categories := []struct {
		name     string
		old, new float64
	}{
		{"Leads", float64(old.Leads), float64(new.Leads)},
		{"Start Rate", old.StartRate, new.StartRate},
		{"End Rate", old.EndRate, new.EndRate},
		{"CAP Success", old.CAPSuccess, new.CAPSuccess},
		{"Reg Rate", old.RegistrationRate, new.RegistrationRate},
	}

	bars := make([]chart.Value, 0, len(categories)*2)
	var maxVal float64
	for _, c := range categories {
		bars = append(bars,
			chart.Value{
				Label: c.name,
				Value: c.old,
				Style: chart.Style{FillColor: oldColor, StrokeColor: oldColor},
			},
			chart.Value{
				Value: c.new,
				Style: chart.Style{FillColor: newColor, StrokeColor: newColor},
			},
		)
		if c.old > maxVal {
			maxVal = c.old
		}
		if c.new > maxVal {
			maxVal = c.new
		}
	}

	// All-zero cohorts still render an empty frame.
	if maxVal == 0 {
		maxVal = 1
	}

	bc := chart.BarChart{
		Title:    "KPI Comparison",
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 40,
		Background: chart.Style{
			Padding: chart.Box{Top: 60, Left: 40, Right: 40, Bottom: 40},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxVal},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render kpi chart: %w", err)
	}
	return buf.Bytes(), nil
}
