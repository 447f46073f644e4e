// Package chart builds the Plotly figure drawn for a wash machine's
// temperature log.
package chart

import "pivovar/internal/models"

const (
	modeLinesMarkers = "lines+markers"
	shapeSpline      = "spline"
	typeScatter      = "scatter"

	legendY          = 0.5
	legendTraceOrder = "reversed"
	legendFontSize   = 16
	legendYRef       = "paper"
)

// Figure is the argument pair of Plotly.react(div, data, layout).
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Trace struct {
	X    []models.Timestamp `json:"x"`
	Y    []*float64         `json:"y"`
	Mode string             `json:"mode"`
	Name string             `json:"name"`
	Line Line               `json:"line"`
	Type string             `json:"type"`
}

type Line struct {
	Shape string `json:"shape"`
}

type Layout struct {
	Legend Legend `json:"legend"`
}

type Legend struct {
	Y          float64 `json:"y"`
	TraceOrder string  `json:"traceorder"`
	Font       Font    `json:"font"`
	YRef       string  `json:"yref"`
}

type Font struct {
	Size int `json:"size"`
}

// PlotID is the id of the element a device's chart is drawn into.
func PlotID(device string) string {
	return device + "_temp_plot"
}

// New returns a single smoothed line-with-markers trace of log. traceName is
// shown in the legend.
func New(log models.TempLog, traceName string) Figure {
	x := make([]models.Timestamp, len(log.Datetime))
	copy(x, log.Datetime)
	y := make([]*float64, len(log.Temps))
	copy(y, log.Temps)

	return Figure{
		Data: []Trace{{
			X:    x,
			Y:    y,
			Mode: modeLinesMarkers,
			Name: traceName,
			Line: Line{Shape: shapeSpline},
			Type: typeScatter,
		}},
		Layout: Layout{
			Legend: Legend{
				Y:          legendY,
				TraceOrder: legendTraceOrder,
				Font:       Font{Size: legendFontSize},
				YRef:       legendYRef,
			},
		},
	}
}
