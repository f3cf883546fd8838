package render

import (
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/leowmjw/go-temporal-chartview/pkg/view"
)

// Chart dimensions in pixels
const (
	ChartWidth            = 1024
	ChartHeight           = 380
	FullscreenChartHeight = 760
)

var (
	areaStroke      = drawing.ColorFromHex("8884d8")
	areaFill        = areaStroke.WithAlpha(128)
	tooltipFill     = drawing.ColorFromHex("0808c4")
	tooltipFont     = drawing.ColorWhite
	chartPadding    = chart.Box{Top: 10, Right: 30, Left: 0, Bottom: 0}
	hiddenAxisStyle = chart.Style{Hidden: true}
)

// ChartSize returns the canvas size for the current view state
func ChartSize(state view.State) (width, height int) {
	if state.Fullscreen {
		return ChartWidth, FullscreenChartHeight
	}
	return ChartWidth, ChartHeight
}

// SVG draws the visible window as an area chart with the tooltip pinned to
// the cursor point. An empty window renders an empty canvas.
func SVG(w io.Writer, snap view.Snapshot) error {
	width, height := ChartSize(snap.State)
	series := snap.FilteredSeries
	if len(series) == 0 {
		_, err := fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"></svg>`, width, height)
		return err
	}

	xs := make([]float64, len(series))
	for i := range series {
		xs[i] = float64(i)
	}
	ys := series.Values()

	ch := chart.Chart{
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chartPadding},
		XAxis:      chart.XAxis{Style: hiddenAxisStyle, Range: xRange(len(series))},
		YAxis:      chart.YAxis{Style: hiddenAxisStyle, Range: yRange(ys)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "value",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: areaStroke,
					StrokeWidth: 2,
					FillColor:   areaFill,
				},
			},
		},
	}

	if snap.Tooltip.Present && snap.State.TooltipIndex != nil {
		idx := *snap.State.TooltipIndex
		ch.Series = append(ch.Series, chart.AnnotationSeries{
			Style: chart.Style{
				FillColor:   tooltipFill,
				StrokeColor: tooltipFill,
				FontColor:   tooltipFont,
			},
			Annotations: []chart.Value2{{
				XValue: float64(idx),
				YValue: snap.Tooltip.Value,
				Label:  DefaultFormatter.Number(snap.Tooltip.Value),
			}},
		})
	}

	if err := ch.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// xRange pads a single point so the axis range is never empty
func xRange(n int) chart.Range {
	if n > 1 {
		return &chart.ContinuousRange{Min: 0, Max: float64(n - 1)}
	}
	return &chart.ContinuousRange{Min: -1, Max: 1}
}

// yRange starts at zero like the browser chart and pads flat series
func yRange(values []float64) chart.Range {
	lo, hi := 0.0, 0.0
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo == hi {
		hi = lo + 1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}
