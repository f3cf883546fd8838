package render

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leowmjw/go-temporal-chartview/pkg/timeline"
	"github.com/leowmjw/go-temporal-chartview/pkg/view"
)

func ascendingSeries(n int) timeline.Series {
	series := make(timeline.Series, n)
	for i := range series {
		series[i] = timeline.Point{Label: fmt.Sprintf("d%d", i+1), Value: float64(i + 1)}
	}
	return series
}

func TestSVG_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, snapshotOf(timeline.Series{}, view.InitialState())))
	assert.Equal(t, `<svg xmlns="http://www.w3.org/2000/svg" width="1024" height="380"></svg>`, buf.String())
}

func TestSVG_Series(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, snapshotOf(ascendingSeries(10), view.InitialState())))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Contains(t, out, "<path")
	assert.Contains(t, out, "</svg>")
}

func TestSVG_EdgeShapes(t *testing.T) {
	flat := timeline.Series{{Value: 5}, {Value: 5}, {Value: 5}}
	single := timeline.Series{{Label: "only", Value: 42}}
	negative := timeline.Series{{Value: -3}, {Value: -1}}

	for name, series := range map[string]timeline.Series{"flat": flat, "single": single, "negative": negative} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.NoError(t, SVG(&buf, snapshotOf(series, view.InitialState())))
			assert.NotEmpty(t, buf.String())
		})
	}
}

func TestChartSize(t *testing.T) {
	w, h := ChartSize(view.InitialState())
	assert.Equal(t, ChartWidth, w)
	assert.Equal(t, ChartHeight, h)

	_, h = ChartSize(view.ToggleFullscreen(view.InitialState()))
	assert.Equal(t, FullscreenChartHeight, h)
}
