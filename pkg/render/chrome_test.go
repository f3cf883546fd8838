package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leowmjw/go-temporal-chartview/pkg/timeline"
	"github.com/leowmjw/go-temporal-chartview/pkg/view"
)

func snapshotOf(series timeline.Series, state view.State) view.Snapshot {
	filtered := timeline.FilterWindow(series, state.TimeFrame)
	if state.TooltipIndex == nil {
		state.TooltipIndex = timeline.ResetCursor(filtered)
	}
	return view.Snapshot{
		FilteredSeries: filtered,
		Delta:          timeline.ComputeDelta(filtered),
		Tooltip:        timeline.TooltipAt(filtered, state.TooltipIndex),
		State:          state,
	}
}

func TestBuildChrome_Initial(t *testing.T) {
	snap := snapshotOf(timeline.Series{{Label: "a", Value: 9}, {Label: "b", Value: 10}}, view.InitialState())
	c := BuildChrome(snap)

	assert.True(t, c.ShowNavigation)
	assert.True(t, c.ShowCompare)
	assert.True(t, c.ShowChart)
	assert.True(t, c.Positive)
	assert.Equal(t, EnterFullscreenLabel, c.FullscreenLabel)
	assert.Empty(t, c.PanelText)

	require.Len(t, c.Navigation, 5)
	assert.Equal(t, "Chart", c.Navigation[1].Label)
	assert.True(t, c.Navigation[1].Active)

	require.Len(t, c.TimeFrames, 7)
	for _, b := range c.TimeFrames {
		assert.Equal(t, b.Frame == timeline.OneWeek, b.Active, "frame %s", b.Frame)
	}
}

func TestBuildChrome_Fullscreen(t *testing.T) {
	state := view.ToggleFullscreen(view.InitialState())
	c := BuildChrome(snapshotOf(timeline.Series{{Value: 110}, {Value: 100}}, state))

	assert.False(t, c.ShowNavigation)
	assert.False(t, c.ShowCompare)
	assert.Empty(t, c.Navigation)
	assert.Equal(t, ExitFullscreenLabel, c.FullscreenLabel)
	assert.False(t, c.Positive)
}

func TestBuildChrome_PanelAndLoading(t *testing.T) {
	state, err := view.SelectTab(view.InitialState(), view.StatisticsTab)
	require.NoError(t, err)

	snap := snapshotOf(timeline.Series{}, state)
	c := BuildChrome(snap)
	assert.False(t, c.ShowChart)
	assert.Equal(t, "This is the Statistics panel.", c.PanelText)

	snap.Loading = true
	c = BuildChrome(snap)
	assert.True(t, c.Loading)
	assert.False(t, c.ShowChart)
	assert.Empty(t, c.PanelText)
}

func TestBuildChrome_UnknownFrameHasNoActiveButton(t *testing.T) {
	state := view.SelectTimeFrame(view.InitialState(), "2w")
	c := BuildChrome(snapshotOf(timeline.Series{{Value: 1}}, state))
	for _, b := range c.TimeFrames {
		assert.False(t, b.Active)
	}
}
