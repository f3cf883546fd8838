package view

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leowmjw/go-temporal-chartview/pkg/timeline"
)

func TestInitialState(t *testing.T) {
	s := InitialState()
	assert.Equal(t, ChartTab, s.ActiveTab)
	assert.Equal(t, timeline.OneWeek, s.TimeFrame)
	assert.False(t, s.Fullscreen)
	assert.Nil(t, s.TooltipIndex)
}

func TestSelectTab(t *testing.T) {
	s := InitialState()
	s.Fullscreen = true
	s.TimeFrame = timeline.OneMonth

	for _, tab := range Tabs() {
		next, err := SelectTab(s, tab)
		require.NoError(t, err)
		assert.Equal(t, tab, next.ActiveTab)
		assert.True(t, next.Fullscreen, "selecting a tab must not touch fullscreen")
		assert.Equal(t, timeline.OneMonth, next.TimeFrame, "selecting a tab must not touch the time frame")
	}
}

func TestSelectTab_Unknown(t *testing.T) {
	s := InitialState()
	next, err := SelectTab(s, "portfolio")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTab))
	assert.Equal(t, s, next)
}

func TestToggleFullscreen(t *testing.T) {
	s := InitialState()

	on := ToggleFullscreen(s)
	assert.True(t, on.Fullscreen)
	assert.Equal(t, s.ActiveTab, on.ActiveTab)
	assert.Equal(t, s.TimeFrame, on.TimeFrame)

	off := ToggleFullscreen(on)
	assert.False(t, off.Fullscreen)

	// Reducers do not mutate their input
	assert.False(t, s.Fullscreen)
}

func TestSelectTimeFrame(t *testing.T) {
	s := SelectTimeFrame(InitialState(), timeline.ThreeDays)
	assert.Equal(t, timeline.ThreeDays, s.TimeFrame)

	s = SelectTimeFrame(s, "2w")
	assert.Equal(t, timeline.TimeFrame("2w"), s.TimeFrame)
	assert.Equal(t, 7, timeline.WindowLength(s.TimeFrame))
}

func TestApply(t *testing.T) {
	s := InitialState()

	s, err := Apply(s, Action{Type: SelectTabAction, Tab: StatisticsTab})
	require.NoError(t, err)
	assert.Equal(t, StatisticsTab, s.ActiveTab)

	s, err = Apply(s, Action{Type: SelectTimeFrameAction, Frame: timeline.OneYear})
	require.NoError(t, err)
	assert.Equal(t, timeline.OneYear, s.TimeFrame)

	s, err = Apply(s, Action{Type: ToggleFullscreenAction})
	require.NoError(t, err)
	assert.True(t, s.Fullscreen)

	_, err = Apply(s, Action{Type: "hover"})
	assert.True(t, errors.Is(err, ErrUnknownAction))
}

func TestPanelText(t *testing.T) {
	assert.Equal(t, "This is the Summary panel.", PanelText(SummaryTab))
	assert.Equal(t, "This is the Statistics panel.", PanelText(StatisticsTab))
	assert.Equal(t, "This is the Analysis panel.", PanelText(AnalysisTab))
	assert.Equal(t, "This is the Settings panel.", PanelText(SettingsTab))
	assert.Empty(t, PanelText(ChartTab))
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Name: "btc"}.WithDefaults()
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, timeline.OneWeek, cfg.TimeFrame)
	assert.Equal(t, "btc", cfg.Title)

	opts, err := cfg.ModelOptions(DefaultLoadingDelay)
	require.NoError(t, err)
	assert.Equal(t, DefaultLoadingDelay, opts.LoadingDelay)

	cfg.LoadingDelay = "250ms"
	opts, err = cfg.ModelOptions(DefaultLoadingDelay)
	require.NoError(t, err)
	assert.Equal(t, "250ms", opts.LoadingDelay.String())

	cfg.LoadingDelay = "soon"
	_, err = cfg.ModelOptions(DefaultLoadingDelay)
	assert.Error(t, err)
}
