package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leowmjw/go-temporal-chartview/pkg/timeline"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ascending(n int) timeline.Series {
	series := make(timeline.Series, n)
	for i := range series {
		series[i] = timeline.Point{Label: fmt.Sprintf("2025-01-%02d", i+1), Value: float64(i + 1)}
	}
	return series
}

func staticAcquirer(series timeline.Series) Acquirer {
	return AcquirerFunc(func(ctx context.Context) timeline.Series { return series })
}

func waitFor(t *testing.T, acq *Acquisition) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, acq.Wait(ctx))
}

func TestModel_InitialSnapshot(t *testing.T) {
	m := NewModel(testLogger(), Options{})
	snap := m.Snapshot()

	assert.True(t, snap.Loading)
	assert.Empty(t, snap.FilteredSeries)
	assert.Equal(t, "0.00", snap.PercentChange)
	assert.Equal(t, timeline.Positive, snap.Sign)
	assert.False(t, snap.Tooltip.Present)
	assert.Equal(t, InitialState(), snap.State)
}

func TestModel_MountAppliesSeries(t *testing.T) {
	m := NewModel(testLogger(), Options{})
	acq := m.Mount(context.Background(), staticAcquirer(ascending(10)))
	waitFor(t, acq)

	snap := m.Snapshot()
	assert.False(t, snap.Loading)
	assert.Len(t, snap.FilteredSeries, 7)
	assert.Equal(t, 10.0, snap.Last)
	require.NotNil(t, snap.State.TooltipIndex)
	assert.Equal(t, 6, *snap.State.TooltipIndex)
	assert.Equal(t, 10.0, snap.Tooltip.Value)
	assert.Equal(t, "2025-01-10", snap.Tooltip.Label)
}

func TestModel_EndToEndThreeDays(t *testing.T) {
	m := NewModel(testLogger(), Options{})
	require.NoError(t, m.SetSeries(ascending(10)))
	require.NoError(t, m.Dispatch(Action{Type: SelectTimeFrameAction, Frame: timeline.ThreeDays}))

	snap := m.Snapshot()
	assert.Equal(t, []float64{8, 9, 10}, snap.FilteredSeries.Values())
	assert.Equal(t, 10.0, snap.Last)
	assert.Equal(t, 9.0, snap.Prior)
	assert.Equal(t, 1.0, snap.AbsoluteDelta)
	assert.Equal(t, "11.11", snap.PercentChange)
	assert.Equal(t, timeline.Positive, snap.Sign)
	require.NotNil(t, snap.State.TooltipIndex)
	assert.Equal(t, 2, *snap.State.TooltipIndex)
	assert.Equal(t, 10.0, snap.Tooltip.Value)
}

func TestModel_CursorFollowsFilteredSeries(t *testing.T) {
	m := NewModel(testLogger(), Options{})
	require.NoError(t, m.SetSeries(ascending(400)))

	for _, frame := range timeline.TimeFrames() {
		require.NoError(t, m.Dispatch(Action{Type: SelectTimeFrameAction, Frame: frame}))
		snap := m.Snapshot()
		require.NotNil(t, snap.State.TooltipIndex, frame)
		assert.Equal(t, len(snap.FilteredSeries)-1, *snap.State.TooltipIndex, frame)
	}

	require.NoError(t, m.SetSeries(timeline.Series{}))
	assert.Nil(t, m.State().TooltipIndex)
	assert.False(t, m.Snapshot().Tooltip.Present)
}

func TestModel_UnknownTimeFrameUsesWeekWindow(t *testing.T) {
	m := NewModel(testLogger(), Options{})
	require.NoError(t, m.SetSeries(ascending(20)))
	require.NoError(t, m.Dispatch(Action{Type: SelectTimeFrameAction, Frame: "2w"}))

	snap := m.Snapshot()
	assert.Len(t, snap.FilteredSeries, 7)
	assert.Equal(t, timeline.TimeFrame("2w"), snap.State.TimeFrame)
}

func TestModel_DispatchRejectsUnknownTab(t *testing.T) {
	m := NewModel(testLogger(), Options{})
	err := m.Dispatch(Action{Type: SelectTabAction, Tab: "nope"})
	assert.True(t, errors.Is(err, ErrUnknownTab))
	assert.Equal(t, ChartTab, m.State().ActiveTab)
}

func TestModel_TabAndFullscreenKeepSeries(t *testing.T) {
	m := NewModel(testLogger(), Options{TimeFrame: timeline.OneMonth})
	require.NoError(t, m.SetSeries(ascending(50)))

	require.NoError(t, m.Dispatch(Action{Type: ToggleFullscreenAction}))
	require.NoError(t, m.Dispatch(Action{Type: SelectTabAction, Tab: SummaryTab}))

	snap := m.Snapshot()
	assert.True(t, snap.State.Fullscreen)
	assert.Equal(t, SummaryTab, snap.State.ActiveTab)
	assert.Len(t, snap.FilteredSeries, 30)
}

func TestModel_LoadingDelayHoldsPlaceholder(t *testing.T) {
	m := NewModel(testLogger(), Options{LoadingDelay: 50 * time.Millisecond})
	acq := m.Mount(context.Background(), staticAcquirer(ascending(3)))

	assert.True(t, m.Loading())
	waitFor(t, acq)
	assert.False(t, m.Loading())
	assert.Len(t, m.Snapshot().FilteredSeries, 3)
}

func TestModel_UnmountDiscardsPendingResult(t *testing.T) {
	release := make(chan struct{})
	src := AcquirerFunc(func(ctx context.Context) timeline.Series {
		<-release
		return ascending(10)
	})

	m := NewModel(testLogger(), Options{})
	acq := m.Mount(context.Background(), src)
	m.Unmount()
	close(release)
	waitFor(t, acq)

	snap := m.Snapshot()
	assert.True(t, snap.Loading, "no state change may happen after unmount")
	assert.Empty(t, snap.FilteredSeries)
	assert.False(t, m.Mounted())

	assert.ErrorIs(t, m.Dispatch(Action{Type: ToggleFullscreenAction}), ErrUnmounted)
	assert.ErrorIs(t, m.SetSeries(ascending(1)), ErrUnmounted)
}

func TestModel_DiscardedAcquisitionIsNotApplied(t *testing.T) {
	release := make(chan struct{})
	src := AcquirerFunc(func(ctx context.Context) timeline.Series {
		<-release
		return ascending(10)
	})

	m := NewModel(testLogger(), Options{})
	acq := m.Mount(context.Background(), src)
	acq.Discard()
	close(release)
	waitFor(t, acq)

	assert.True(t, m.Loading())
}

func TestModel_RemountReplacesPendingAcquisition(t *testing.T) {
	slow := make(chan struct{})
	first := gatedAcquirer(slow, ascending(100))

	m := NewModel(testLogger(), Options{})
	stale := m.Mount(context.Background(), first)
	fresh := m.Mount(context.Background(), staticAcquirer(ascending(2)))
	waitFor(t, fresh)

	close(slow)
	waitFor(t, stale)

	assert.Equal(t, []float64{1, 2}, m.Snapshot().FilteredSeries.Values())
}

func gatedAcquirer(gate chan struct{}, series timeline.Series) Acquirer {
	return AcquirerFunc(func(ctx context.Context) timeline.Series {
		<-gate
		return series
	})
}

func TestModel_MountAfterUnmount(t *testing.T) {
	m := NewModel(testLogger(), Options{})
	m.Unmount()

	acq := m.Mount(context.Background(), staticAcquirer(ascending(5)))
	waitFor(t, acq)
	assert.True(t, m.Loading())
}

func TestModel_Stats(t *testing.T) {
	m := NewModel(testLogger(), Options{TimeFrame: timeline.ThreeDays})
	require.NoError(t, m.SetSeries(ascending(10)))

	stats := m.Stats()
	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 8.0, stats.Min)
	assert.Equal(t, 10.0, stats.Max)
}
