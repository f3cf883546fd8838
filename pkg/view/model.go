package view

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/leowmjw/go-temporal-chartview/pkg/timeline"
)

// ErrUnmounted is returned for any mutation attempted after Unmount
var ErrUnmounted = errors.New("widget is unmounted")

// DefaultLoadingDelay holds the loading placeholder after data arrives
const DefaultLoadingDelay = time.Second

// Acquirer produces the series of a widget. Implementations never fail;
// an acquisition problem yields an empty series.
type Acquirer interface {
	Acquire(ctx context.Context) timeline.Series
}

// AcquirerFunc adapts a function to the Acquirer interface
type AcquirerFunc func(ctx context.Context) timeline.Series

func (f AcquirerFunc) Acquire(ctx context.Context) timeline.Series {
	return f(ctx)
}

// Options configure a Model
type Options struct {
	TimeFrame    timeline.TimeFrame
	LoadingDelay time.Duration
}

// Snapshot is the flat input of the renderer
type Snapshot struct {
	Loading        bool            `json:"loading"`
	FilteredSeries timeline.Series `json:"filtered_series"`
	timeline.Delta
	Tooltip timeline.TooltipPayload `json:"tooltip"`
	State   State                   `json:"view_state"`
}

// Model is the view-model of one mounted widget. It owns the view state, the
// acquired series and everything derived from them.
type Model struct {
	mu        sync.Mutex
	logger    *slog.Logger
	opts      Options
	state     State
	series    timeline.Series
	filtered  timeline.Series
	loading   bool
	unmounted bool
	pending   *Acquisition
}

// NewModel creates a model in its initial state. The model reports loading
// until its first acquisition completes.
func NewModel(logger *slog.Logger, opts Options) *Model {
	state := InitialState()
	if opts.TimeFrame != "" {
		state.TimeFrame = opts.TimeFrame
	}

	m := &Model{
		logger:  logger,
		opts:    opts,
		state:   state,
		series:  timeline.Series{},
		loading: true,
	}
	m.recompute()
	return m
}

// Mount starts the acquisition cycle. Any acquisition still in flight is
// discarded first, so at most one result can ever be applied.
func (m *Model) Mount(ctx context.Context, src Acquirer) *Acquisition {
	ctx, cancel := context.WithCancel(ctx)
	acq := newAcquisition(cancel)

	m.mu.Lock()
	if m.unmounted {
		m.mu.Unlock()
		acq.Discard()
		close(acq.done)
		return acq
	}
	if m.pending != nil {
		m.pending.Discard()
	}
	m.pending = acq
	m.loading = true
	m.mu.Unlock()

	go func() {
		defer close(acq.done)
		defer cancel()

		started := time.Now()
		series := src.Acquire(ctx)

		if m.opts.LoadingDelay > 0 {
			timer := time.NewTimer(m.opts.LoadingDelay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
			}
		}

		m.complete(acq, series, time.Since(started))
	}()

	return acq
}

func (m *Model) complete(acq *Acquisition, series timeline.Series, took time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acq.mu.Lock()
	defer acq.mu.Unlock()

	if !acq.alive || m.unmounted {
		m.logger.Debug("Discarding acquisition result", "points", len(series))
		return
	}

	acq.alive = false
	m.pending = nil
	m.applySeries(series)
	m.logger.Info("Acquisition completed", "points", len(series), "duration", took)
}

// Unmount discards any pending acquisition. The model rejects all further
// mutations.
func (m *Model) Unmount() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unmounted {
		return
	}
	m.unmounted = true
	if m.pending != nil {
		m.pending.Discard()
		m.pending = nil
	}
}

// Mounted reports whether Unmount has not been called yet
func (m *Model) Mounted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.unmounted
}

// Dispatch applies a user action. The filtered series and the tooltip cursor
// are recomputed when the time frame changes.
func (m *Model) Dispatch(action Action) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unmounted {
		return ErrUnmounted
	}

	next, err := Apply(m.state, action)
	if err != nil {
		return err
	}

	frameChanged := next.TimeFrame != m.state.TimeFrame
	m.state = next
	if frameChanged {
		m.recompute()
	}
	return nil
}

// SetSeries replaces the series directly and ends the loading state
func (m *Model) SetSeries(series timeline.Series) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unmounted {
		return ErrUnmounted
	}
	m.applySeries(series)
	return nil
}

func (m *Model) applySeries(series timeline.Series) {
	m.series = series.Clone()
	m.loading = false
	m.recompute()
}

// recompute derives the filtered series and resets the tooltip cursor.
// Callers hold m.mu.
func (m *Model) recompute() {
	m.filtered = timeline.FilterWindow(m.series, m.state.TimeFrame)
	m.state.TooltipIndex = timeline.ResetCursor(m.filtered)
}

// State returns the current view state
func (m *Model) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Loading reports whether the acquisition cycle is still pending
func (m *Model) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Snapshot computes the renderer input from the current state
func (m *Model) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	filtered := m.filtered.Clone()
	return Snapshot{
		Loading:        m.loading,
		FilteredSeries: filtered,
		Delta:          timeline.ComputeDelta(filtered),
		Tooltip:        timeline.TooltipAt(filtered, m.state.TooltipIndex),
		State:          m.state,
	}
}

// Stats summarises the visible window
func (m *Model) Stats() timeline.Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return timeline.Summarize(m.filtered)
}

// Acquisition is the handle of one acquisition cycle. Discarding it
// guarantees its result is never applied.
type Acquisition struct {
	mu     sync.Mutex
	alive  bool
	cancel context.CancelFunc
	done   chan struct{}
}

func newAcquisition(cancel context.CancelFunc) *Acquisition {
	return &Acquisition{
		alive:  true,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Discard drops the result of the acquisition if it has not been applied yet
func (a *Acquisition) Discard() {
	a.mu.Lock()
	a.alive = false
	a.mu.Unlock()
	a.cancel()
}

// Done is closed once the acquisition goroutine has finished
func (a *Acquisition) Done() <-chan struct{} {
	return a.done
}

// Wait blocks until the acquisition finishes or ctx is done
func (a *Acquisition) Wait(ctx context.Context) error {
	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
