package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Acquisition outcomes
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Registry holds all Prometheus metrics of the chart service. A nil
// *Registry is valid and records nothing.
type Registry struct {
	registry *prometheus.Registry

	Acquisitions        *prometheus.CounterVec
	AcquisitionDuration *prometheus.HistogramVec
	Actions             *prometheus.CounterVec
	MountedWidgets      prometheus.Gauge
	Renders             *prometheus.CounterVec
	IngestedPoints      prometheus.Counter
}

// NewRegistry creates a registry with all chart metrics registered
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		Acquisitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chartview_acquisitions_total",
				Help: "Series acquisitions by source kind and outcome",
			},
			[]string{"kind", "outcome"},
		),

		AcquisitionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chartview_acquisition_duration_seconds",
				Help:    "Duration of series acquisitions in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"kind"},
		),

		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chartview_actions_total",
				Help: "User actions dispatched to widgets by type and result",
			},
			[]string{"type", "result"},
		),

		MountedWidgets: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "chartview_mounted_widgets",
				Help: "Number of currently mounted widgets",
			},
		),

		Renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chartview_renders_total",
				Help: "Rendered widget views by format",
			},
			[]string{"format"},
		),

		IngestedPoints: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "chartview_ingested_points_total",
				Help: "Points pushed into the in-memory series store",
			},
		),
	}

	r.registry.MustRegister(
		r.Acquisitions,
		r.AcquisitionDuration,
		r.Actions,
		r.MountedWidgets,
		r.Renders,
		r.IngestedPoints,
		collectors.NewGoCollector(),
	)
	return r
}

// Handler exposes the registry in the Prometheus text format
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveAcquisition records the outcome of one acquisition
func (r *Registry) ObserveAcquisition(kind, outcome string, took time.Duration) {
	if r == nil {
		return
	}
	r.Acquisitions.WithLabelValues(kind, outcome).Inc()
	r.AcquisitionDuration.WithLabelValues(kind).Observe(took.Seconds())
}

// ObserveAction records a dispatched user action
func (r *Registry) ObserveAction(actionType string, err error) {
	if r == nil {
		return
	}
	result := OutcomeOK
	if err != nil {
		result = OutcomeError
	}
	r.Actions.WithLabelValues(actionType, result).Inc()
}

// WidgetMounted adjusts the mounted widget gauge
func (r *Registry) WidgetMounted(delta float64) {
	if r == nil {
		return
	}
	r.MountedWidgets.Add(delta)
}

// ObserveRender counts a rendered view
func (r *Registry) ObserveRender(format string) {
	if r == nil {
		return
	}
	r.Renders.WithLabelValues(format).Inc()
}

// ObserveIngest counts points pushed into the memory store
func (r *Registry) ObserveIngest(points int) {
	if r == nil {
		return
	}
	r.IngestedPoints.Add(float64(points))
}
