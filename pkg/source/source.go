package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sony/gobreaker"

	"github.com/leowmjw/go-temporal-chartview/pkg/metrics"
	"github.com/leowmjw/go-temporal-chartview/pkg/timeline"
)

var ErrUnknownKind = errors.New("unknown source kind")

// Kind names an acquisition strategy
type Kind string

const (
	KindHTTP      Kind = "http"
	KindSynthetic Kind = "synthetic"
	KindMemory    Kind = "memory"
)

// Default values
const (
	DefaultHTTPTimeout = 10 * time.Second
	CacheKeyPrefix     = "chartview:series:"
)

// Spec describes where a widget gets its series from
type Spec struct {
	Kind       Kind    `json:"kind"`
	URL        string  `json:"url,omitempty"`
	Timeout    string  `json:"timeout,omitempty"`
	Points     int     `json:"points,omitempty"`
	Start      float64 `json:"start,omitempty"`
	Volatility float64 `json:"volatility,omitempty"`
	Seed       int64   `json:"seed,omitempty"`
	StartDate  string  `json:"start_date,omitempty"`
	Name       string  `json:"name,omitempty"`
	CacheTTL   string  `json:"cache_ttl,omitempty"`
}

// WithDefaults treats an empty kind as a synthetic source
func (s Spec) WithDefaults() Spec {
	if s.Kind == "" {
		s.Kind = KindSynthetic
	}
	return s
}

// CacheKey identifies the series a spec produces
func (s Spec) CacheKey() string {
	switch s.Kind {
	case KindHTTP:
		return fmt.Sprintf("%s:%s", s.Kind, s.URL)
	case KindMemory:
		return fmt.Sprintf("%s:%s", s.Kind, s.Name)
	default:
		return fmt.Sprintf("%s:%d:%d:%g:%g:%s", s.Kind, s.Seed, s.Points, s.Start, s.Volatility, s.StartDate)
	}
}

// Loader loads a complete series with one acquisition strategy
type Loader interface {
	Load(ctx context.Context) (timeline.Series, error)
}

// LoaderFunc adapts a function to the Loader interface
type LoaderFunc func(ctx context.Context) (timeline.Series, error)

func (f LoaderFunc) Load(ctx context.Context) (timeline.Series, error) {
	return f(ctx)
}

// Builder turns a Spec into a Loader
type Builder interface {
	Build(spec Spec) (Loader, error)
}

// DataSource acquires a series for the view-model. Loader errors are logged
// and replaced by an empty series.
type DataSource struct {
	kind    Kind
	loader  Loader
	logger  *slog.Logger
	metrics *metrics.Registry
}

// NewDataSource wraps a loader; m may be nil
func NewDataSource(kind Kind, loader Loader, logger *slog.Logger, m *metrics.Registry) *DataSource {
	return &DataSource{
		kind:    kind,
		loader:  loader,
		logger:  logger,
		metrics: m,
	}
}

// Acquire runs the loader once and never fails
func (d *DataSource) Acquire(ctx context.Context) timeline.Series {
	started := time.Now()
	series, err := d.loader.Load(ctx)
	took := time.Since(started)

	if err != nil {
		d.logger.Error("Fetching series failed", "kind", d.kind, "error", err)
		d.metrics.ObserveAcquisition(string(d.kind), metrics.OutcomeError, took)
		return timeline.Series{}
	}

	outcome := metrics.OutcomeOK
	if len(series) == 0 {
		outcome = metrics.OutcomeEmpty
		series = timeline.Series{}
	}
	d.metrics.ObserveAcquisition(string(d.kind), outcome, took)
	d.logger.Debug("Series acquired", "kind", d.kind, "points", len(series), "duration", took)
	return series
}

// Factory builds loaders for the in-process strategies
type Factory struct {
	logger *slog.Logger
	store  *MemoryStore
	cache  redis.Cmdable

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewFactory creates a loader factory. store and cache may be nil, in which
// case memory sources and caching are unavailable.
func NewFactory(logger *slog.Logger, store *MemoryStore, cache redis.Cmdable) *Factory {
	return &Factory{
		logger:   logger,
		store:    store,
		cache:    cache,
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

// Build creates the loader described by spec
func (f *Factory) Build(spec Spec) (Loader, error) {
	spec = spec.WithDefaults()

	var loader Loader
	switch spec.Kind {
	case KindHTTP:
		if spec.URL == "" {
			return nil, fmt.Errorf("http source requires a url")
		}
		timeout := DefaultHTTPTimeout
		if spec.Timeout != "" {
			d, err := time.ParseDuration(spec.Timeout)
			if err != nil {
				return nil, fmt.Errorf("invalid http timeout: %w", err)
			}
			timeout = d
		}
		loader = NewHTTPLoader(spec.URL, &http.Client{Timeout: timeout}, f.breaker(spec.URL))

	case KindSynthetic:
		synthetic, err := NewSyntheticLoader(spec)
		if err != nil {
			return nil, err
		}
		loader = synthetic

	case KindMemory:
		if f.store == nil {
			return nil, fmt.Errorf("memory store not configured")
		}
		if spec.Name == "" {
			return nil, fmt.Errorf("memory source requires a name")
		}
		loader = NewMemoryLoader(f.store, spec.Name)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, spec.Kind)
	}

	if spec.CacheTTL != "" && f.cache != nil {
		ttl, err := time.ParseDuration(spec.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("invalid cache ttl: %w", err)
		}
		loader = NewCachedLoader(loader, f.cache, CacheKeyPrefix+spec.CacheKey(), ttl, f.logger)
	}

	return loader, nil
}

// breaker returns the circuit breaker shared by all loaders of one URL
func (f *Factory) breaker(url string) *gobreaker.CircuitBreaker {
	f.mu.Lock()
	defer f.mu.Unlock()

	if cb, ok := f.breakers[url]; ok {
		return cb
	}
	cb := NewBreaker(url)
	f.breakers[url] = cb
	return cb
}
