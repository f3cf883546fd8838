package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/leowmjw/go-temporal-chartview/pkg/timeline"
)

// maxPayloadBytes caps the size of a remote series payload
const maxPayloadBytes = 16 << 20

// NewBreaker creates the circuit breaker guarding one remote endpoint. It
// trips after three consecutive failures or a 5% failure rate over at least
// twenty requests.
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	st := gobreaker.Settings{Name: name}
	st.Interval = 60 * time.Second
	st.Timeout = 30 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		if counts.ConsecutiveFailures >= 3 {
			return true
		}
		if counts.Requests < 20 {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) > 0.05
	}
	return gobreaker.NewCircuitBreaker(st)
}

// HTTPLoader fetches a JSON array of points from a URL
type HTTPLoader struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewHTTPLoader creates a loader for url. breaker may be nil.
func NewHTTPLoader(url string, client *http.Client, breaker *gobreaker.CircuitBreaker) *HTTPLoader {
	if client == nil {
		client = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &HTTPLoader{
		url:     url,
		client:  client,
		breaker: breaker,
	}
}

// Load fetches and decodes the series
func (l *HTTPLoader) Load(ctx context.Context) (timeline.Series, error) {
	if l.breaker == nil {
		return l.fetch(ctx)
	}

	out, err := l.breaker.Execute(func() (interface{}, error) {
		return l.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	return out.(timeline.Series), nil
}

func (l *HTTPLoader) fetch(ctx context.Context) (timeline.Series, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch series: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("network response was not ok: %s", resp.Status)
	}

	var series timeline.Series
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPayloadBytes)).Decode(&series); err != nil {
		return nil, fmt.Errorf("failed to decode series: %w", err)
	}
	if series == nil {
		series = timeline.Series{}
	}
	return series, nil
}
