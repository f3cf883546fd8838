package source

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/leowmjw/go-temporal-chartview/pkg/timeline"
)

var ErrSeriesNotFound = errors.New("series not found")

// MemoryStore keeps named series in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	series map[string]timeline.Series
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		series: make(map[string]timeline.Series),
	}
}

// Append adds points to the end of the named series
func (m *MemoryStore) Append(ctx context.Context, name string, points timeline.Series) error {
	if name == "" {
		return fmt.Errorf("series name is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.series[name] = append(m.series[name], points...)
	return nil
}

// Replace overwrites the named series
func (m *MemoryStore) Replace(ctx context.Context, name string, series timeline.Series) error {
	if name == "" {
		return fmt.Errorf("series name is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.series[name] = series.Clone()
	return nil
}

// Load returns a copy of the named series
func (m *MemoryStore) Load(ctx context.Context, name string) (timeline.Series, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	series, exists := m.series[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrSeriesNotFound, name)
	}
	return series.Clone(), nil
}

// Count returns the number of points stored under name
func (m *MemoryStore) Count(name string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.series[name])
}

// Names lists the stored series in alphabetical order
func (m *MemoryStore) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.series))
	for name := range m.series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MemoryLoader loads one named series from a MemoryStore
type MemoryLoader struct {
	store *MemoryStore
	name  string
}

// NewMemoryLoader binds a loader to a store entry
func NewMemoryLoader(store *MemoryStore, name string) *MemoryLoader {
	return &MemoryLoader{store: store, name: name}
}

func (l *MemoryLoader) Load(ctx context.Context) (timeline.Series, error) {
	return l.store.Load(ctx, l.name)
}
