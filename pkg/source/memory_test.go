package source

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leowmjw/go-temporal-chartview/pkg/timeline"
)

func TestMemoryStore_AppendAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Append(ctx, "btc", timeline.Series{{Label: "Mon", Value: 1}}))
	require.NoError(t, store.Append(ctx, "btc", timeline.Series{{Label: "Tue", Value: 2}}))

	series, err := store.Load(ctx, "btc")
	require.NoError(t, err)
	assert.Equal(t, timeline.Series{{Label: "Mon", Value: 1}, {Label: "Tue", Value: 2}}, series)
	assert.Equal(t, 2, store.Count("btc"))

	// Callers get a copy
	series[0].Value = 99
	again, err := store.Load(ctx, "btc")
	require.NoError(t, err)
	assert.Equal(t, 1.0, again[0].Value)
}

func TestMemoryStore_Replace(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Append(ctx, "eth", timeline.Series{{Label: "a", Value: 1}}))
	require.NoError(t, store.Replace(ctx, "eth", timeline.Series{{Label: "b", Value: 2}}))

	series, err := store.Load(ctx, "eth")
	require.NoError(t, err)
	assert.Equal(t, timeline.Series{{Label: "b", Value: 2}}, series)
}

func TestMemoryStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	assert.Error(t, store.Append(ctx, "", nil))
	assert.Error(t, store.Replace(ctx, "", nil))

	_, err := store.Load(ctx, "missing")
	assert.True(t, errors.Is(err, ErrSeriesNotFound))
	assert.Equal(t, 0, store.Count("missing"))
}

func TestMemoryStore_Names(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for _, name := range []string{"sol", "btc", "eth"} {
		require.NoError(t, store.Append(ctx, name, timeline.Series{{Label: "x", Value: 1}}))
	}
	assert.Equal(t, []string{"btc", "eth", "sol"}, store.Names())
}

func TestMemoryStore_ConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Append(ctx, "btc", timeline.Series{{Label: "p", Value: float64(i)}})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, store.Count("btc"))
}

func TestMemoryLoader(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Append(ctx, "btc", timeline.Series{{Label: "Mon", Value: 5}}))

	series, err := NewMemoryLoader(store, "btc").Load(ctx)
	require.NoError(t, err)
	assert.Len(t, series, 1)

	_, err = NewMemoryLoader(store, "doge").Load(ctx)
	assert.Error(t, err)
}
