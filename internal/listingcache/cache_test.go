package listingcache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_FillsOnce(t *testing.T) {
	c := New()
	var calls int

	fill := func(_ context.Context) (any, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	for range 3 {
		v, err := c.Get(context.Background(), KeyProducts, fill)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, v)
	}
	assert.Equal(t, 1, calls)
}

func TestInvalidate_RefillsOnNextGet(t *testing.T) {
	c := New()
	var calls int

	fill := func(_ context.Context) (any, error) {
		calls++
		return calls, nil
	}

	v, err := c.Get(context.Background(), KeyOrders, fill)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	c.Invalidate(KeyOrders)

	v, err = c.Get(context.Background(), KeyOrders, fill)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestInvalidate_LeavesOtherKeysAlone(t *testing.T) {
	c := New()

	_, err := c.Get(context.Background(), KeyProducts, func(_ context.Context) (any, error) {
		return "products-v1", nil
	})
	require.NoError(t, err)

	c.Invalidate(KeyOrders, KeyCustomers)

	v, err := c.Get(context.Background(), KeyProducts, func(_ context.Context) (any, error) {
		return "products-v2", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "products-v1", v)
}

func TestGet_ErrorNotCached(t *testing.T) {
	c := New()
	var calls int

	_, err := c.Get(context.Background(), KeyCustomers, func(_ context.Context) (any, error) {
		calls++
		return nil, errors.New("store down")
	})
	require.Error(t, err)

	v, err := c.Get(context.Background(), KeyCustomers, func(_ context.Context) (any, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 2, calls)
}

func TestGet_ConcurrentMissesShareOneFill(t *testing.T) {
	c := New()
	var calls atomic.Int32
	release := make(chan struct{})

	fill := func(_ context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([]any, workers)

	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Get(context.Background(), KeyProducts, fill)
			require.NoError(t, err)
			results[i] = v
		}()
	}

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "concurrent misses must share one fill")
	for _, v := range results {
		assert.Equal(t, "shared", v)
	}
}
