package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetOrLoad_DeduplicatesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "standings", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "league:1:standings", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "standings" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), calls.Load())
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.October, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore(time.Minute)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "k", 1)
	_, ok := store.Get(context.Background(), "k")
	require.True(t, ok)

	now = now.Add(61 * time.Second)
	_, ok = store.Get(context.Background(), "k")
	assert.False(t, ok)
	assert.Zero(t, store.Len())
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(0)
	store.Set(ctx, "league:1:page:1", "a")
	store.Set(ctx, "league:1:page:2", "b")
	store.Set(ctx, "league:2:page:1", "c")

	assert.Equal(t, 2, store.DeletePrefix(ctx, "league:1:"))
	assert.Equal(t, 1, store.Len())
	_, ok := store.Get(ctx, "league:2:page:1")
	assert.True(t, ok)
}

func TestStore_LoaderErrorIsNotCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)
	var calls atomic.Int32
	boom := errors.New("boom")

	_, err := store.GetOrLoad(ctx, "k", func(context.Context) (any, error) {
		calls.Add(1)
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	got, err := Load(ctx, store, "k", func(context.Context) (int, error) {
		calls.Add(1)
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLoad_TypeMismatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)
	store.Set(ctx, "k", "text")

	_, err := Load(ctx, store, "k", func(context.Context) (int, error) { return 1, nil })
	assert.Error(t, err)
}

func TestStore_NilStoreLoadsDirectly(t *testing.T) {
	t.Parallel()

	var store *Store
	got, err := Load(context.Background(), store, "k", func(context.Context) (string, error) { return "direct", nil })
	require.NoError(t, err)
	assert.Equal(t, "direct", got)
}

var errUnexpectedValue = errors.New("unexpected loaded value")
