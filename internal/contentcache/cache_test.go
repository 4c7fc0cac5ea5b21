package contentcache

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/culturalatlas/heritage-go/internal/conf"
	"github.com/culturalatlas/heritage-go/internal/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("testing.(*T).Run"),
		goleak.IgnoreTopFunction("time.Sleep"),
		goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"),
	)
	os.Exit(m.Run())
}

// testSettings returns cache settings with short windows suitable for tests.
func testSettings() *conf.CacheSettings {
	return &conf.CacheSettings{
		StaleTime: conf.StaleTimes{
			Cities:    200 * time.Millisecond,
			Heritage:  time.Minute,
			Languages: time.Minute,
			Images:    time.Minute,
		},
		ResolveTimeout: conf.ResolveTimeouts{
			Cities:    time.Second,
			Heritage:  time.Second,
			Languages: time.Second,
			Images:    100 * time.Millisecond,
		},
		Retry: conf.RetrySettings{Attempts: 0, Backoff: 10 * time.Millisecond},
	}
}

func TestGetResolvesOncePerWindow(t *testing.T) {
	t.Parallel()
	cache := New(testSettings(), nil)

	var calls atomic.Int32
	resolve := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return "value", nil
	}

	key := Key(ResourceHeritage, nil, "en")
	for i := 0; i < 5; i++ {
		value, err := cache.Get(context.Background(), ResourceHeritage, key, resolve)
		require.NoError(t, err)
		assert.Equal(t, "value", value)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestConcurrentGetsCoalesce(t *testing.T) {
	t.Parallel()
	cache := New(testSettings(), nil)

	var calls atomic.Int32
	resolve := func(ctx context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond)
		return 42, nil
	}

	key := Key(ResourceHeritage, map[string]string{"city": "mumbai"}, "hi")
	const workers = 16

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := cache.Get(context.Background(), ResourceHeritage, key, resolve)
			assert.NoError(t, err)
			assert.Equal(t, 42, value)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "concurrent callers must share one resolution")
}

func TestExpiredEntryResolvedExactlyOnce(t *testing.T) {
	t.Parallel()
	cache := New(testSettings(), nil)

	var calls atomic.Int32
	resolve := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return calls.Load(), nil
	}

	// cities staleness is 200ms in the test settings
	key := Key(ResourceCities, nil, "en")
	_, err := cache.Get(context.Background(), ResourceCities, key, resolve)
	require.NoError(t, err)

	time.Sleep(300 * time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := cache.Get(context.Background(), ResourceCities, key, resolve)
			assert.NoError(t, err)
			assert.Equal(t, int32(2), value)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(2), calls.Load(), "expiry triggers exactly one new resolution")
}

func TestFailedResolutionNotCached(t *testing.T) {
	t.Parallel()
	cache := New(testSettings(), nil)

	var calls atomic.Int32
	resolve := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return nil, fmt.Errorf("backend unavailable")
	}

	key := Key(ResourceHeritage, nil, "en")
	_, err := cache.Get(context.Background(), ResourceHeritage, key, resolve)
	require.Error(t, err)

	_, err = cache.Get(context.Background(), ResourceHeritage, key, resolve)
	require.Error(t, err)

	assert.Equal(t, int32(2), calls.Load(), "failures must not be stored")
}

func TestFailureSharedByWaiters(t *testing.T) {
	t.Parallel()
	cache := New(testSettings(), nil)

	var calls atomic.Int32
	resolve := func(ctx context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond)
		return nil, fmt.Errorf("backend unavailable")
	}

	key := Key(ResourceHeritage, nil, "en")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Get(context.Background(), ResourceHeritage, key, resolve)
			assert.Error(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "a shared failure rejects every waiter")
}

func TestAbandonedCallerDoesNotCancelSharedRun(t *testing.T) {
	t.Parallel()
	cache := New(testSettings(), nil)

	started := make(chan struct{})
	resolve := func(ctx context.Context) (any, error) {
		close(started)
		time.Sleep(100 * time.Millisecond)
		return "resolved", nil
	}

	key := Key(ResourceHeritage, nil, "en")

	patientDone := make(chan error, 1)
	go func() {
		_, err := cache.Get(context.Background(), ResourceHeritage, key, resolve)
		patientDone <- err
	}()

	<-started
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := cache.Get(ctx, ResourceHeritage, key, resolve)
	require.ErrorIs(t, err, context.Canceled)

	// The patient caller still receives the shared result.
	require.NoError(t, <-patientDone)

	// And the shared run stored its value.
	var calls atomic.Int32
	value, err := cache.Get(context.Background(), ResourceHeritage, key, func(ctx context.Context) (any, error) {
		calls.Add(1)
		return nil, fmt.Errorf("should not run")
	})
	require.NoError(t, err)
	assert.Equal(t, "resolved", value)
	assert.Equal(t, int32(0), calls.Load())
}

func TestTimeoutRejectsWaiters(t *testing.T) {
	t.Parallel()
	cache := New(testSettings(), nil)

	release := make(chan struct{})
	defer close(release)
	resolve := func(ctx context.Context) (any, error) {
		<-release
		return "late", nil
	}

	// images resolve timeout is 100ms in the test settings
	key := Key(ResourceImages, nil, "en")
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Get(context.Background(), ResourceImages, key, resolve)
			assert.Error(t, err)
			assert.True(t, errors.IsTimeout(err))
		}()
	}
	wg.Wait()
}

func TestTimeoutRetriedWithinBudget(t *testing.T) {
	t.Parallel()
	settings := testSettings()
	settings.Retry.Attempts = 1
	cache := New(settings, nil)

	var calls atomic.Int32
	resolve := func(ctx context.Context) (any, error) {
		if calls.Add(1) == 1 {
			// first attempt exceeds the 100ms images deadline
			time.Sleep(200 * time.Millisecond)
		}
		return "ok", nil
	}

	key := Key(ResourceImages, nil, "en")
	value, err := cache.Get(context.Background(), ResourceImages, key, resolve)
	require.NoError(t, err)
	assert.Equal(t, "ok", value)
	assert.Equal(t, int32(2), calls.Load())
}

func TestNonTimeoutErrorNotRetried(t *testing.T) {
	t.Parallel()
	settings := testSettings()
	settings.Retry.Attempts = 2
	cache := New(settings, nil)

	var calls atomic.Int32
	resolve := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return nil, fmt.Errorf("constraint violation")
	}

	key := Key(ResourceHeritage, nil, "en")
	_, err := cache.Get(context.Background(), ResourceHeritage, key, resolve)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "retry budget applies to timeouts only")
}

func TestInvalidateByPrefix(t *testing.T) {
	t.Parallel()
	cache := New(testSettings(), nil)

	resolve := func(ctx context.Context) (any, error) { return "v", nil }

	heritageKeys := []string{
		Key(ResourceHeritage, map[string]string{"city": "mumbai"}, "en"),
		Key(ResourceHeritage, map[string]string{"city": "mumbai"}, "hi"),
	}
	citiesKey := Key(ResourceCities, nil, "en")

	for _, key := range heritageKeys {
		_, err := cache.Get(context.Background(), ResourceHeritage, key, resolve)
		require.NoError(t, err)
	}
	_, err := cache.Get(context.Background(), ResourceCities, citiesKey, resolve)
	require.NoError(t, err)

	evicted := cache.Invalidate(ResourceHeritage)
	assert.Equal(t, 2, evicted)

	// heritage entries resolve again, the cities entry is still warm
	var calls atomic.Int32
	counting := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return "v2", nil
	}
	for _, key := range heritageKeys {
		_, err := cache.Get(context.Background(), ResourceHeritage, key, counting)
		require.NoError(t, err)
	}
	_, err = cache.Get(context.Background(), ResourceCities, citiesKey, counting)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLanguagesNeverSatisfyEachOther(t *testing.T) {
	t.Parallel()
	cache := New(testSettings(), nil)

	var calls atomic.Int32
	resolve := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return calls.Load(), nil
	}

	en, err := cache.Get(context.Background(), ResourceCities, Key(ResourceCities, nil, "en"), resolve)
	require.NoError(t, err)
	hi, err := cache.Get(context.Background(), ResourceCities, Key(ResourceCities, nil, "hi"), resolve)
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
	assert.NotEqual(t, en, hi)

	// the English entry survives the Hindi fetch untouched
	enAgain, err := cache.Get(context.Background(), ResourceCities, Key(ResourceCities, nil, "en"), resolve)
	require.NoError(t, err)
	assert.Equal(t, en, enAgain)
	assert.Equal(t, int32(2), calls.Load())
}
