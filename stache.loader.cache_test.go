package stache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// countingLoader counts backend loads per name.
type countingLoader struct {
	partials map[string]string
	err      error
	calls    map[string]int
}

func newCountingLoader(partials map[string]string) *countingLoader {
	return &countingLoader{partials: partials, calls: make(map[string]int)}
}

func (l *countingLoader) Load(_ context.Context, name string) (string, error) {
	l.calls[name]++
	if l.err != nil {
		return "", l.err
	}
	source, ok := l.partials[name]
	if !ok {
		return "", NewPartialNotFoundError(name)
	}
	return source, nil
}

// fakeClock is a settable time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCachedLoader(backend PartialLoader, config CacheConfig) (*CachedLoader, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	cached := NewCachedLoader(backend, config, nil)
	cached.now = clock.now
	return cached, clock
}

func TestCachedLoader_Hits(t *testing.T) {
	backend := newCountingLoader(map[string]string{"p": "x"})
	cached, _ := newTestCachedLoader(backend, DefaultCacheConfig())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		source, err := cached.Load(ctx, "p")
		require.NoError(t, err)
		assert.Equal(t, "x", source)
	}
	assert.Equal(t, 1, backend.calls["p"])
	assert.Equal(t, 1, cached.Len())
}

func TestCachedLoader_TTL(t *testing.T) {
	backend := newCountingLoader(map[string]string{"p": "x"})
	cached, clock := newTestCachedLoader(backend, CacheConfig{TTL: time.Minute})
	ctx := context.Background()

	_, err := cached.Load(ctx, "p")
	require.NoError(t, err)

	clock.advance(59 * time.Second)
	_, err = cached.Load(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 1, backend.calls["p"])

	clock.advance(time.Second)
	_, err = cached.Load(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 2, backend.calls["p"])
}

func TestCachedLoader_NegativeCache(t *testing.T) {
	ctx := context.Background()

	t.Run("not found is cached for NegativeTTL", func(t *testing.T) {
		backend := newCountingLoader(nil)
		cached, clock := newTestCachedLoader(backend, CacheConfig{NegativeTTL: 10 * time.Second})

		for i := 0; i < 2; i++ {
			_, err := cached.Load(ctx, "nope")
			assert.True(t, IsPartialNotFound(err))
		}
		assert.Equal(t, 1, backend.calls["nope"])

		clock.advance(10 * time.Second)
		_, err := cached.Load(ctx, "nope")
		assert.True(t, IsPartialNotFound(err))
		assert.Equal(t, 2, backend.calls["nope"])
	})

	t.Run("disabled", func(t *testing.T) {
		backend := newCountingLoader(nil)
		cached, _ := newTestCachedLoader(backend, CacheConfig{})

		_, _ = cached.Load(ctx, "nope")
		_, _ = cached.Load(ctx, "nope")
		assert.Equal(t, 2, backend.calls["nope"])
		assert.Equal(t, 0, cached.Len())
	})

	t.Run("other errors are not cached", func(t *testing.T) {
		errBoom := errors.New("backend down")
		backend := newCountingLoader(nil)
		backend.err = errBoom
		cached, _ := newTestCachedLoader(backend, DefaultCacheConfig())

		_, err := cached.Load(ctx, "p")
		assert.Equal(t, errBoom, err)
		_, err = cached.Load(ctx, "p")
		assert.Equal(t, errBoom, err)
		assert.Equal(t, 2, backend.calls["p"])
	})
}

func TestCachedLoader_Eviction(t *testing.T) {
	backend := newCountingLoader(map[string]string{"a": "1", "b": "2", "c": "3"})
	cached, clock := newTestCachedLoader(backend, CacheConfig{MaxEntries: 2})
	ctx := context.Background()

	_, _ = cached.Load(ctx, "a")
	clock.advance(time.Second)
	_, _ = cached.Load(ctx, "b")
	clock.advance(time.Second)
	_, _ = cached.Load(ctx, "a") // a is now the most recently used
	clock.advance(time.Second)
	_, _ = cached.Load(ctx, "c") // evicts b

	assert.Equal(t, 2, cached.Len())

	_, _ = cached.Load(ctx, "a")
	assert.Equal(t, 1, backend.calls["a"])
	_, _ = cached.Load(ctx, "b")
	assert.Equal(t, 2, backend.calls["b"])
}

func TestCachedLoader_InvalidateAndClear(t *testing.T) {
	backend := newCountingLoader(map[string]string{"a": "1", "b": "2"})
	cached, _ := newTestCachedLoader(backend, DefaultCacheConfig())
	ctx := context.Background()

	_, _ = cached.Load(ctx, "a")
	_, _ = cached.Load(ctx, "b")

	cached.Invalidate("a")
	assert.Equal(t, 1, cached.Len())
	_, _ = cached.Load(ctx, "a")
	assert.Equal(t, 2, backend.calls["a"])

	cached.Clear()
	assert.Equal(t, 0, cached.Len())
}

func TestCachedLoader_Logging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	backend := newCountingLoader(map[string]string{"p": "x"})
	cached := NewCachedLoader(backend, DefaultCacheConfig(), zap.New(core))
	ctx := context.Background()

	_, _ = cached.Load(ctx, "p")
	_, _ = cached.Load(ctx, "p")

	assert.Equal(t, 1, logs.FilterMessage(LogMsgLoaderCacheMiss).Len())
	assert.Equal(t, 1, logs.FilterMessage(LogMsgLoaderCacheHit).Len())
}

func TestCachedLoader_WithEngine(t *testing.T) {
	backend := newCountingLoader(map[string]string{"row": "<{{.}}>"})
	engine := MustNew(WithPartialLoader(NewCachedLoader(backend, DefaultCacheConfig(), nil)))

	out, err := engine.Render(context.Background(), "{{#xs}}{{> row}}{{/xs}}", map[string]any{"xs": []int{1, 2, 3}})
	require.NoError(t, err)
	assert.Equal(t, "<1><2><3>", out)
	assert.Equal(t, 1, backend.calls["row"])
}
