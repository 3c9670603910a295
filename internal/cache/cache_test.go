package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/mvp-joe/spec-check/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Extraction Cache:
// - GetCacheKey is deterministic and separates content and visibility mode
// - hashString produces 64-char lowercase hex
// - Same source is extracted once; later calls hit the cache
// - includePrivate is part of the key
// - Parse errors are cached and returned on hits
// - Returned slices are copies (mutating Line does not leak into the cache)
// - Concurrent callers are safe
// - New rejects non-positive capacity
// - Cache wraps the real extractor

func countingExtractor(calls *atomic.Int32) ExtractFunc {
	return func(source string, includePrivate bool) ([]extract.Item, error) {
		calls.Add(1)
		if source == "broken" {
			return nil, &extract.ParseError{Line: 1, Column: 1, Message: "unexpected \"broken\""}
		}
		return []extract.Item{{Name: source, Kind: extract.Kind{Type: extract.Struct}, Line: 1}}, nil
	}
}

func TestGetCacheKey(t *testing.T) {
	t.Parallel()

	a := GetCacheKey("pub struct A;", false)
	assert.Equal(t, a, GetCacheKey("pub struct A;", false))
	assert.NotEqual(t, a, GetCacheKey("pub struct A;", true))
	assert.NotEqual(t, a, GetCacheKey("pub struct B;", false))
	assert.Regexp(t, `^[0-9a-f]{64}-pub$`, a)
	assert.Regexp(t, `^[0-9a-f]{64}-all$`, GetCacheKey("", true))
}

func TestHashString(t *testing.T) {
	t.Parallel()

	h := hashString("hello")
	assert.Len(t, h, 64)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", h)
}

func TestCache_HitsAfterFirstExtraction(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, err := newWithExtractor(16, countingExtractor(&calls))
	require.NoError(t, err)
	defer c.Close()

	for i := 0; i < 3; i++ {
		items, err := c.Extract("Foo", false)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Foo", items[0].Name)
	}

	assert.Equal(t, int32(1), calls.Load())

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestCache_VisibilityModeIsPartOfKey(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, err := newWithExtractor(16, countingExtractor(&calls))
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Extract("Foo", false)
	require.NoError(t, err)
	_, err = c.Extract("Foo", true)
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
}

func TestCache_CachesParseErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, err := newWithExtractor(16, countingExtractor(&calls))
	require.NoError(t, err)
	defer c.Close()

	for i := 0; i < 2; i++ {
		items, err := c.Extract("broken", false)
		assert.Nil(t, items)

		var parseErr *extract.ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, 1, parseErr.Line)
	}

	assert.Equal(t, int32(1), calls.Load())
}

func TestCache_ReturnsCopies(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, err := newWithExtractor(16, countingExtractor(&calls))
	require.NoError(t, err)
	defer c.Close()

	first, err := c.Extract("Foo", false)
	require.NoError(t, err)
	first[0].Line = 42

	second, err := c.Extract("Foo", false)
	require.NoError(t, err)
	assert.Equal(t, 1, second[0].Line)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, err := newWithExtractor(16, countingExtractor(&calls))
	require.NoError(t, err)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := []string{"A", "B"}[i%2]
			items, err := c.Extract(name, false)
			assert.NoError(t, err)
			assert.Len(t, items, 1)
		}(i)
	}
	wg.Wait()

	// Racing misses may extract the same source more than once.
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
	assert.LessOrEqual(t, calls.Load(), int32(20))
}

func TestNew_RejectsNonPositiveCapacity(t *testing.T) {
	t.Parallel()

	c, err := New(0)
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestNew_UsesRustExtractor(t *testing.T) {
	t.Parallel()

	c, err := New(DefaultCapacity)
	require.NoError(t, err)
	defer c.Close()

	items, err := c.Extract("pub struct Foo { pub x: i32 }", false)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "struct Foo", items[0].Label())

	_, err = c.Extract("pub struct {", false)
	var parseErr *extract.ParseError
	assert.True(t, errors.As(err, &parseErr))
}
