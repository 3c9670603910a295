// Package cache memoizes declaration extraction by file content.
//
// Watch mode re-checks every pair on each change; most files are unchanged
// between runs, so their extraction results are served from memory.
package cache

import (
	"fmt"
	"slices"

	"github.com/maypok86/otter"
	"github.com/mvp-joe/spec-check/internal/extract"
)

// DefaultCapacity is the number of extraction results kept in memory.
const DefaultCapacity = 4096

// ExtractFunc matches extract.Extract.
type ExtractFunc func(source string, includePrivate bool) ([]extract.Item, error)

type entry struct {
	items []extract.Item
	err   error
}

// Stats reports cache effectiveness.
type Stats struct {
	Hits   int64
	Misses int64
}

// Cache is a content-addressed extraction cache. It is safe for
// concurrent use.
type Cache struct {
	store   otter.Cache[string, entry]
	extract ExtractFunc
}

// New creates a cache holding up to capacity extraction results.
func New(capacity int) (*Cache, error) {
	return newWithExtractor(capacity, extract.Extract)
}

func newWithExtractor(capacity int, fn ExtractFunc) (*Cache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", capacity)
	}

	store, err := otter.MustBuilder[string, entry](capacity).
		CollectStats().
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build extraction cache: %w", err)
	}

	return &Cache{store: store, extract: fn}, nil
}

// Extract returns the declarations of source, extracting them on a miss.
// Parse errors are cached too. The returned slice is a copy, so callers may
// adjust item fields such as Line.
func (c *Cache) Extract(source string, includePrivate bool) ([]extract.Item, error) {
	key := GetCacheKey(source, includePrivate)

	if e, ok := c.store.Get(key); ok {
		return slices.Clone(e.items), e.err
	}

	items, err := c.extract(source, includePrivate)
	c.store.Set(key, entry{items: items, err: err})
	return slices.Clone(items), err
}

// Stats returns hit and miss counts since the cache was created.
func (c *Cache) Stats() Stats {
	s := c.store.Stats()
	return Stats{Hits: s.Hits(), Misses: s.Misses()}
}

// Close releases the cache's background resources.
func (c *Cache) Close() {
	c.store.Close()
}
