package search

import (
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/five82/snipbox/internal/snippet"
)

// DefaultCacheSize bounds the number of cached filtered views.
const DefaultCacheSize = 64

type cacheKey struct {
	version uint64
	query   string
}

// Engine memoizes filtered views keyed by collection version and query.
type Engine struct {
	cache *lru.Cache[cacheKey, []snippet.Snippet]
}

// NewEngine returns an Engine holding at most size views. Non-positive
// sizes fall back to DefaultCacheSize.
func NewEngine(size int) (*Engine, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[cacheKey, []snippet.Snippet](size)
	if err != nil {
		return nil, err
	}
	return &Engine{cache: cache}, nil
}

// View returns Filter(q, load()), reusing a cached result when the collection
// version and query match a previous call. load is only called on a miss and
// must return the collection at version.
func (e *Engine) View(version uint64, q string, load func() []snippet.Snippet) []snippet.Snippet {
	key := cacheKey{version: version, query: q}
	if view, ok := e.cache.Get(key); ok {
		return slices.Clone(view)
	}
	view := Filter(q, load())
	e.cache.Add(key, view)
	return slices.Clone(view)
}

// Purge drops every cached view.
func (e *Engine) Purge() {
	e.cache.Purge()
}

// Len reports the number of cached views.
func (e *Engine) Len() int {
	return e.cache.Len()
}
