package filecache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/glance/internal/log"
)

// memTier is the in-memory stat tier, keyed by absolute path. A miss calls
// load and stores the result; errors are never stored.
type memTier struct {
	cache *gocache.Cache
	load  func(ctx context.Context, path string) (Entry, error)
}

func newMemTier(ttl time.Duration, load func(ctx context.Context, path string) (Entry, error)) *memTier {
	return &memTier{
		cache: gocache.New(ttl, max(2*ttl, time.Minute)),
		load:  load,
	}
}

func (m *memTier) get(ctx context.Context, path string) (Entry, error) {
	if v, ok := m.cache.Get(path); ok {
		if e, ok := v.(Entry); ok {
			log.Debug(log.CatCache, "stat served from memory", "path", path)
			return e, nil
		}
	}
	e, err := m.load(ctx, path)
	if err != nil {
		return Entry{}, err
	}
	m.cache.SetDefault(path, e)
	return e, nil
}

func (m *memTier) forget(path string) {
	m.cache.Delete(path)
}

// size counts stored entries, including expired ones not yet swept.
func (m *memTier) size() int {
	return m.cache.ItemCount()
}
