// Package filecache keeps file metadata for the viewer: a go-cache memory
// tier in front of a SQLite store that also records view history.
package filecache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/zjrosen/glance/internal/log"
)

// Config controls cache placement and lifetimes.
type Config struct {
	// Dir holds the database file. Empty disables the disk tier.
	Dir string
	// TTL bounds how long a stat result is served from memory.
	TTL time.Duration
	// Retention is how long unvisited rows survive on disk.
	Retention time.Duration
}

const dbFile = "glance.db"

// ErrNoDisk is returned by history queries when the disk tier is disabled.
var ErrNoDisk = errors.New("view history needs the disk cache")

// Cache answers file stat queries. The zero value is not usable; use New.
type Cache struct {
	cfg Config
	now func() time.Time
	mem *memTier

	mu sync.RWMutex
	db *DB
}

// New creates a cache. Init must run before the disk tier is used.
func New(cfg Config) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	c := &Cache{cfg: cfg, now: time.Now}
	c.mem = newMemTier(cfg.TTL, c.load)
	return c
}

// Init opens and migrates the disk tier and prunes stale rows.
func (c *Cache) Init(ctx context.Context) error {
	if c.cfg.Dir == "" {
		log.Debug(log.CatCache, "disk cache disabled")
		return nil
	}
	db, err := NewDB(filepath.Join(c.cfg.Dir, dbFile))
	if err != nil {
		return err
	}
	if c.cfg.Retention > 0 {
		n, err := db.Prune(ctx, c.now().Add(-c.cfg.Retention))
		if err != nil {
			_ = db.Close()
			return err
		}
		log.Debug(log.CatCache, "pruned cache rows", "count", n)
	}

	c.mu.Lock()
	c.db = db
	c.mu.Unlock()
	return nil
}

// Stat returns metadata for path, from memory when fresh.
func (c *Cache) Stat(ctx context.Context, path string) (Entry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Entry{}, err
	}
	return c.mem.get(ctx, abs)
}

// Invalidate forgets the in-memory entry for path, e.g. after it changed.
func (c *Cache) Invalidate(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	c.mem.forget(abs)
	return nil
}

// load reads the file system and refreshes the disk tier.
func (c *Cache) load(ctx context.Context, path string) (Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Entry{}, err
	}
	e := Entry{
		Path:      path,
		Size:      info.Size(),
		Mode:      info.Mode(),
		ModTime:   info.ModTime(),
		CheckedAt: c.now(),
	}

	db := c.store()
	if db == nil {
		return e, nil
	}
	if err := db.Upsert(ctx, e); err != nil {
		// The file system answer is still good.
		log.ErrorErr(log.CatCache, "cache write failed", err, "path", path)
		return e, nil
	}
	stored, err := db.Get(ctx, path)
	if err != nil {
		log.ErrorErr(log.CatCache, "cache read failed", err, "path", path)
		return e, nil
	}
	return stored, nil
}

// RecordView notes that path was shown with handler.
func (c *Cache) RecordView(ctx context.Context, path, handler string) error {
	db := c.store()
	if db == nil {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	err = db.RecordView(ctx, abs, handler, c.now())
	if errors.Is(err, ErrNotFound) {
		if _, err := c.load(ctx, abs); err != nil {
			return err
		}
		err = db.RecordView(ctx, abs, handler, c.now())
	}
	if err != nil {
		return err
	}
	c.mem.forget(abs)
	return nil
}

// Recent returns up to limit recently viewed files.
func (c *Cache) Recent(ctx context.Context, limit int) ([]Entry, error) {
	db := c.store()
	if db == nil {
		return nil, ErrNoDisk
	}
	return db.Recent(ctx, limit)
}

// Close releases the disk tier.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

func (c *Cache) store() *DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}
