package dataset

import (
	"os"
	"sync"
	"time"
)

// Snapshot is a loaded, validated and enriched dataset. It is never modified
// after Prepare returns.
type Snapshot struct {
	Path     string
	Table    *Table
	Data     *Dataset
	Warnings []MissingValueWarning
	LoadedAt time.Time
}

// Prepare validates t, adds region colours and builds the typed view.
// Validation runs once here and nowhere else.
func Prepare(path string, t *Table, s Schema) (*Snapshot, error) {
	warnings, err := Validate(t, s)
	if err != nil {
		return nil, err
	}

	enriched := EnsureColors(t, s)
	data, err := FromTable(path, enriched, s)
	if err != nil {
		return nil, err
	}
	if data.Len() == 0 {
		return nil, &LoadError{Kind: EmptyDataset, Path: path}
	}

	return &Snapshot{
		Path:     path,
		Table:    enriched,
		Data:     data,
		Warnings: warnings,
		LoadedAt: time.Now(),
	}, nil
}

type cacheEntry struct {
	modTime  time.Time
	size     int64
	snapshot *Snapshot
}

// Cache memoizes snapshots by path. An entry is reused while the file's
// modification time and size are unchanged. Failed loads are not cached.
type Cache struct {
	schema Schema

	mu      sync.Mutex
	entries map[string]cacheEntry
	loads   int
}

// NewCache returns an empty cache validating against s.
func NewCache(s Schema) *Cache {
	return &Cache{schema: s, entries: make(map[string]cacheEntry)}
}

// Get returns the snapshot for path, loading it on first use or after the
// file changed.
func (c *Cache) Get(path string) (*Snapshot, error) {
	info, err := os.Stat(path)
	if err != nil {
		c.Invalidate(path)
		return nil, classify(path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[path]; ok && e.modTime.Equal(info.ModTime()) && e.size == info.Size() {
		return e.snapshot, nil
	}

	table, err := Load(path)
	if err != nil {
		return nil, err
	}
	c.loads++

	snap, err := Prepare(path, table, c.schema)
	if err != nil {
		return nil, err
	}

	c.entries[path] = cacheEntry{modTime: info.ModTime(), size: info.Size(), snapshot: snap}
	return snap, nil
}

// Invalidate drops the entry for path.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// Loads returns how many times a file was read from disk.
func (c *Cache) Loads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loads
}
