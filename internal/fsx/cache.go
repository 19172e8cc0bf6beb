// Package fsx implements the virtual file layer the transaction layer reads
// and writes through: a memoizing FileCache and an atomic tempfile+rename
// writer (spec.md §4.6).
package fsx

import (
	"io/fs"
	"os"
	"sync"
)

// FileCache memoizes path -> (content, stat) within a single transaction.
// Reading a missing file returns ok=false, distinguishing "absent" from
// "present but empty". The cache does not write; after writing a path, the
// caller drops its stale entry with Invalidate.
type FileCache struct {
	mu      sync.Mutex
	content map[string][]byte
	absent  map[string]bool
	stat    map[string]fs.FileInfo
}

// NewFileCache creates an empty cache.
func NewFileCache() *FileCache {
	return &FileCache{
		content: make(map[string][]byte),
		absent:  make(map[string]bool),
		stat:    make(map[string]fs.FileInfo),
	}
}

// Read returns the content of path, reading through to disk on first
// access and caching the result (including a cached "absent" for a missing
// file) for the remainder of the transaction.
func (c *FileCache) Read(path string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.absent[path] {
		return nil, false, nil
	}
	if data, ok := c.content[path]; ok {
		return data, true, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			c.absent[path] = true
			return nil, false, nil
		}
		return nil, false, err
	}
	c.content[path] = data
	return data, true, nil
}

// Stat returns the on-disk FileInfo for path, caching it for the
// transaction's lifetime.
func (c *FileCache) Stat(path string) (fs.FileInfo, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.absent[path] {
		return nil, false, nil
	}
	if st, ok := c.stat[path]; ok {
		return st, true, nil
	}

	st, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			c.absent[path] = true
			return nil, false, nil
		}
		return nil, false, err
	}
	c.stat[path] = st
	return st, true, nil
}

// Invalidate drops path from the cache, forcing the next Read/Stat to hit
// disk again. Called after a write to that path commits.
func (c *FileCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.content, path)
	delete(c.stat, path)
	delete(c.absent, path)
}
