package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sync"

	"github.com/br41nfck/findcomments/internal/model"
)

// Entry pairs a content hash with the scan result at that hash.
type Entry struct {
	Hash     string             `msgpack:"hash"`
	Lines    int                `msgpack:"lines"`
	Comments []model.RawComment `msgpack:"comments"`
}

// Cache is the in-memory map scan workers consult and update. Keys are
// absolute file paths. All access goes through the mutex, which gives
// the single-writer-per-key discipline the walker relies on.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Entry
	dirty   bool
}

func New() *Cache {
	return &Cache{entries: make(map[string]Entry)}
}

// Lookup returns the cached scan result for path when the stored hash
// matches the current content hash.
func (c *Cache) Lookup(path, hash string) ([]model.RawComment, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[path]
	if !ok || e.Hash != hash {
		return nil, 0, false
	}
	return e.Comments, e.Lines, true
}

// Store records a fresh scan result and marks the cache dirty.
func (c *Cache) Store(path, hash string, lines int, comments []model.RawComment) {
	c.mu.Lock()
	c.entries[path] = Entry{Hash: hash, Lines: lines, Comments: comments}
	c.dirty = true
	c.mu.Unlock()
}

// Dirty reports whether any entry changed since load. Persistence is
// skipped entirely when nothing changed.
func (c *Cache) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) snapshot() map[string]Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]Entry, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

func (c *Cache) replace(entries map[string]Entry) {
	c.mu.Lock()
	c.entries = entries
	c.dirty = false
	c.mu.Unlock()
}

// HashFile returns the hex SHA-256 digest of the file's full content.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
