package cache

import (
	"errors"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"
)

// DefaultStorePath is the cache database created next to the scan root.
const DefaultStorePath = ".findcomments.cache"

var bucketFiles = []byte("files")

// Store persists the cache as a bolt database with msgpack-encoded
// entries keyed by absolute file path. Every failure degrades to "no
// cache": scanning proceeds uncached and the run is never aborted.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	if path == "" {
		path = DefaultStorePath
	}
	return &Store{path: path}
}

// Load reads every persisted entry into c. A missing database is an
// empty cache, not an error.
func (s *Store) Load(c *Cache) error {
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	db, err := bolt.Open(s.path, 0o600, &bolt.Options{
		ReadOnly: true,
		Timeout:  time.Second,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	entries := make(map[string]Entry)
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketFiles)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var e Entry
			if decErr := msgpack.Unmarshal(v, &e); decErr != nil {
				// A corrupt entry invalidates itself; the rest stay usable.
				return nil
			}
			entries[string(k)] = e
			return nil
		})
	})
	if err != nil {
		return err
	}
	c.replace(entries)
	return nil
}

// Save writes the cache back when at least one entry changed.
func (s *Store) Save(c *Cache) error {
	if !c.Dirty() {
		return nil
	}
	db, err := bolt.Open(s.path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return err
	}
	defer db.Close()

	entries := c.snapshot()
	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketFiles)
		if err != nil {
			return err
		}
		for path, e := range entries {
			data, err := msgpack.Marshal(e)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(path), data); err != nil {
				return err
			}
		}
		return nil
	})
}
