package objectstore

import (
	"context"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
)

// LocalCache wraps a Client with a badger-backed byte cache keyed by path,
// so repeated fetches of the same object (a shared GIF frame across several
// clusters, a re-read during retry) skip the round trip entirely.
type LocalCache struct {
	inner Client
	db    *badger.DB
}

// NewLocalCache opens (or creates) a badger database at dir and wraps inner.
func NewLocalCache(inner Client, dir string) (*LocalCache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("objectstore: opening cache: %w", err)
	}
	return &LocalCache{inner: inner, db: db}, nil
}

// NewInMemoryLocalCache opens an in-memory badger database, for tests.
func NewInMemoryLocalCache(inner Client) (*LocalCache, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("objectstore: opening in-memory cache: %w", err)
	}
	return &LocalCache{inner: inner, db: db}, nil
}

// Close releases the underlying badger database.
func (c *LocalCache) Close() error {
	return c.db.Close()
}

func (c *LocalCache) lookup(path string) ([]byte, bool) {
	var out []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(path))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			out = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, false
	}
	return out, true
}

func (c *LocalCache) store(path string, data []byte) {
	_ = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(path), data)
	})
}

// Get returns the cached bytes for path if present, otherwise fetches via
// inner and populates the cache.
func (c *LocalCache) Get(ctx context.Context, path string) ([]byte, error) {
	if data, ok := c.lookup(path); ok {
		return data, nil
	}
	data, err := c.inner.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	c.store(path, data)
	return data, nil
}

// List always delegates: listings are not cached since freshness matters
// more than hit rate for directory enumeration.
func (c *LocalCache) List(ctx context.Context, prefix string) ([]Entry, error) {
	return c.inner.List(ctx, prefix)
}

// Copy delegates and invalidates any cached entry at dst.
func (c *LocalCache) Copy(ctx context.Context, src, dst string) error {
	if err := c.inner.Copy(ctx, src, dst); err != nil {
		return err
	}
	_ = c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(dst))
	})
	return nil
}

// Delete delegates and evicts any cached entry.
func (c *LocalCache) Delete(ctx context.Context, path string) error {
	if err := c.inner.Delete(ctx, path); err != nil {
		return err
	}
	_ = c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(path))
	})
	return nil
}
