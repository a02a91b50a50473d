// Package objectstore is the opaque object-store boundary: the pipeline
// only needs to fetch, list, copy, and delete blobs by path. Standing up a
// real S3-compatible backend is out of scope; this package defines the
// contract, a retry/concurrency-bounding wrapper, a local fetch cache, and
// an in-memory double good enough for tests and dry-run development.
package objectstore

import "context"

// Entry is one object-store listing result.
type Entry struct {
	Path  string
	Size  int64
	IsDir bool
}

// Client is the minimal object-store surface the GIF refinement and
// mutation stages need.
type Client interface {
	// Get fetches the full contents of path.
	Get(ctx context.Context, path string) ([]byte, error)
	// List enumerates every entry whose path starts with prefix, nested
	// paths included.
	List(ctx context.Context, prefix string) ([]Entry, error)
	// Copy duplicates src to dst within the same store.
	Copy(ctx context.Context, src, dst string) error
	// Delete removes path.
	Delete(ctx context.Context, path string) error
}
