// Package vectordb is the opaque vector-database boundary: the pipeline
// only needs to scroll/fetch points, set payload (tags), and delete them.
// Running an actual Qdrant (or any other) server is out of scope; this
// package defines the contract and ships an in-memory double good enough
// for tests and dry-run development.
package vectordb

import (
	"context"

	"github.com/google/uuid"
)

// Point is one vector-DB record as read back by Scroll.
type Point struct {
	ID     uuid.UUID
	Vector []float32
	Text   *TextPayload
	Height int
	Width  int
	Size   *int64
	Categories []string
	FilePath   string
}

// TextPayload mirrors pointstore.TextEmbedding without importing it, so
// this package stays independent of the store's internal representation.
type TextPayload struct {
	Text   string
	Vector []float32
}

// SetPayload is one keep-side mutation: replace id's categories.
type SetPayload struct {
	ID         uuid.UUID
	Categories []string
}

// Client is the minimal vector-DB surface the mutation emitter and the
// ingestion stage need.
type Client interface {
	// Scroll streams every point in the collection to fn, stopping early
	// if fn returns false.
	Scroll(ctx context.Context, fn func(Point) bool) error
	// SetPayload applies category updates to existing points.
	SetPayload(ctx context.Context, updates []SetPayload) error
	// Delete removes points by ID.
	Delete(ctx context.Context, ids []uuid.UUID) error
}
