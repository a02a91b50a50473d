package pointstore

import (
	"strings"

	"github.com/google/uuid"
)

// TextEmbedding holds an OCR/caption text and its 768-dim embedding vector.
type TextEmbedding struct {
	Text   string    `cbor:"text"`
	Vector []float32 `cbor:"vector"`
}

// PointMetadata is the read-only side table entry for a point: its pixel
// dimensions, optional byte size, optional categories, and optional text
// embedding.
type PointMetadata struct {
	ID         uuid.UUID      `cbor:"id"`
	Height     int            `cbor:"height"`
	Width      int            `cbor:"width"`
	Size       *int64         `cbor:"size,omitempty"`
	Categories []string       `cbor:"categories,omitempty"`
	Text       *TextEmbedding `cbor:"text,omitempty"`
}

// PointExt is the extended-metadata side table entry: the object-store file
// path (and, for locally-staged data, either a local path or an in-memory
// blob) that ext() is derived from.
type PointExt struct {
	FilePath string `cbor:"file_path"`

	// Source mirrors the reference Rust enum (local path | blob bytes); at
	// most one is ever set. Both are optional because most entries only
	// ever need FilePath.
	LocalPath string `cbor:"local_path,omitempty"`
	Blob      []byte `cbor:"blob,omitempty"`
}

// Ext returns the substring after the last '.' in FilePath, or "" if there
// is none.
func (p *PointExt) Ext() string {
	idx := strings.LastIndexByte(p.FilePath, '.')
	if idx < 0 || idx == len(p.FilePath)-1 {
		return ""
	}
	return p.FilePath[idx+1:]
}
