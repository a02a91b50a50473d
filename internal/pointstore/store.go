// Package pointstore implements PointExplorer: the fixed-dimension,
// insertion-ordered vector store at the heart of the dedup pipeline.
//
// A Store owns its vector storage outright — a slice of IDs in insertion
// order plus a parallel slice of vectors, with an xxhash-bucketed index for
// O(1) amortized ID lookup (the "parallel array of keys plus a key→index
// hash" design called for when a leaked/'static-upgraded reference isn't an
// option, per the Design Notes: a Rust FFI-lifetime trick has no clean Go
// analog, so this is an arena+index design instead). There are no
// per-dimension constructors: every Store carries its dimension as a runtime
// value fixed at construction, and Insert/Extend reject vectors of any other
// length.
package pointstore

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// VectorElem is the set of element types a Store may hold: 32-bit floats
// for CLIP/text embeddings, brain-floats for compact storage, or raw bytes
// for packed perceptual hashes.
type VectorElem interface {
	~float32 | ~uint8 | ~uint16
}

// Store is a generic (T, D)-typed insertion-ordered map from UUID to a
// fixed-length vector, with optional side tables for metadata and
// extensions and an optional named URI-prefix map.
type Store[T VectorElem] struct {
	mu  sync.RWMutex
	dim int

	ids     []uuid.UUID
	vectors [][]T
	indexOf map[uint64][]int // xxhash64(id bytes) -> candidate positions in ids

	metadata     map[uuid.UUID]*PointMetadata
	metadataPath string

	ext     map[uuid.UUID]*PointExt
	extPath string

	uriPrefixes map[string]uriPrefixEntry
}

type uriPrefixEntry struct {
	IsURL bool   `cbor:"is_url"`
	Value string `cbor:"value"`
}

// New returns an empty Store fixed at dimension dim.
func New[T VectorElem](dim int) *Store[T] {
	return WithCapacity[T](dim, 0)
}

// WithCapacity pre-allocates room for capacity points.
func WithCapacity[T VectorElem](dim, capacity int) *Store[T] {
	return &Store[T]{
		dim:     dim,
		ids:     make([]uuid.UUID, 0, capacity),
		vectors: make([][]T, 0, capacity),
		indexOf: make(map[uint64][]int, capacity),
	}
}

func bucketKey(id uuid.UUID) uint64 {
	return xxhash.Sum64(id[:])
}

func (s *Store[T]) findLocked(id uuid.UUID) (int, bool) {
	for _, idx := range s.indexOf[bucketKey(id)] {
		if idx >= 0 && idx < len(s.ids) && s.ids[idx] == id {
			return idx, true
		}
	}
	return 0, false
}

// Insert replaces any prior value for id with vec, preserving first-
// insertion order (re-insertion never reorders). vec must have length Dim.
func (s *Store[T]) Insert(id uuid.UUID, vec []T) error {
	if len(vec) != s.dim {
		return &ErrDimensionMismatch{Got: len(vec), Want: s.dim}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]T, len(vec))
	copy(cp, vec)

	if idx, ok := s.findLocked(id); ok {
		s.vectors[idx] = cp
		return nil
	}

	idx := len(s.ids)
	s.ids = append(s.ids, id)
	s.vectors = append(s.vectors, cp)
	key := bucketKey(id)
	s.indexOf[key] = append(s.indexOf[key], idx)
	return nil
}

// KV is one (id, vector) pair, used by Extend.
type KV[T VectorElem] struct {
	ID  uuid.UUID
	Vec []T
}

// Extend bulk-inserts points, reserving capacity up front.
func (s *Store[T]) Extend(points []KV[T]) error {
	s.mu.Lock()
	extra := len(points)
	if cap(s.ids)-len(s.ids) < extra {
		grown := make([]uuid.UUID, len(s.ids), len(s.ids)+extra)
		copy(grown, s.ids)
		s.ids = grown
		grownVecs := make([][]T, len(s.vectors), len(s.vectors)+extra)
		copy(grownVecs, s.vectors)
		s.vectors = grownVecs
	}
	s.mu.Unlock()

	for _, p := range points {
		if err := s.Insert(p.ID, p.Vec); err != nil {
			return err
		}
	}
	return nil
}

// GetVector returns the vector stored for id, if present.
func (s *Store[T]) GetVector(id uuid.UUID) ([]T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.findLocked(id)
	if !ok {
		return nil, false
	}
	return s.vectors[idx], true
}

// Contains reports whether id has a stored vector.
func (s *Store[T]) Contains(id uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.findLocked(id)
	return ok
}

// Remove performs a shift-remove: it deletes id and shifts every later
// entry left by one, preserving the relative order of the remaining keys.
// This is an O(n) operation by design; callers doing
// bulk removal should batch via a rebuild rather than call Remove in a
// tight loop over a large store.
func (s *Store[T]) Remove(id uuid.UUID) ([]T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.findLocked(id)
	if !ok {
		return nil, false
	}

	removed := s.vectors[idx]
	s.ids = append(s.ids[:idx], s.ids[idx+1:]...)
	s.vectors = append(s.vectors[:idx], s.vectors[idx+1:]...)

	// Rebuild the index: every position at or after idx shifted down by one.
	s.indexOf = make(map[uint64][]int, len(s.ids))
	for i, id := range s.ids {
		key := bucketKey(id)
		s.indexOf[key] = append(s.indexOf[key], i)
	}
	return removed, true
}

// Clear empties the store, keeping its configured dimension.
func (s *Store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = s.ids[:0]
	s.vectors = s.vectors[:0]
	s.indexOf = make(map[uint64][]int)
}

// Len returns the number of stored points.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// IsEmpty reports whether the store has no points.
func (s *Store[T]) IsEmpty() bool {
	return s.Len() == 0
}

// Dim returns the store's fixed vector dimension.
func (s *Store[T]) Dim() int {
	return s.dim
}

// Index2UUID returns the ID at insertion-order position i.
func (s *Store[T]) Index2UUID(i int) (uuid.UUID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.ids) {
		return uuid.Nil, false
	}
	return s.ids[i], true
}

// UUID2Index returns the insertion-order position of id.
func (s *Store[T]) UUID2Index(id uuid.UUID) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(id)
}

// Iter calls fn for every (id, vector) pair in insertion order, stopping
// early if fn returns false.
func (s *Store[T]) Iter(fn func(id uuid.UUID, vec []T) bool) {
	s.mu.RLock()
	ids := make([]uuid.UUID, len(s.ids))
	copy(ids, s.ids)
	vecs := make([][]T, len(s.vectors))
	copy(vecs, s.vectors)
	s.mu.RUnlock()

	for i, id := range ids {
		if !fn(id, vecs[i]) {
			return
		}
	}
}
