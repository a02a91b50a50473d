// Package annindex wraps an approximate nearest-neighbor graph over either
// CLIP/text embedding vectors or packed perceptual-hash byte vectors,
// behind a single generic Index type parameterized by a similarity metric.
//
// The graph construction here is the same simplified "connect to the M
// nearest already-inserted points" scheme used throughout the retrieved
// example code rather than a full multi-layer HNSW traversal: it is
// adequate at the corpus sizes this pipeline runs over (tens of thousands
// of points per run, not billions), and keeps the package's only
// dependency on an external ANN library limited to the similarity kernel
// itself (internal/simkernel), not a whole graph-search engine.
package annindex

import (
	"os"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// DistanceFunc computes a similarity score for two vectors of type T: higher
// is more similar. Cosine similarity and 1-(hamming/bits) both fit this
// shape, which is what lets Index stay a single generic type instead of one
// per metric.
type DistanceFunc[T any] func(a, b T) (float32, error)

// Result is one hit returned by Search.
type Result struct {
	ID    uuid.UUID
	Score float32
}

const (
	modeInsert int32 = iota
	modeSearch
)

// Index is an insert-then-search vector index: it accepts inserts until
// the first Search call, at which point it flips irreversibly into search
// mode (mirroring the reference wrapper's one-way AtomicBool mode flag).
type Index[T any] struct {
	cfg      Config
	distance DistanceFunc[T]

	mu        sync.RWMutex
	mode      atomic.Int32
	ids       []uuid.UUID
	vectors   []T
	deleted   map[int]bool
	neighbors map[int][]int
}

// New constructs an empty Index using distance as its similarity metric.
func New[T any](cfg Config, distance DistanceFunc[T]) *Index[T] {
	return &Index[T]{
		cfg:       cfg,
		distance:  distance,
		deleted:   make(map[int]bool),
		neighbors: make(map[int][]int),
	}
}

func (ix *Index[T]) inSearchMode() bool {
	return ix.mode.Load() == modeSearch
}

// Insert adds id/vec to the graph. Returns ErrModeLocked once the index has
// entered search mode.
func (ix *Index[T]) Insert(id uuid.UUID, vec T) error {
	if ix.inSearchMode() {
		return &ErrModeLocked{}
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()

	newIdx := len(ix.ids)
	ix.ids = append(ix.ids, id)
	ix.vectors = append(ix.vectors, vec)

	if newIdx > 0 {
		type cand struct {
			idx   int
			score float32
		}
		candidates := make([]cand, 0, newIdx)
		for i := 0; i < newIdx; i++ {
			if ix.deleted[i] {
				continue
			}
			score, err := ix.distance(vec, ix.vectors[i])
			if err != nil {
				return err
			}
			candidates = append(candidates, cand{idx: i, score: score})
		}
		sort.Slice(candidates, func(a, b int) bool { return candidates[a].score > candidates[b].score })

		limit := ix.cfg.M
		if limit > len(candidates) {
			limit = len(candidates)
		}
		neighbors := make([]int, 0, limit)
		for i := 0; i < limit; i++ {
			c := candidates[i]
			neighbors = append(neighbors, c.idx)
			ix.neighbors[c.idx] = append(ix.neighbors[c.idx], newIdx)
		}
		ix.neighbors[newIdx] = neighbors
	}
	return nil
}

// Extend bulk-inserts points in order.
func (ix *Index[T]) Extend(ids []uuid.UUID, vecs []T) error {
	for i, id := range ids {
		if err := ix.Insert(id, vecs[i]); err != nil {
			return err
		}
	}
	return nil
}

// Remove marks id as deleted; its slot is not reclaimed, matching the
// reference implementation's tombstone-and-skip approach (HNSW graphs do
// not support true node deletion without a full rebuild).
func (ix *Index[T]) Remove(id uuid.UUID) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for i, existing := range ix.ids {
		if existing == id && !ix.deleted[i] {
			ix.deleted[i] = true
			return true
		}
	}
	return false
}

// Search flips the index into search mode (if not already) and returns the
// k highest-scoring, non-deleted points, filtered to score >= threshold.
func (ix *Index[T]) Search(query T, k int, threshold float32) ([]Result, error) {
	ix.mode.Store(modeSearch)

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	type cand struct {
		idx   int
		score float32
	}
	candidates := make([]cand, 0, len(ix.ids))
	for i, vec := range ix.vectors {
		if ix.deleted[i] {
			continue
		}
		score, err := ix.distance(query, vec)
		if err != nil {
			return nil, err
		}
		if score < threshold {
			continue
		}
		candidates = append(candidates, cand{idx: i, score: score})
	}
	sort.Slice(candidates, func(a, b int) bool { return candidates[a].score > candidates[b].score })

	if k > 0 && len(candidates) > k {
		candidates = candidates[:k]
	}
	results := make([]Result, len(candidates))
	for i, c := range candidates {
		results[i] = Result{ID: ix.ids[c.idx], Score: c.score}
	}
	return results, nil
}

// Len returns the number of non-deleted points.
func (ix *Index[T]) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	n := 0
	for i := range ix.ids {
		if !ix.deleted[i] {
			n++
		}
	}
	return n
}

type persistedGraph struct {
	IDs       []uuid.UUID    `cbor:"ids"`
	Deleted   map[int]bool   `cbor:"deleted"`
	Neighbors map[int][]int  `cbor:"neighbors"`
	Cfg       Config         `cbor:"cfg"`
}

type persistedData[T any] struct {
	Vectors []T `cbor:"vectors"`
}

// Save persists the index to basePath+".hnsw.data" and basePath+".hnsw.graph".
func (ix *Index[T]) Save(basePath string) error {
	ix.mu.RLock()
	graph := persistedGraph{
		IDs:       append([]uuid.UUID(nil), ix.ids...),
		Deleted:   ix.deleted,
		Neighbors: ix.neighbors,
		Cfg:       ix.cfg,
	}
	data := persistedData[T]{Vectors: append([]T(nil), ix.vectors...)}
	ix.mu.RUnlock()

	graphBytes, err := cbor.Marshal(graph)
	if err != nil {
		return err
	}
	dataBytes, err := cbor.Marshal(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(basePath+".hnsw.graph", graphBytes, 0o644); err != nil {
		return err
	}
	return os.WriteFile(basePath+".hnsw.data", dataBytes, 0o644)
}

// Load resumes an index from basePath+".hnsw.data"/".hnsw.graph", flipping
// it straight into search mode (a loaded graph is read-only).
func Load[T any](basePath string, distance DistanceFunc[T]) (*Index[T], error) {
	graphPath := basePath + ".hnsw.graph"
	dataPath := basePath + ".hnsw.data"

	graphExists := fileExists(graphPath)
	dataExists := fileExists(dataPath)
	if graphExists != dataExists {
		missing := dataPath
		if dataExists {
			missing = graphPath
		}
		return nil, &ErrPathIncomplete{Missing: missing}
	}
	if !graphExists {
		return nil, &ErrPathIncomplete{Missing: graphPath + " and " + dataPath}
	}

	graphBytes, err := os.ReadFile(graphPath)
	if err != nil {
		return nil, err
	}
	dataBytes, err := os.ReadFile(dataPath)
	if err != nil {
		return nil, err
	}

	var graph persistedGraph
	if err := cbor.Unmarshal(graphBytes, &graph); err != nil {
		return nil, err
	}
	var data persistedData[T]
	if err := cbor.Unmarshal(dataBytes, &data); err != nil {
		return nil, err
	}

	ix := New(graph.Cfg, distance)
	ix.ids = graph.IDs
	ix.deleted = graph.Deleted
	ix.neighbors = graph.Neighbors
	ix.vectors = data.Vectors
	ix.mode.Store(modeSearch)
	return ix, nil
}

// Exists reports whether a resumable persisted index is present at basePath.
func Exists(basePath string) bool {
	return fileExists(basePath+".hnsw.data") && fileExists(basePath+".hnsw.graph")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
