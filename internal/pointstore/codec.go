package pointstore

import (
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// persistedVectors is the on-disk shape of a Store's vector data: enough to
// rebuild ids/vectors/indexOf without needing the generic element type at
// decode time beyond the raw bytes CBOR already carries per-element.
type persistedVectors[T VectorElem] struct {
	Dim     int         `cbor:"dim"`
	IDs     []uuid.UUID `cbor:"ids"`
	Vectors [][]T       `cbor:"vectors"`
}

// Save writes the store's vector data to path as CBOR. Metadata and ext
// side tables are saved separately via SaveMetadata/SaveExt, mirroring the
// reference implementation's separate bincode/pickle files.
func (s *Store[T]) Save(path string) error {
	s.mu.RLock()
	payload := persistedVectors[T]{
		Dim:     s.dim,
		IDs:     append([]uuid.UUID(nil), s.ids...),
		Vectors: append([][]T(nil), s.vectors...),
	}
	s.mu.RUnlock()

	data, err := cbor.Marshal(payload)
	if err != nil {
		return &ErrSerde{Op: "marshal vectors", Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &ErrSerde{Op: "write vectors", Err: err}
	}
	return nil
}

// Load replaces the store's contents with what is persisted at path.
func (s *Store[T]) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ErrPathNotFound{Path: path}
		}
		return &ErrSerde{Op: "read vectors", Err: err}
	}

	var payload persistedVectors[T]
	if err := cbor.Unmarshal(data, &payload); err != nil {
		return &ErrSerde{Op: "unmarshal vectors", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dim = payload.Dim
	s.ids = payload.IDs
	s.vectors = payload.Vectors
	s.indexOf = make(map[uint64][]int, len(s.ids))
	for i, id := range s.ids {
		key := bucketKey(id)
		s.indexOf[key] = append(s.indexOf[key], i)
	}
	return nil
}

// SaveMetadata writes the metadata side table to path as CBOR.
func (s *Store[T]) SaveMetadata(path string) error {
	s.mu.RLock()
	m := make(map[uuid.UUID]*PointMetadata, len(s.metadata))
	for k, v := range s.metadata {
		m[k] = v
	}
	s.mu.RUnlock()

	data, err := cbor.Marshal(m)
	if err != nil {
		return &ErrSerde{Op: "marshal metadata", Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &ErrSerde{Op: "write metadata", Err: err}
	}
	return nil
}

// LoadMetadata replaces the store's metadata side table with what is
// persisted at path.
func (s *Store[T]) LoadMetadata(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ErrPathNotFound{Path: path}
		}
		return &ErrSerde{Op: "read metadata", Err: err}
	}
	var m map[uuid.UUID]*PointMetadata
	if err := cbor.Unmarshal(data, &m); err != nil {
		return &ErrSerde{Op: "unmarshal metadata", Err: err}
	}
	s.mu.Lock()
	s.metadata = m
	s.metadataPath = path
	s.mu.Unlock()
	return nil
}

// GetMetadata returns the metadata entry for id, if any.
func (s *Store[T]) GetMetadata(id uuid.UUID) (*PointMetadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.metadata[id]
	return m, ok
}

// SetMetadata sets the metadata entry for id.
func (s *Store[T]) SetMetadata(id uuid.UUID, m *PointMetadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.metadata == nil {
		s.metadata = make(map[uuid.UUID]*PointMetadata)
	}
	s.metadata[id] = m
}

// SaveExt writes the ext side table to path as CBOR.
func (s *Store[T]) SaveExt(path string) error {
	s.mu.RLock()
	m := make(map[uuid.UUID]*PointExt, len(s.ext))
	for k, v := range s.ext {
		m[k] = v
	}
	s.mu.RUnlock()

	data, err := cbor.Marshal(m)
	if err != nil {
		return &ErrSerde{Op: "marshal ext", Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &ErrSerde{Op: "write ext", Err: err}
	}
	return nil
}

// LoadExt replaces the store's ext side table with what is persisted at
// path.
func (s *Store[T]) LoadExt(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ErrPathNotFound{Path: path}
		}
		return &ErrSerde{Op: "read ext", Err: err}
	}
	var m map[uuid.UUID]*PointExt
	if err := cbor.Unmarshal(data, &m); err != nil {
		return &ErrSerde{Op: "unmarshal ext", Err: err}
	}
	s.mu.Lock()
	s.ext = m
	s.extPath = path
	s.mu.Unlock()
	return nil
}

// GetExt returns the ext entry for id, if any.
func (s *Store[T]) GetExt(id uuid.UUID) (*PointExt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.ext[id]
	return e, ok
}

// SetExt sets the ext entry for id.
func (s *Store[T]) SetExt(id uuid.UUID, e *PointExt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ext == nil {
		s.ext = make(map[uuid.UUID]*PointExt)
	}
	s.ext[id] = e
}
