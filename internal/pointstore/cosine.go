package pointstore

import (
	"github.com/google/uuid"

	"github.com/NekoImageLand/nekodedup/internal/simkernel"
)

// GetCosineSim computes the cosine similarity between the vectors stored
// for a and b. It is a free function rather than a Store method because Go
// cannot express "this method only exists when T satisfies Cosine" the way
// the reference implementation's trait bound does; instead it takes the
// concrete *Store[float32], and GetCosineSimBF16 covers bf16 stores.
func GetCosineSim(s *Store[float32], a, b uuid.UUID) (float32, error) {
	va, ok := s.GetVector(a)
	if !ok {
		return 0, &ErrPointNotFound{ID: a}
	}
	vb, ok := s.GetVector(b)
	if !ok {
		return 0, &ErrPointNotFound{ID: b}
	}
	return simkernel.Float32(va, vb)
}

// GetCosineSimBF16 is GetCosineSim's counterpart for bfloat16-backed stores.
func GetCosineSimBF16(s *Store[simkernel.BF16], a, b uuid.UUID) (float32, error) {
	va, ok := s.GetVector(a)
	if !ok {
		return 0, &ErrPointNotFound{ID: a}
	}
	vb, ok := s.GetVector(b)
	if !ok {
		return 0, &ErrPointNotFound{ID: b}
	}
	return simkernel.BFloat16(va, vb)
}
