package annindex

import "github.com/NekoImageLand/nekodedup/internal/simkernel"

// NewFloat32 constructs an Index over 32-bit float vectors using cosine
// similarity, for CLIP/text embeddings.
func NewFloat32(cfg Config) *Index[[]float32] {
	return New[[]float32](cfg, func(a, b []float32) (float32, error) {
		return simkernel.Float32(a, b)
	})
}

// NewHamming constructs an Index over packed perceptual-hash byte vectors,
// scoring by 1-(hamming distance / total bits) so that, like cosine
// similarity, higher is more similar.
func NewHamming(cfg Config) *Index[[]byte] {
	totalBits := float32(cfg.Dim * 8)
	return New[[]byte](cfg, func(a, b []byte) (float32, error) {
		dist, err := simkernel.Hamming(a, b)
		if err != nil {
			return 0, err
		}
		return 1 - float32(dist)/totalBits, nil
	})
}

// LoadFloat32 resumes a cosine-similarity index persisted by Save.
func LoadFloat32(basePath string) (*Index[[]float32], error) {
	return Load[[]float32](basePath, func(a, b []float32) (float32, error) {
		return simkernel.Float32(a, b)
	})
}

// LoadHamming resumes a Hamming-distance index persisted by Save.
func LoadHamming(basePath string, dim int) (*Index[[]byte], error) {
	totalBits := float32(dim * 8)
	return Load[[]byte](basePath, func(a, b []byte) (float32, error) {
		dist, err := simkernel.Hamming(a, b)
		if err != nil {
			return 0, err
		}
		return 1 - float32(dist)/totalBits, nil
	})
}
