package gifrefine

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/NekoImageLand/nekodedup/internal/clipembed"
)

// MeanEmbeddingResult pairs a clip candidate's identity/size with its
// L2-normalized mean frame embedding.
type MeanEmbeddingResult struct {
	ID     uuid.UUID
	Path   string
	Size   int64
	Vector []float32
}

// ComputeMeanEmbeddings implements Stage C: every clip candidate's anchor
// frames are embedded in batches of clipembed.BatchSize, and each GIF's
// final vector is the L2-normalized mean of its own frames' embeddings.
func ComputeMeanEmbeddings(ctx context.Context, client clipembed.Client, candidates []ClipCandidate) ([]MeanEmbeddingResult, error) {
	type frameRef struct {
		candidateIdx int
		frameIdx     int
	}

	var allFrames [][]byte
	var refs []frameRef
	for ci, c := range candidates {
		for fi, frame := range c.Frames {
			allFrames = append(allFrames, frame)
			refs = append(refs, frameRef{candidateIdx: ci, frameIdx: fi})
		}
	}

	perCandidate := make([][][]float32, len(candidates))
	for i := range candidates {
		perCandidate[i] = make([][]float32, len(candidates[i].Frames))
	}

	for start := 0; start < len(allFrames); start += clipembed.BatchSize {
		end := start + clipembed.BatchSize
		if end > len(allFrames) {
			end = len(allFrames)
		}
		embeddings, err := client.EmbedImages(ctx, allFrames[start:end])
		if err != nil {
			return nil, fmt.Errorf("gifrefine: embedding batch [%d:%d]: %w", start, end, err)
		}
		if len(embeddings) != end-start {
			return nil, fmt.Errorf("gifrefine: embedder returned %d vectors for %d frames", len(embeddings), end-start)
		}
		for i, vec := range embeddings {
			ref := refs[start+i]
			perCandidate[ref.candidateIdx][ref.frameIdx] = vec
		}
	}

	results := make([]MeanEmbeddingResult, len(candidates))
	for i, c := range candidates {
		results[i] = MeanEmbeddingResult{
			ID:     c.ID,
			Path:   c.Path,
			Size:   c.Size,
			Vector: meanNormalize(perCandidate[i]),
		}
	}
	return results, nil
}

func meanNormalize(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	dim := len(vectors[0])
	mean := make([]float32, dim)
	for _, v := range vectors {
		for i, x := range v {
			mean[i] += x
		}
	}
	for i := range mean {
		mean[i] /= float32(len(vectors))
	}

	var normSq float64
	for _, x := range mean {
		normSq += float64(x) * float64(x)
	}
	norm := float32(math.Sqrt(normSq))
	if norm == 0 {
		return mean
	}
	for i := range mean {
		mean[i] /= norm
	}
	return mean
}
