// Package clipembed is the opaque CLIP/OCR embedding client boundary: the
// pipeline only needs something that turns image bytes (or OCR text) into
// 768-dim vectors, and never cares whether that's a local model server or
// a remote inference endpoint. Running the CLIP model itself is out of
// scope for this system; this package only talks to it over HTTP, the same
// way an Embedder client talks to Ollama/OpenAI.
package clipembed

import "context"

// Client embeds images and OCR text into fixed-dimension vectors.
type Client interface {
	// EmbedImages returns one embedding per input image, in the same order.
	EmbedImages(ctx context.Context, images [][]byte) ([][]float32, error)
	// EmbedText returns one embedding per input string, in the same order.
	EmbedText(ctx context.Context, texts []string) ([][]float32, error)
	// Dimensions returns the embedding vector length this client produces.
	Dimensions() int
}

// BatchSize is the default batch boundary for frame-batch GIF embedding
// (stage C of the GIF refinement pipeline).
const BatchSize = 32
