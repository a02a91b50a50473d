package gifrefine

// Config controls the GIF refinement pipeline's frame-extraction and
// reclustering behavior.
type Config struct {
	// ExtractHW is the square side CLIP expects extracted frames resized
	// to (typically 224 or 256).
	ExtractHW int
	// StaticHashDistance is the gradient-hash Hamming distance below which
	// two frames are considered visually identical for the static-GIF
	// filter (Stage A). Spec default: 5.
	StaticHashDistance int
	// PermissiveFrames, when true, accepts GIFs with fewer than 5 frames
	// by using every frame instead of the five fixed anchors (Stage B).
	// When false (strict, the default), a sub-5-frame GIF is routed to
	// discard-as-poor-frames instead — unless no candidate in its pair
	// reached Stage C, in which case the GIF worker's control reversal
	// keeps only the smallest poor-frames GIF as a discard and retries the
	// rest in permissive mode.
	PermissiveFrames bool
	// Tau is the clique-threshold similarity cutoff used for Stage D's
	// intra-pair reclustering of mean GIF embeddings. Spec default: 0.985.
	Tau float32
}

// DefaultConfig returns the reference GIF refinement parameters.
func DefaultConfig() Config {
	return Config{
		ExtractHW:          224,
		StaticHashDistance: 5,
		PermissiveFrames:   false,
		Tau:                0.985,
	}
}
