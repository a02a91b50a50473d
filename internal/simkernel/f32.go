package simkernel

import (
	"math"
	"math/bits"

	"github.com/viterin/vek/vek32"
)

// cosineF32 computes (a·b) / (||a||·||b||) using vek's SIMD-accelerated dot
// product when the platform supports it, falling back to its own scalar
// loop transparently. Identical vectors give exactly 1.0 only via the pure
// scalar path (scalarCosineF32); the vek path may overshoot to 1.0+epsilon
// due to a different accumulation order, which the pipeline's tolerance
// (1e-3 at D=768) absorbs.
func cosineF32(a, b []float32) float32 {
	dot := vek32.Dot(a, b)
	na := vek32.Dot(a, a)
	nb := vek32.Dot(b, b)
	return dot / (float32(math.Sqrt(float64(na))) * float32(math.Sqrt(float64(nb))))
}

// scalarCosineF32 is the pure-Go reference path, used by tests to bound the
// divergence between it and the vek-backed path.
func scalarCosineF32(a, b []float32) float32 {
	var dot, na, nb float32
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	return dot / (float32(math.Sqrt(float64(na))) * float32(math.Sqrt(float64(nb))))
}

func hammingBytes(a, b []byte) uint32 {
	var total uint32
	for i := range a {
		total += uint32(bits.OnesCount8(a[i] ^ b[i]))
	}
	return total
}
