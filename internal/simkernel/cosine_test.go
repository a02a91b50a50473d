package simkernel

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dim = 768
const eps = 1e-3

func TestFloat32_Identical(t *testing.T) {
	v := make([]float32, dim)
	for i := range v {
		v[i] = 1.234
	}
	sim, err := Float32(v, v)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, eps)
}

func TestFloat32_Opposite(t *testing.T) {
	a := make([]float32, dim)
	b := make([]float32, dim)
	for i := range a {
		a[i] = 0.5
		b[i] = -0.5
	}
	sim, err := Float32(a, b)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, sim, eps)
}

func TestFloat32_Orthogonal(t *testing.T) {
	a := make([]float32, dim)
	b := make([]float32, dim)
	for i := 0; i < dim; i++ {
		if i%2 == 0 {
			a[i] = 1.0
		} else {
			b[i] = 1.0
		}
	}
	sim, err := Float32(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, sim, eps)
}

func TestFloat32_LengthMismatch(t *testing.T) {
	_, err := Float32(make([]float32, 3), make([]float32, 4))
	assert.Error(t, err)
}

func TestFloat32_AgreesWithScalarReference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 10; trial++ {
		a := make([]float32, dim)
		b := make([]float32, dim)
		for i := range a {
			a[i] = rng.Float32()*2 - 1
			b[i] = rng.Float32()*2 - 1
		}
		want := scalarCosineF32(a, b)
		got, err := Float32(a, b)
		require.NoError(t, err)
		assert.InDelta(t, want, got, eps)
	}
}

func TestBFloat16_RoundTripsThroughFloat32(t *testing.T) {
	vals := []float32{0, 1, -1, 0.5, 123.25, -9999.9}
	for _, f := range vals {
		widened := FromFloat32(f).ToFloat32()
		// bf16 keeps 8 significant bits, so truncation loses less than |f|/128.
		assert.InDelta(t, f, widened, math.Abs(float64(f))/128)
	}
}

func TestBFloat16_Identical(t *testing.T) {
	a := make([]BF16, dim)
	for i := range a {
		a[i] = FromFloat32(0.75)
	}
	sim, err := BFloat16(a, a)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, eps)
}

func TestHamming_Basic(t *testing.T) {
	a := []byte{0b1111_0000, 0x00}
	b := []byte{0b0000_0000, 0xFF}
	d, err := Hamming(a, b)
	require.NoError(t, err)
	assert.Equal(t, uint32(4+8), d)
}

func TestHamming_LengthMismatch(t *testing.T) {
	_, err := Hamming([]byte{1, 2}, []byte{1})
	assert.Error(t, err)
}
