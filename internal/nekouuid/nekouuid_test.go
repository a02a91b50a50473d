package nekouuid

import (
	"crypto/sha1" //nolint:gosec
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_GoldenValue(t *testing.T) {
	got := Generate([]byte("qwq"))
	assert.Equal(t, "6c439572-44ed-5ba9-a6fb-627b06406c73", got.String())
}

func TestGenerateFromSHA1_MatchesGenerate(t *testing.T) {
	digest := sha1.Sum([]byte("qwq")) //nolint:gosec
	got := GenerateFromSHA1(digest)
	assert.Equal(t, Generate([]byte("qwq")), got)
}

func TestGenerate_Stable(t *testing.T) {
	a := Generate([]byte("hello world"))
	b := Generate([]byte("hello world"))
	assert.Equal(t, a, b)
}

func TestGenerate_DifferentInputsDiffer(t *testing.T) {
	a := Generate([]byte("a"))
	b := Generate([]byte("b"))
	assert.NotEqual(t, a, b)
}

func TestNew_ProducesRandomV4(t *testing.T) {
	a := New()
	b := New()
	assert.NotEqual(t, a, b)
	assert.Equal(t, byte(4), a.Version())
}
