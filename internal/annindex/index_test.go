package annindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_InsertAndSearch(t *testing.T) {
	ix := NewFloat32(DefaultConfig(2))
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	require.NoError(t, ix.Insert(a, []float32{1, 0}))
	require.NoError(t, ix.Insert(b, []float32{0, 1}))
	require.NoError(t, ix.Insert(c, []float32{0.9, 0.1}))

	results, err := ix.Search([]float32{1, 0}, 2, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, a, results[0].ID)
}

func TestIndex_SearchLocksInserts(t *testing.T) {
	ix := NewFloat32(DefaultConfig(2))
	require.NoError(t, ix.Insert(uuid.New(), []float32{1, 0}))

	_, err := ix.Search([]float32{1, 0}, 1, 0)
	require.NoError(t, err)

	err = ix.Insert(uuid.New(), []float32{0, 1})
	require.Error(t, err)
	var locked *ErrModeLocked
	assert.ErrorAs(t, err, &locked)
}

func TestIndex_ThresholdFiltersResults(t *testing.T) {
	ix := NewFloat32(DefaultConfig(2))
	require.NoError(t, ix.Insert(uuid.New(), []float32{1, 0}))
	require.NoError(t, ix.Insert(uuid.New(), []float32{-1, 0}))

	results, err := ix.Search([]float32{1, 0}, 10, 0.5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
}

func TestIndex_RemoveExcludesFromSearch(t *testing.T) {
	ix := NewFloat32(DefaultConfig(2))
	a := uuid.New()
	require.NoError(t, ix.Insert(a, []float32{1, 0}))
	require.NoError(t, ix.Insert(uuid.New(), []float32{0.99, 0.01}))

	assert.True(t, ix.Remove(a))
	results, err := ix.Search([]float32{1, 0}, 10, 0)
	require.NoError(t, err)
	for _, r := range results {
		assert.NotEqual(t, a, r.ID)
	}
}

func TestIndex_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "idx")

	ix := NewFloat32(DefaultConfig(2))
	a := uuid.New()
	require.NoError(t, ix.Insert(a, []float32{1, 0}))
	require.NoError(t, ix.Save(base))

	assert.True(t, Exists(base))

	loaded, err := LoadFloat32(base)
	require.NoError(t, err)
	results, err := loaded.Search([]float32{1, 0}, 1, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, a, results[0].ID)
}

func TestIndex_LoadIncompletePair(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "idx")

	ix := NewFloat32(DefaultConfig(2))
	require.NoError(t, ix.Insert(uuid.New(), []float32{1, 0}))
	require.NoError(t, ix.Save(base))

	require.NoError(t, os.Remove(base+".hnsw.graph"))
	_, err := LoadFloat32(base)
	require.Error(t, err)
	var incomplete *ErrPathIncomplete
	assert.ErrorAs(t, err, &incomplete)
}

func TestHammingIndex_SearchByBitDistance(t *testing.T) {
	ix := NewHamming(DefaultConfig(1))
	a, b := uuid.New(), uuid.New()
	require.NoError(t, ix.Insert(a, []byte{0x00}))
	require.NoError(t, ix.Insert(b, []byte{0xFF}))

	results, err := ix.Search([]byte{0x00}, 2, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, a, results[0].ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
}
