package gifrefine

import (
	"context"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NekoImageLand/nekodedup/internal/triage"
)

func writeTestGIF(t *testing.T, dir, name string, frameColors []color.Gray) string {
	t.Helper()
	const w, h = 8, 8

	g := &gif.GIF{}
	for _, c := range frameColors {
		pal := color.Palette{color.White, c}
		// Vertical stripes of c on white, with a phase that depends on c:
		// the gradient hash ignores flat colour, so frames have to differ
		// in their edges, not only in overall brightness.
		phase := int(c.Y) / 50
		img := image.NewPaletted(image.Rect(0, 0, w, h), pal)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if (x+phase)%2 == 0 {
					img.Set(x, y, c)
				} else {
					img.Set(x, y, color.White)
				}
			}
		}
		g.Image = append(g.Image, img)
		g.Delay = append(g.Delay, 10)
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, gif.EncodeAll(f, g))
	return path
}

func TestDecodeFrames_CountMatchesEncodedFrames(t *testing.T) {
	dir := t.TempDir()
	path := writeTestGIF(t, dir, "a.gif", []color.Gray{{Y: 0}, {Y: 50}, {Y: 100}, {Y: 150}, {Y: 200}, {Y: 250}})

	frames, err := decodeFrames(path)
	require.NoError(t, err)
	assert.Len(t, frames, 6)
}

func TestDecodeFrames_MissingFile(t *testing.T) {
	_, err := decodeFrames(filepath.Join(t.TempDir(), "missing.gif"))
	require.Error(t, err)
	var decodeErr *ErrDecode
	assert.ErrorAs(t, err, &decodeErr)
}

func TestIsStatic_SingleFrameIsStatic(t *testing.T) {
	dir := t.TempDir()
	path := writeTestGIF(t, dir, "static1.gif", []color.Gray{{Y: 100}})
	frames, err := decodeFrames(path)
	require.NoError(t, err)

	static, err := isStatic(frames, 5)
	require.NoError(t, err)
	assert.True(t, static)
}

func TestIsStatic_IdenticalFramesAreStatic(t *testing.T) {
	dir := t.TempDir()
	path := writeTestGIF(t, dir, "static2.gif", []color.Gray{{Y: 80}, {Y: 80}, {Y: 80}, {Y: 80}})
	frames, err := decodeFrames(path)
	require.NoError(t, err)

	static, err := isStatic(frames, 5)
	require.NoError(t, err)
	assert.True(t, static)
}

func TestIsStatic_DifferingFramesAreNotStatic(t *testing.T) {
	dir := t.TempDir()
	path := writeTestGIF(t, dir, "moving.gif", []color.Gray{{Y: 0}, {Y: 255}, {Y: 0}, {Y: 255}, {Y: 0}, {Y: 255}})
	frames, err := decodeFrames(path)
	require.NoError(t, err)

	static, err := isStatic(frames, 5)
	require.NoError(t, err)
	assert.False(t, static)
}

func TestAnchorIndices_FiveOrMoreFramesPicksFixedAnchors(t *testing.T) {
	idxs, err := anchorIndices(8, false)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 4, 6, 7}, idxs)
}

func TestAnchorIndices_FewerThanFiveStrictIsPoorFrames(t *testing.T) {
	_, err := anchorIndices(3, false)
	require.Error(t, err)
	var poor *ErrPoorFrames
	assert.ErrorAs(t, err, &poor)
}

func TestAnchorIndices_FewerThanFivePermissiveUsesAll(t *testing.T) {
	idxs, err := anchorIndices(3, true)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, idxs)
}

func TestProcessPair_ControlReversalRetriesSmallestKept(t *testing.T) {
	dir := t.TempDir()
	shortColors := []color.Gray{{Y: 0}, {Y: 255}, {Y: 0}} // 3 frames, moving, < 5

	smallPath := writeTestGIF(t, dir, "small.gif", shortColors)
	bigPath := writeTestGIF(t, dir, "big.gif", shortColors)

	small := GIFCandidate{ID: uuid.New(), Path: smallPath, Size: 100}
	big := GIFCandidate{ID: uuid.New(), Path: bigPath, Size: 900}

	cfg := DefaultConfig()
	result := ProcessPair([]GIFCandidate{small, big}, cfg)

	assert.Equal(t, []uuid.UUID{small.ID}, result.PoorFrameGIFIDs)
	require.Len(t, result.PrepareClipPairs, 1)
	assert.Equal(t, big.ID, result.PrepareClipPairs[0].ID)
}

func TestProcessPair_StrictModeDiscardsShortGIFWhenOthersAreFine(t *testing.T) {
	dir := t.TempDir()
	longColors := []color.Gray{{Y: 0}, {Y: 50}, {Y: 100}, {Y: 150}, {Y: 200}, {Y: 250}}
	shortColors := []color.Gray{{Y: 0}, {Y: 255}, {Y: 0}}

	longPath := writeTestGIF(t, dir, "long.gif", longColors)
	shortPath := writeTestGIF(t, dir, "short.gif", shortColors)

	long := GIFCandidate{ID: uuid.New(), Path: longPath, Size: 100}
	short := GIFCandidate{ID: uuid.New(), Path: shortPath, Size: 100}

	cfg := DefaultConfig()
	result := ProcessPair([]GIFCandidate{long, short}, cfg)

	assert.Equal(t, []uuid.UUID{short.ID}, result.PoorFrameGIFIDs)
	require.Len(t, result.PrepareClipPairs, 1)
	assert.Equal(t, long.ID, result.PrepareClipPairs[0].ID)
}

func TestProcessPair_StaticGIFsAreRoutedSeparately(t *testing.T) {
	dir := t.TempDir()
	staticColors := []color.Gray{{Y: 80}, {Y: 80}, {Y: 80}, {Y: 80}, {Y: 80}, {Y: 80}}
	movingColors := []color.Gray{{Y: 0}, {Y: 255}, {Y: 0}, {Y: 255}, {Y: 0}, {Y: 255}}

	staticPath := writeTestGIF(t, dir, "static.gif", staticColors)
	movingPath := writeTestGIF(t, dir, "moving.gif", movingColors)

	static := GIFCandidate{ID: uuid.New(), Path: staticPath, Size: 100}
	moving := GIFCandidate{ID: uuid.New(), Path: movingPath, Size: 100}

	cfg := DefaultConfig()
	result := ProcessPair([]GIFCandidate{static, moving}, cfg)

	assert.Equal(t, []uuid.UUID{static.ID}, result.StaticGIFIDs)
	require.Len(t, result.PrepareClipPairs, 1)
	assert.Equal(t, moving.ID, result.PrepareClipPairs[0].ID)
}

type fakeEmbedder struct {
	dim int
}

func (f *fakeEmbedder) EmbedImages(_ context.Context, images [][]byte) ([][]float32, error) {
	out := make([][]float32, len(images))
	for i, img := range images {
		vec := make([]float32, f.dim)
		vec[0] = float32(len(img))
		out[i] = vec
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedText(_ context.Context, texts []string) ([][]float32, error) {
	return nil, nil
}

func (f *fakeEmbedder) Dimensions() int { return f.dim }

func TestComputeMeanEmbeddings_NormalizesMean(t *testing.T) {
	candidates := []ClipCandidate{
		{ID: uuid.New(), Size: 10, Frames: [][]byte{make([]byte, 3), make([]byte, 3)}},
	}
	results, err := ComputeMeanEmbeddings(context.Background(), &fakeEmbedder{dim: 4}, candidates)
	require.NoError(t, err)
	require.Len(t, results, 1)

	var normSq float64
	for _, v := range results[0].Vector {
		normSq += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, normSq, 1e-5)
}

func TestRecluster_KeepsLargestPerSubCluster(t *testing.T) {
	a := MeanEmbeddingResult{ID: uuid.New(), Size: 100, Vector: []float32{1, 0}}
	b := MeanEmbeddingResult{ID: uuid.New(), Size: 500, Vector: []float32{1, 0}}
	c := MeanEmbeddingResult{ID: uuid.New(), Size: 50, Vector: []float32{0, 1}}

	outcome, err := Recluster([]MeanEmbeddingResult{a, b, c}, DefaultConfig())
	require.NoError(t, err)

	assert.ElementsMatch(t, []uuid.UUID{b.ID, c.ID}, outcome.KeptGIFs)
	assert.ElementsMatch(t, []uuid.UUID{a.ID}, outcome.DiscardDuplicateGIFs)
}

func TestMergeOutcome_CombinesAllBuckets(t *testing.T) {
	invalid := uuid.New()
	poor := uuid.New()
	static := uuid.New()
	kept := uuid.New()

	pair := PairResult{
		InvalidIDs:      []uuid.UUID{invalid},
		PoorFrameGIFIDs: []uuid.UUID{poor},
		StaticGIFIDs:    []uuid.UUID{static},
	}

	merged := MergeOutcome(pair, triage.GIFOutcome{KeptGIFs: []uuid.UUID{kept}})
	assert.ElementsMatch(t, []uuid.UUID{invalid, poor}, merged.InvalidGIFs)
	assert.ElementsMatch(t, []uuid.UUID{static}, merged.DiscardSameFrameGIFs)
	assert.ElementsMatch(t, []uuid.UUID{kept}, merged.KeptGIFs)
}
