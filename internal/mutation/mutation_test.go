package mutation

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NekoImageLand/nekodedup/internal/triage"
	"github.com/NekoImageLand/nekodedup/internal/vectordb"
)

func TestPlan_MergesKeepAndDiscardTagsPerSurvivor(t *testing.T) {
	keepA := uuid.New()
	keepB := uuid.New()
	discard1 := uuid.New()
	discard2 := uuid.New()

	cats := map[uuid.UUID][]string{
		keepA:    {"landscape"},
		keepB:    {"portrait"},
		discard1: {"landscape", "scenery"},
		discard2: {"night"},
	}
	lookup := func(id uuid.UUID) []string { return cats[id] }

	fc := triage.FinalClassification{
		Keep:   []uuid.UUID{keepA, keepB},
		Delete: []uuid.UUID{discard1, discard2},
	}

	task := Plan(fc, lookup)
	require.Len(t, task.TransferTags, 2)
	assert.ElementsMatch(t, []string{"landscape", "scenery", "night"}, task.TransferTags[0])
	assert.ElementsMatch(t, []string{"portrait", "landscape", "scenery", "night"}, task.TransferTags[1])
	assert.Equal(t, []uuid.UUID{discard1, discard2}, task.DiscardIDs)
}

func TestPlan_NoCategoriesProducesEmptyTagSets(t *testing.T) {
	keep := uuid.New()
	fc := triage.FinalClassification{Keep: []uuid.UUID{keep}}
	task := Plan(fc, func(uuid.UUID) []string { return nil })
	require.Len(t, task.TransferTags, 1)
	assert.Empty(t, task.TransferTags[0])
}

func TestPlan_TagOrderingIsDeterministic(t *testing.T) {
	keep := uuid.New()
	cats := map[uuid.UUID][]string{keep: {"z", "a", "m"}}
	fc := triage.FinalClassification{Keep: []uuid.UUID{keep}}
	task := Plan(fc, func(id uuid.UUID) []string { return cats[id] })
	assert.Equal(t, []string{"a", "m", "z"}, task.TransferTags[0])
}

func TestEmitter_AppliesSetPayloadAndDelete(t *testing.T) {
	client := vectordb.NewMemoryClient()
	keep := uuid.New()
	discard := uuid.New()
	client.Seed(vectordb.Point{ID: keep}, vectordb.Point{ID: discard})

	e := NewEmitter(client, EmitterConfig{WorkerNum: 2})
	task := ResetPointTask{
		KeepIDs:      []uuid.UUID{keep},
		DiscardIDs:   []uuid.UUID{discard},
		TransferTags: [][]string{{"tag1"}},
	}

	failed, err := e.Emit(context.Background(), []ResetPointTask{task})
	require.NoError(t, err)
	assert.Empty(t, failed)
	assert.Equal(t, 1, client.Len())
}

func TestEmitter_DryRunSkipsClientCalls(t *testing.T) {
	client := vectordb.NewMemoryClient()
	keep := uuid.New()
	discard := uuid.New()
	client.Seed(vectordb.Point{ID: keep}, vectordb.Point{ID: discard})

	e := NewEmitter(client, EmitterConfig{DryRun: true})
	task := ResetPointTask{KeepIDs: []uuid.UUID{keep}, DiscardIDs: []uuid.UUID{discard}, TransferTags: [][]string{{}}}

	failed, err := e.Emit(context.Background(), []ResetPointTask{task})
	require.NoError(t, err)
	assert.Empty(t, failed)
	assert.Equal(t, 2, client.Len(), "dry run must not mutate the client")
}

type failingClient struct {
	mu sync.Mutex
}

func (f *failingClient) Scroll(context.Context, func(vectordb.Point) bool) error { return nil }
func (f *failingClient) SetPayload(context.Context, []vectordb.SetPayload) error {
	return errors.New("boom")
}
func (f *failingClient) Delete(context.Context, []uuid.UUID) error { return nil }

func TestEmitter_OneTaskFailureDoesNotAbortOthers(t *testing.T) {
	client := &failingClient{}
	e := NewEmitter(client, EmitterConfig{WorkerNum: 4})

	tasks := []ResetPointTask{
		{KeepIDs: []uuid.UUID{uuid.New()}, TransferTags: [][]string{{}}},
		{KeepIDs: []uuid.UUID{uuid.New()}, TransferTags: [][]string{{}}},
	}

	failed, err := e.Emit(context.Background(), tasks)
	require.NoError(t, err)
	assert.Len(t, failed, 2)
	for _, f := range failed {
		assert.Contains(t, f.Error, "boom")
	}
}

func TestSaveAndLoadFailures_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "qdrant_point_reset_errors")

	failed := []FailedTask{
		{Task: ResetPointTask{KeepIDs: []uuid.UUID{uuid.New()}}, Error: "boom"},
	}

	path, err := SaveFailures(failed, prefix, time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, path, "2026-07-31")

	loaded, err := LoadFailures(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "boom", loaded[0].Error)
	assert.Equal(t, failed[0].Task.KeepIDs, loaded[0].Task.KeepIDs)
}
