package mutation

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/NekoImageLand/nekodedup/internal/vectordb"
)

// EmitterConfig controls how an Emitter applies tasks.
type EmitterConfig struct {
	// DryRun skips every vector-DB client call and reports each task as
	// applied; nothing is logged per task.
	DryRun bool
	// WorkerNum bounds in-flight task applications; defaults to 16.
	WorkerNum int
}

// Emitter applies ResetPointTasks against a vectordb.Client, bounded by
// WorkerNum concurrent in-flight tasks. A single task's failure never
// aborts the run — it is recorded and returned so the caller can persist
// it for replay, degrading gracefully instead of aborting the whole batch.
type Emitter struct {
	client vectordb.Client
	cfg    EmitterConfig
	sem    *semaphore.Weighted
}

// NewEmitter builds an Emitter around client.
func NewEmitter(client vectordb.Client, cfg EmitterConfig) *Emitter {
	if cfg.WorkerNum <= 0 {
		cfg.WorkerNum = 16
	}
	return &Emitter{client: client, cfg: cfg, sem: semaphore.NewWeighted(int64(cfg.WorkerNum))}
}

func (e *Emitter) applyOne(ctx context.Context, task ResetPointTask) error {
	if e.cfg.DryRun {
		return nil
	}

	updates := make([]vectordb.SetPayload, len(task.KeepIDs))
	for i, id := range task.KeepIDs {
		updates[i] = vectordb.SetPayload{ID: id, Categories: task.TransferTags[i]}
	}
	if err := e.client.SetPayload(ctx, updates); err != nil {
		return fmt.Errorf("mutation: set payload: %w", err)
	}
	if err := e.client.Delete(ctx, task.DiscardIDs); err != nil {
		return fmt.Errorf("mutation: delete: %w", err)
	}
	return nil
}

// Emit applies every task, bounded to WorkerNum concurrent operations, and
// returns whichever tasks failed, in the order of tasks. It only returns a
// non-nil error for a setup failure (e.g. the context was canceled while
// acquiring a slot); per-task failures are reported through the returned
// slice instead.
func (e *Emitter) Emit(ctx context.Context, tasks []ResetPointTask) ([]FailedTask, error) {
	var g errgroup.Group
	results := make([]*FailedTask, len(tasks))
	collect := func() []FailedTask {
		var failed []FailedTask
		for _, f := range results {
			if f != nil {
				failed = append(failed, *f)
			}
		}
		return failed
	}

	for i, task := range tasks {
		i, task := i, task
		if err := e.sem.Acquire(ctx, 1); err != nil {
			_ = g.Wait()
			return collect(), err
		}
		g.Go(func() error {
			defer e.sem.Release(1)
			if err := e.applyOne(ctx, task); err != nil {
				results[i] = &FailedTask{Task: task, Error: err.Error()}
			}
			return nil
		})
	}
	_ = g.Wait()
	return collect(), nil
}
