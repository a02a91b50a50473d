package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/NekoImageLand/nekodedup/internal/applog"
	"github.com/NekoImageLand/nekodedup/internal/mutation"
	"github.com/NekoImageLand/nekodedup/internal/pipelinecfg"
	"github.com/NekoImageLand/nekodedup/internal/pointstore"
	"github.com/NekoImageLand/nekodedup/internal/progress"
	"github.com/NekoImageLand/nekodedup/internal/vectordb"
)

func newEmitMutationsCmd() *cobra.Command {
	var triagePath, metadataPath, failuresPrefix, replayPath, configPath string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "emit-mutations",
		Short: "Apply a triage result's keep/delete disposition to the vector store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := pipelinecfg.Load(configPath)
			if err != nil {
				return fmt.Errorf("emit-mutations: loading config: %w", err)
			}
			logger, closeLog, err := applog.Init(applog.OptionsFromEnv("emit-mutations"))
			if err != nil {
				return fmt.Errorf("emit-mutations: initializing logger: %w", err)
			}
			defer closeLog()

			client := vectordb.NewMemoryClient()
			emitter := mutation.NewEmitter(client, mutation.EmitterConfig{DryRun: dryRun, WorkerNum: cfg.WorkerNum})

			var tasks []mutation.ResetPointTask
			if replayPath != "" {
				failed, err := mutation.LoadFailures(replayPath)
				if err != nil {
					return fmt.Errorf("emit-mutations: loading replay file: %w", err)
				}
				for _, f := range failed {
					tasks = append(tasks, f.Task)
				}
			} else {
				store, err := loadMetadataOnlyStore(metadataPath)
				if err != nil {
					return fmt.Errorf("emit-mutations: loading metadata: %w", err)
				}
				results, err := loadClusterResults(triagePath)
				if err != nil {
					return fmt.Errorf("emit-mutations: loading triage result: %w", err)
				}
				lookup := func(id uuid.UUID) []string {
					if m, ok := store.GetMetadata(id); ok {
						return m.Categories
					}
					return nil
				}
				for _, r := range results {
					tasks = append(tasks, mutation.Plan(r.Final, lookup))
					for _, id := range r.Final.Keep {
						client.Seed(vectordb.Point{ID: id})
					}
					for _, id := range r.Final.Delete {
						client.Seed(vectordb.Point{ID: id})
					}
				}
			}

			counter := progress.NewCounter("emit-mutations")
			failed, err := emitter.Emit(cmd.Context(), tasks)
			if err != nil {
				return fmt.Errorf("emit-mutations: emitting: %w", err)
			}
			var kept, discarded int
			for _, t := range tasks {
				kept += len(t.KeepIDs)
				discarded += len(t.DiscardIDs)
			}
			counter.Add(int64(len(tasks)), 0)

			summary := progress.Summary{
				Stage:      "emit-mutations",
				Kept:       kept,
				Discarded:  discarded,
				Failed:     len(failed),
				BytesFreed: 0,
				Elapsed:    counter.Snapshot().Elapsed,
			}
			logger.Info().Str("summary", summary.String()).Msg("emit-mutations complete")
			fmt.Println(summary.String())

			if len(failed) > 0 {
				path, err := mutation.SaveFailures(failed, failuresPrefix, time.Now())
				if err != nil {
					return fmt.Errorf("emit-mutations: saving failures: %w", err)
				}
				fmt.Printf("%d task(s) failed, wrote replay file %s\n", len(failed), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&triagePath, "triage", "", "triage.json produced by the triage subcommand")
	cmd.Flags().StringVar(&metadataPath, "metadata", "", "path to the persisted metadata side table")
	cmd.Flags().StringVar(&failuresPrefix, "failures-prefix", "qdrant_point_reset_errors", "prefix for the replay file written on partial failure")
	cmd.Flags().StringVar(&replayPath, "replay-failures", "", "replay a previously saved failures file instead of --triage")
	cmd.Flags().StringVar(&configPath, "config", "", "optional YAML config file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "plan and count tasks without calling the vector store")

	return cmd
}

func loadClusterResults(path string) ([]clusterResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var results []clusterResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// loadMetadataOnlyStore loads just the metadata side table, for the
// category lookup emit-mutations needs to build transfer tags.
func loadMetadataOnlyStore(path string) (*pointstore.Store[float32], error) {
	b := pointstore.NewBuilder().MetadataPath(path)
	return pointstore.Build[float32](b, 1)
}
