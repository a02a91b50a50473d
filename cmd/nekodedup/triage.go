package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/NekoImageLand/nekodedup/internal/applog"
	"github.com/NekoImageLand/nekodedup/internal/clipembed"
	"github.com/NekoImageLand/nekodedup/internal/gifrefine"
	"github.com/NekoImageLand/nekodedup/internal/objectstore"
	"github.com/NekoImageLand/nekodedup/internal/pipelinecfg"
	"github.com/NekoImageLand/nekodedup/internal/pointstore"
	"github.com/NekoImageLand/nekodedup/internal/progress"
	"github.com/NekoImageLand/nekodedup/internal/simkernel"
	"github.com/NekoImageLand/nekodedup/internal/triage"
)

// clusterResult is the per-cluster record written by the triage
// subcommand: the original cluster's members plus its final keep/delete
// disposition, ready for emit-mutations to turn into reset tasks.
type clusterResult struct {
	Members []uuid.UUID                `json:"members"`
	Final   triage.FinalClassification `json:"final"`
}

func newTriageCmd() *cobra.Command {
	var vectorsPath, metadataPath, extPath, clustersPath, outPath, objectDir, configPath string
	var dim int

	cmd := &cobra.Command{
		Use:   "triage",
		Short: "Triage each similarity cluster down to its keep/delete disposition",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := pipelinecfg.Load(configPath)
			if err != nil {
				return fmt.Errorf("triage: loading config: %w", err)
			}
			logger, closeLog, err := applog.Init(applog.OptionsFromEnv("triage"))
			if err != nil {
				return fmt.Errorf("triage: initializing logger: %w", err)
			}
			defer closeLog()

			b := pointstore.NewBuilder().LoadPath(vectorsPath).MetadataPath(metadataPath).MetadataExtPath(extPath)
			store, err := pointstore.Build[float32](b, dim)
			if err != nil {
				return fmt.Errorf("triage: loading point store: %w", err)
			}

			clusters, err := loadClusters(clustersPath)
			if err != nil {
				return fmt.Errorf("triage: loading clusters: %w", err)
			}

			textSim := func(a, b uuid.UUID) (float32, error) {
				ma, ok := store.GetMetadata(a)
				if !ok || ma.Text == nil {
					return 0, nil
				}
				mb, ok := store.GetMetadata(b)
				if !ok || mb.Text == nil {
					return 0, nil
				}
				return simkernel.Float32(ma.Text.Vector, mb.Text.Vector)
			}

			objClient, err := seedMemoryClientFromDir(objectDir)
			if err != nil {
				return fmt.Errorf("triage: seeding object store: %w", err)
			}
			retried := objectstore.NewRetrier(objClient, objectstore.DefaultRetryConfig(), objectstore.DefaultConcurrencyLimit)

			clipCfg := clipembed.DefaultConfig()
			if cfg.Clip.ModelPath != "" {
				clipCfg.ModelPath = cfg.Clip.ModelPath
			}
			clipClient := clipembed.NewHTTPClient(clipCfg)

			gifCfg := gifrefine.DefaultConfig()

			ctx := cmd.Context()
			counter := progress.NewCounter("triage")
			var results []clusterResult

			for _, members := range clusters {
				classification, err := triage.Triage(members, store, textSim)
				if err != nil {
					return fmt.Errorf("triage: classifying cluster: %w", err)
				}

				gifOutcome, err := refineGIFs(ctx, classification.ToTriageGIFs, store, retried, clipClient, gifCfg)
				if err != nil {
					return fmt.Errorf("triage: refining GIF cluster: %w", err)
				}

				final := triage.Finalize(classification, gifOutcome)
				results = append(results, clusterResult{Members: members, Final: final})
				counter.Add(1, 0)
				logger.Debug().Int("kept", len(final.Keep)).Int("deleted", len(final.Delete)).Msg("cluster triaged")
			}

			data, err := json.MarshalIndent(results, "", "  ")
			if err != nil {
				return fmt.Errorf("triage: encoding results: %w", err)
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("triage: writing %s: %w", outPath, err)
			}

			snap := counter.Snapshot()
			logger.Info().Str("summary", snap.String()).Msg("triage complete")
			fmt.Printf("triaged %d clusters, wrote %s\n", len(results), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&vectorsPath, "vectors", "", "path to the persisted vector store (required)")
	cmd.Flags().StringVar(&metadataPath, "metadata", "", "path to the persisted metadata side table (required)")
	cmd.Flags().StringVar(&extPath, "ext", "", "path to the persisted ext side table (required)")
	cmd.Flags().IntVar(&dim, "dim", 768, "embedding dimension")
	cmd.Flags().StringVar(&clustersPath, "clusters", "", "clusters.json produced by cluster-local (required)")
	cmd.Flags().StringVar(&outPath, "out", "triage.json", "output path for the per-cluster triage result")
	cmd.Flags().StringVar(&objectDir, "object-dir", "", "local directory standing in for the object store (GIF source bytes)")
	cmd.Flags().StringVar(&configPath, "config", "", "optional YAML config file")
	cmd.MarkFlagRequired("vectors")
	cmd.MarkFlagRequired("metadata")
	cmd.MarkFlagRequired("ext")
	cmd.MarkFlagRequired("clusters")

	return cmd
}

func loadClusters(path string) ([][]uuid.UUID, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var clusters [][]uuid.UUID
	if err := json.Unmarshal(data, &clusters); err != nil {
		return nil, err
	}
	return clusters, nil
}

// refineGIFs runs Stages A-D of the GIF refinement pipeline over one
// cluster's to_triage_gifs list: fetch each candidate's bytes from the
// object store into a scratch file (decodeFrames needs a local path),
// then run ProcessPair/ComputeMeanEmbeddings/Recluster/MergeOutcome.
func refineGIFs(ctx context.Context, ids []uuid.UUID, store *pointstore.Store[float32], objClient objectstore.Client, clipClient clipembed.Client, cfg gifrefine.Config) (triage.GIFOutcome, error) {
	if len(ids) == 0 {
		return triage.GIFOutcome{}, nil
	}

	tmpDir, err := os.MkdirTemp("", "nekodedup-gif-*")
	if err != nil {
		return triage.GIFOutcome{}, err
	}
	defer os.RemoveAll(tmpDir)

	candidates := make([]gifrefine.GIFCandidate, 0, len(ids))
	for _, id := range ids {
		ext, ok := store.GetExt(id)
		if !ok {
			continue
		}
		data, err := objClient.Get(ctx, ext.FilePath)
		if err != nil {
			return triage.GIFOutcome{}, fmt.Errorf("fetching %s: %w", ext.FilePath, err)
		}
		localPath := filepath.Join(tmpDir, id.String()+".gif")
		if err := os.WriteFile(localPath, data, 0o644); err != nil {
			return triage.GIFOutcome{}, err
		}

		var size int64
		if m, ok := store.GetMetadata(id); ok && m.Size != nil {
			size = *m.Size
		} else {
			size = int64(len(data))
		}
		candidates = append(candidates, gifrefine.GIFCandidate{ID: id, Path: localPath, Size: size})
	}

	pair := gifrefine.ProcessPair(candidates, cfg)

	means, err := gifrefine.ComputeMeanEmbeddings(ctx, clipClient, pair.PrepareClipPairs)
	if err != nil {
		return triage.GIFOutcome{}, err
	}
	reclustered, err := gifrefine.Recluster(means, cfg)
	if err != nil {
		return triage.GIFOutcome{}, err
	}
	return gifrefine.MergeOutcome(pair, reclustered), nil
}
