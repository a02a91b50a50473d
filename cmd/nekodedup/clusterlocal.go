package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/NekoImageLand/nekodedup/internal/cluster"
	"github.com/NekoImageLand/nekodedup/internal/pointstore"
)

const imageTau float32 = 0.985

func newClusterLocalCmd() *cobra.Command {
	var vectorsPath, metadataPath, extPath, outPath string
	var dim int

	cmd := &cobra.Command{
		Use:   "cluster-local",
		Short: "Clique-cluster a persisted point store's image embeddings at tau=0.985",
		RunE: func(cmd *cobra.Command, args []string) error {
			b := pointstore.NewBuilder().LoadPath(vectorsPath).MetadataPath(metadataPath).MetadataExtPath(extPath)
			store, err := pointstore.Build[float32](b, dim)
			if err != nil {
				return fmt.Errorf("cluster-local: loading point store: %w", err)
			}

			sim := func(i, j int) (float32, error) {
				idA, ok := store.Index2UUID(i)
				if !ok {
					return 0, fmt.Errorf("cluster-local: no point at index %d", i)
				}
				idB, ok := store.Index2UUID(j)
				if !ok {
					return 0, fmt.Errorf("cluster-local: no point at index %d", j)
				}
				return pointstore.GetCosineSim(store, idA, idB)
			}

			clusterer := cluster.NewClusterer(imageTau, sim)
			groups, err := clusterer.Cluster(store.Len())
			if err != nil {
				return fmt.Errorf("cluster-local: clustering: %w", err)
			}

			clusters := make([][]uuid.UUID, len(groups))
			for gi, g := range groups {
				ids := make([]uuid.UUID, len(g))
				for i, idx := range g {
					id, _ := store.Index2UUID(idx)
					ids[i] = id
				}
				clusters[gi] = ids
			}

			data, err := json.MarshalIndent(clusters, "", "  ")
			if err != nil {
				return fmt.Errorf("cluster-local: encoding clusters: %w", err)
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("cluster-local: writing %s: %w", outPath, err)
			}
			fmt.Printf("wrote %d clusters (%d points) to %s\n", len(clusters), store.Len(), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&vectorsPath, "vectors", "", "path to the persisted vector store (required)")
	cmd.Flags().StringVar(&metadataPath, "metadata", "", "path to the persisted metadata side table")
	cmd.Flags().StringVar(&extPath, "ext", "", "path to the persisted ext side table")
	cmd.Flags().IntVar(&dim, "dim", 768, "embedding dimension")
	cmd.Flags().StringVar(&outPath, "out", "clusters.json", "output path for the clustering result")
	cmd.MarkFlagRequired("vectors")

	return cmd
}
