package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/NekoImageLand/nekodedup/internal/annindex"
	"github.com/NekoImageLand/nekodedup/internal/applog"
	"github.com/NekoImageLand/nekodedup/internal/gifrefine"
)

func newHashSearchCmd() *cobra.Command {
	var indexPath, queryPath string
	var k int
	var threshold float32

	cmd := &cobra.Command{
		Use:   "hash-search",
		Short: "Find the k nearest neighbors of a query image in a persisted hash index",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := applog.Init(applog.OptionsFromEnv("hash-search"))
			if err != nil {
				return fmt.Errorf("hash-search: initializing logger: %w", err)
			}
			defer closeLog()

			idx, err := annindex.LoadHamming(indexPath, hashBytes)
			if err != nil {
				return fmt.Errorf("hash-search: loading index: %w", err)
			}

			f, err := os.Open(queryPath)
			if err != nil {
				return fmt.Errorf("hash-search: opening query image: %w", err)
			}
			defer f.Close()
			img, _, err := image.Decode(f)
			if err != nil {
				return fmt.Errorf("hash-search: decoding query image: %w", err)
			}

			hash := gifrefine.GradientHash(img)
			results, err := idx.Search(hash, k, threshold)
			if err != nil {
				return fmt.Errorf("hash-search: searching: %w", err)
			}

			logger.Info().Int("results", len(results)).Msg("hash-search complete")
			for _, r := range results {
				fmt.Printf("%s\t%.4f\n", r.ID, r.Score)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&indexPath, "index", "", "base path of the persisted index (required)")
	cmd.Flags().StringVar(&queryPath, "query", "", "path to the query image (required)")
	cmd.Flags().IntVar(&k, "k", 10, "number of neighbors to return")
	cmd.Flags().Float32Var(&threshold, "threshold", 0.9, "minimum similarity score to include")
	cmd.MarkFlagRequired("index")
	cmd.MarkFlagRequired("query")

	return cmd
}
