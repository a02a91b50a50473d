package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NekoImageLand/nekodedup/internal/annindex"
	"github.com/NekoImageLand/nekodedup/internal/applog"
	"github.com/NekoImageLand/nekodedup/internal/gifrefine"
	"github.com/NekoImageLand/nekodedup/internal/nekouuid"
	"github.com/NekoImageLand/nekodedup/internal/progress"
)

const hashBytes = 128 // 32x32 dHash bits packed 8 per byte

func newHashIndexCmd() *cobra.Command {
	var srcDir, outPath string

	cmd := &cobra.Command{
		Use:   "hash-index",
		Short: "Build a perceptual-hash Hamming index over a directory of local images",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := applog.Init(applog.OptionsFromEnv("hash-index"))
			if err != nil {
				return fmt.Errorf("hash-index: initializing logger: %w", err)
			}
			defer closeLog()

			idx := annindex.NewHamming(annindex.Config{Dim: hashBytes})
			counter := progress.NewCounter("images")

			err = filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() || !isSupportedImageExt(strings.TrimPrefix(filepath.Ext(path), ".")) {
					return nil
				}

				f, err := os.Open(path)
				if err != nil {
					return err
				}
				img, _, decodeErr := image.Decode(f)
				f.Close()
				if decodeErr != nil {
					logger.Warn().Str("path", path).Err(decodeErr).Msg("skipping undecodable image")
					return nil
				}

				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				id := nekouuid.Generate(data)
				hash := gifrefine.GradientHash(img)
				if err := idx.Insert(id, hash); err != nil {
					return fmt.Errorf("inserting %s: %w", path, err)
				}
				counter.Add(1, int64(len(data)))
				return nil
			})
			if err != nil {
				return fmt.Errorf("hash-index: walking %s: %w", srcDir, err)
			}

			if err := idx.Save(outPath); err != nil {
				return fmt.Errorf("hash-index: saving index: %w", err)
			}

			snap := counter.Snapshot()
			logger.Info().Str("summary", snap.String()).Msg("hash-index complete")
			fmt.Printf("%s, wrote %s.hnsw.{data,graph}\n", snap.String(), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&srcDir, "src-dir", "", "directory of local images to index (required)")
	cmd.Flags().StringVar(&outPath, "out", "hashes", "base path for the persisted index")
	cmd.MarkFlagRequired("src-dir")

	return cmd
}
