package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NekoImageLand/nekodedup/internal/applog"
	"github.com/NekoImageLand/nekodedup/internal/nekouuid"
	"github.com/NekoImageLand/nekodedup/internal/progress"
)

func newRenameFilesCmd() *cobra.Command {
	var srcPaths, dstPath string
	var move, checkExt bool

	cmd := &cobra.Command{
		Use:   "rename-files",
		Short: "Stage local image files into content-addressed <uuid>.<ext> names",
		Long: `rename-files walks one or more source directories and copies (or
moves) every file into dst-path, renamed to <uuid>.<ext> where uuid is
derived deterministically from the file's contents (see internal/nekouuid).
Two files with identical bytes always land on the same name, so re-running
over overlapping sources is idempotent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if srcPaths == "" {
				return fmt.Errorf("rename-files: --src-paths is required")
			}
			logger, closeLog, err := applog.Init(applog.OptionsFromEnv("rename-files"))
			if err != nil {
				return fmt.Errorf("rename-files: initializing logger: %w", err)
			}
			defer closeLog()

			if err := os.MkdirAll(dstPath, 0o755); err != nil {
				return fmt.Errorf("rename-files: creating %s: %w", dstPath, err)
			}

			counter := progress.NewCounter("files")
			var skipped int

			for _, src := range strings.Split(srcPaths, ",") {
				src = strings.TrimSpace(src)
				if src == "" {
					continue
				}
				err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
					if err != nil {
						return err
					}
					if info.IsDir() {
						return nil
					}
					ext := strings.TrimPrefix(filepath.Ext(path), ".")
					if checkExt && !isSupportedImageExt(ext) {
						skipped++
						logger.Debug().Str("path", path).Msg("skipping unsupported extension")
						return nil
					}

					data, err := os.ReadFile(path)
					if err != nil {
						return err
					}
					id := nekouuid.Generate(data)
					name := id.String()
					if ext != "" {
						name += "." + ext
					}
					dst := filepath.Join(dstPath, name)

					if move {
						if err := os.Rename(path, dst); err != nil {
							return err
						}
					} else if err := copyFile(path, dst); err != nil {
						return err
					}

					counter.Add(1, int64(len(data)))
					return nil
				})
				if err != nil {
					return fmt.Errorf("rename-files: walking %s: %w", src, err)
				}
			}

			snap := counter.Snapshot()
			logger.Info().Str("summary", snap.String()).Int("skipped", skipped).Msg("rename-files complete")
			fmt.Printf("%s, skipped %d unsupported file(s)\n", snap.String(), skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&srcPaths, "src-paths", "", "comma-delimited list of source directories (required)")
	cmd.Flags().StringVar(&dstPath, "dst-path", "", "destination directory")
	cmd.Flags().BoolVar(&move, "move", false, "move files instead of copying")
	cmd.Flags().BoolVar(&checkExt, "check-ext", true, "skip files whose extension is not a recognized image type")
	cmd.MarkFlagRequired("src-paths")
	cmd.MarkFlagRequired("dst-path")

	return cmd
}

var supportedImageExts = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true, "bmp": true,
}

func isSupportedImageExt(ext string) bool {
	return supportedImageExts[strings.ToLower(ext)]
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
