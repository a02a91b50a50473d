package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/NekoImageLand/nekodedup/internal/objectstore"
)

// seedMemoryClientFromDir walks dir recursively and loads every regular
// file into an objectstore.MemoryClient, keyed by its path relative to
// dir (forward-slash separated). Standing up a real S3-compatible client
// is out of scope; a local directory is the development/test stand-in for
// the object store's file layout.
func seedMemoryClientFromDir(dir string) (*objectstore.MemoryClient, error) {
	client := objectstore.NewMemoryClient()
	if dir == "" {
		return client, nil
	}

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		client.Seed(strings.ReplaceAll(rel, string(filepath.Separator), "/"), data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}
