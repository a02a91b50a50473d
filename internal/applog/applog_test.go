package applog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsFromEnv_Defaults(t *testing.T) {
	opts := OptionsFromEnv("cluster-local")
	assert.Equal(t, "info", opts.StdoutLevel)
	assert.Equal(t, "info", opts.FileLevel)
	assert.Equal(t, "cluster-local", opts.Stage)
}

func TestOptionsFromEnv_Overrides(t *testing.T) {
	t.Setenv("STDOUT_LOG_LEVEL", "debug")
	t.Setenv("FILE_LOG_LEVEL", "warn")

	opts := OptionsFromEnv("triage")
	assert.Equal(t, "debug", opts.StdoutLevel)
	assert.Equal(t, "warn", opts.FileLevel)
}

func TestInit_InvalidStdoutLevel(t *testing.T) {
	_, _, err := Init(Options{StdoutLevel: "not-a-level", FileLevel: "info"})
	require.Error(t, err)
}

func TestInit_InvalidFileLevel(t *testing.T) {
	_, _, err := Init(Options{StdoutLevel: "info", FileLevel: "not-a-level"})
	require.Error(t, err)
}

func TestInit_WritesDatedLogFileUnderLogDir(t *testing.T) {
	dir := t.TempDir()
	logger, closeFn, err := Init(Options{
		StdoutLevel: "info",
		FileLevel:   "info",
		LogDir:      dir,
		Stage:       "cluster-local",
	})
	require.NoError(t, err)
	logger.Info().Msg("hello")
	require.NoError(t, closeFn())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "cluster-local")

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestInit_NoLogDirSkipsFile(t *testing.T) {
	logger, closeFn, err := Init(Options{StdoutLevel: "info", FileLevel: "info"})
	require.NoError(t, err)
	require.NoError(t, closeFn())
	logger.Info().Msg("no file backing this")
}
