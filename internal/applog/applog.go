// Package applog wires up the process-wide zerolog logger: a console
// writer gated by STDOUT_LOG_LEVEL and an optional file writer gated by
// FILE_LOG_LEVEL, fanned out to the same event.
package applog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Options configures Init.
type Options struct {
	StdoutLevel string
	FileLevel   string
	// LogDir is where dated log files are written, one per Stage.
	LogDir string
	Stage  string
}

// OptionsFromEnv reads STDOUT_LOG_LEVEL/FILE_LOG_LEVEL, defaulting both to
// "info" when unset.
func OptionsFromEnv(stage string) Options {
	opts := Options{
		StdoutLevel: "info",
		FileLevel:   "info",
		LogDir:      "logs",
		Stage:       stage,
	}
	if v := os.Getenv("STDOUT_LOG_LEVEL"); v != "" {
		opts.StdoutLevel = v
	}
	if v := os.Getenv("FILE_LOG_LEVEL"); v != "" {
		opts.FileLevel = v
	}
	return opts
}

// Init builds a zerolog.Logger writing to stdout and, if LogDir is
// non-empty, to a dated file under LogDir. It returns the logger and a
// close function for the file handle (a no-op when no file was opened).
func Init(opts Options) (zerolog.Logger, func() error, error) {
	stdoutLevel, err := zerolog.ParseLevel(opts.StdoutLevel)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("applog: invalid STDOUT_LOG_LEVEL %q: %w", opts.StdoutLevel, err)
	}
	fileLevel, err := zerolog.ParseLevel(opts.FileLevel)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("applog: invalid FILE_LOG_LEVEL %q: %w", opts.FileLevel, err)
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	writers := []io.Writer{levelWriter{w: console, level: stdoutLevel}}
	closeFile := func() error { return nil }

	if opts.LogDir != "" {
		if err := os.MkdirAll(opts.LogDir, 0o755); err != nil {
			return zerolog.Logger{}, nil, fmt.Errorf("applog: creating log dir: %w", err)
		}
		name := fmt.Sprintf("%s-%s.log", opts.Stage, time.Now().UTC().Format("2006-01-02"))
		f, err := os.OpenFile(filepath.Join(opts.LogDir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Logger{}, nil, fmt.Errorf("applog: opening log file: %w", err)
		}
		writers = append(writers, levelWriter{w: f, level: fileLevel})
		closeFile = f.Close
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Str("stage", opts.Stage).Logger()
	return logger, closeFile, nil
}

// levelWriter drops events below level before forwarding to w, since
// zerolog.MultiLevelWriter applies a single global level otherwise.
type levelWriter struct {
	w     io.Writer
	level zerolog.Level
}

func (lw levelWriter) Write(p []byte) (int, error) {
	return lw.w.Write(p)
}

func (lw levelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < lw.level {
		return len(p), nil
	}
	return lw.w.Write(p)
}
