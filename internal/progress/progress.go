// Package progress formats stage progress and summary lines: humanize-
// backed mutation-count and byte-count reporting for each pipeline stage.
package progress

import (
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// Counter tracks a running total across a pipeline stage's lifetime,
// reporting human-readable progress without requiring the caller to know
// the eventual total in advance.
type Counter struct {
	mu        sync.Mutex
	started   time.Time
	processed int64
	bytes     int64
	label     string
}

// NewCounter starts a Counter for the named unit of work (e.g. "clusters",
// "mutations").
func NewCounter(label string) *Counter {
	return &Counter{started: time.Now(), label: label}
}

// Add records n processed items and byteDelta additional bytes handled.
func (c *Counter) Add(n int64, byteDelta int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.processed += n
	c.bytes += byteDelta
}

// Snapshot is a point-in-time read of a Counter's totals.
type Snapshot struct {
	Label     string
	Processed int64
	Bytes     int64
	Elapsed   time.Duration
}

// Snapshot returns the current totals.
func (c *Counter) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Label:     c.label,
		Processed: c.processed,
		Bytes:     c.bytes,
		Elapsed:   time.Since(c.started),
	}
}

// String renders a one-line human-readable summary, e.g.
// "12,345 clusters (1.2 GB) in 3m27s".
func (s Snapshot) String() string {
	if s.Bytes > 0 {
		return fmt.Sprintf("%s %s (%s) in %s",
			humanize.Comma(s.Processed), s.Label, humanize.Bytes(uint64(s.Bytes)), s.Elapsed.Round(time.Second))
	}
	return fmt.Sprintf("%s %s in %s",
		humanize.Comma(s.Processed), s.Label, s.Elapsed.Round(time.Second))
}

// Summary is the final per-stage report: how many survived, how many were
// discarded, and why.
type Summary struct {
	Stage        string
	Kept         int
	Discarded    int
	Failed       int
	BytesFreed   int64
	Elapsed      time.Duration
}

// String renders the summary the way a stage's final log line reads.
func (s Summary) String() string {
	return fmt.Sprintf(
		"%s: kept %s, discarded %s, failed %s, freed %s, took %s",
		s.Stage,
		humanize.Comma(int64(s.Kept)),
		humanize.Comma(int64(s.Discarded)),
		humanize.Comma(int64(s.Failed)),
		humanize.Bytes(uint64(s.BytesFreed)),
		s.Elapsed.Round(time.Second),
	)
}
