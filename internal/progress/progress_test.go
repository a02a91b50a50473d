package progress

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCounter_AccumulatesAcrossCalls(t *testing.T) {
	c := NewCounter("clusters")
	c.Add(5, 1000)
	c.Add(3, 500)

	snap := c.Snapshot()
	assert.Equal(t, int64(8), snap.Processed)
	assert.Equal(t, int64(1500), snap.Bytes)
	assert.Equal(t, "clusters", snap.Label)
}

func TestSnapshot_StringIncludesBytesWhenPresent(t *testing.T) {
	snap := Snapshot{Label: "images", Processed: 12345, Bytes: 1_200_000_000, Elapsed: 207 * time.Second}
	s := snap.String()
	assert.Contains(t, s, "12,345")
	assert.Contains(t, s, "images")
	assert.True(t, strings.Contains(s, "GB") || strings.Contains(s, "G"))
}

func TestSnapshot_StringOmitsBytesWhenZero(t *testing.T) {
	snap := Snapshot{Label: "tasks", Processed: 3, Elapsed: time.Second}
	s := snap.String()
	assert.NotContains(t, s, "0 B")
}

func TestSummary_StringFormatsAllFields(t *testing.T) {
	s := Summary{
		Stage: "triage", Kept: 100, Discarded: 50, Failed: 2,
		BytesFreed: 5_000_000, Elapsed: 10 * time.Second,
	}
	str := s.String()
	assert.Contains(t, str, "triage")
	assert.Contains(t, str, "100")
	assert.Contains(t, str, "50")
	assert.Contains(t, str, "2")
}
