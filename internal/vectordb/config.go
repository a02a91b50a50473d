package vectordb

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the connection configuration for a real vector-DB client,
// matching the reference client's env-driven construction: QDRANT_URL is
// required, QDRANT_API_KEY is optional, QDRANT_TIMEOUT defaults to one
// hour, and the wire connection always requests gzip compression.
type Config struct {
	URL               string
	APIKey            string
	Timeout           time.Duration
	GzipCompression   bool
	CheckCompatibility bool
}

// ConfigFromEnv reads QDRANT_URL/QDRANT_API_KEY/QDRANT_TIMEOUT.
func ConfigFromEnv() (Config, error) {
	url := os.Getenv("QDRANT_URL")
	if url == "" {
		return Config{}, fmt.Errorf("vectordb: QDRANT_URL is required")
	}

	timeout := time.Hour
	if raw := os.Getenv("QDRANT_TIMEOUT"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("vectordb: invalid QDRANT_TIMEOUT: %w", err)
		}
		timeout = time.Duration(secs) * time.Second
	}

	return Config{
		URL:                url,
		APIKey:             os.Getenv("QDRANT_API_KEY"),
		Timeout:            timeout,
		GzipCompression:    true,
		CheckCompatibility: true,
	}, nil
}
