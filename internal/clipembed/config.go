package clipembed

import (
	"os"
	"time"
)

// Config points an HTTPClient at the model-serving endpoint. ModelPath is
// opaque to this package (it is whatever the remote CLIP service expects
// to identify its loaded model) and resolves the same way a local-models
// directory setting usually does: an explicit value wins, then an
// environment variable, then a hardcoded fallback.
type Config struct {
	APIURL     string
	ModelPath  string
	Dimensions int
	Timeout    time.Duration
}

// DefaultConfig reads CLIP_MODEL_PATH and CLIP_API_URL from the
// environment, falling back to sane local defaults.
func DefaultConfig() Config {
	cfg := Config{
		APIURL:     "http://localhost:8188",
		ModelPath:  "openai/clip-vit-large-patch14",
		Dimensions: 768,
		Timeout:    30 * time.Second,
	}
	if v := os.Getenv("CLIP_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("CLIP_MODEL_PATH"); v != "" {
		cfg.ModelPath = v
	}
	return cfg
}
