// Package pipelinecfg loads the pipeline's configuration from an optional
// YAML file, an optional .env file, and environment variables, using the
// usual viper + godotenv layering: env vars always win, .env only fills in
// what the process environment doesn't already set, and the YAML file
// supplies defaults below both.
package pipelinecfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// QdrantConfig holds vector-DB connection settings. Timeout is parsed
// after unmarshal via parseDurationOrSeconds, since QDRANT_TIMEOUT may be
// either a Go duration string ("1h") or a bare integer number of seconds.
type QdrantConfig struct {
	URL            string        `mapstructure:"url"`
	APIKey         string        `mapstructure:"api_key"`
	TimeoutRaw     string        `mapstructure:"timeout"`
	Timeout        time.Duration `mapstructure:"-"`
	CollectionName string        `mapstructure:"collection_name"`
}

// S3Config holds object-store connection settings.
type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	AccessKey       string `mapstructure:"access_key"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
}

// ClipConfig holds CLIP/embedder connection settings.
type ClipConfig struct {
	ModelPath string `mapstructure:"model_path"`
}

// LoggingConfig holds log-level settings for both sinks.
type LoggingConfig struct {
	StdoutLevel string `mapstructure:"stdout_level"`
	FileLevel   string `mapstructure:"file_level"`
}

// PipelineConfig is the full configuration surface for every nekodedup
// subcommand.
type PipelineConfig struct {
	Qdrant    QdrantConfig  `mapstructure:"qdrant"`
	S3        S3Config      `mapstructure:"s3"`
	Clip      ClipConfig    `mapstructure:"clip"`
	Logging   LoggingConfig `mapstructure:"logging"`
	WorkerNum int           `mapstructure:"worker_num"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("qdrant.timeout", "1h")
	v.SetDefault("clip.model_path", "openai/clip-vit-large-patch14")
	v.SetDefault("logging.stdout_level", "info")
	v.SetDefault("logging.file_level", "info")
	v.SetDefault("worker_num", 16)
}

func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("qdrant.url", "QDRANT_URL")
	_ = v.BindEnv("qdrant.api_key", "QDRANT_API_KEY")
	_ = v.BindEnv("qdrant.timeout", "QDRANT_TIMEOUT")
	_ = v.BindEnv("qdrant.collection_name", "QDRANT_COLLECTION_NAME")
	_ = v.BindEnv("s3.bucket", "S3_BUCKET")
	_ = v.BindEnv("s3.access_key", "S3_ACCESS_KEY")
	_ = v.BindEnv("s3.secret_access_key", "S3_SECRET_ACCESS_KEY")
	_ = v.BindEnv("s3.endpoint", "S3_ENDPOINT")
	_ = v.BindEnv("s3.region", "S3_REGION")
	_ = v.BindEnv("clip.model_path", "CLIP_MODEL_PATH")
	_ = v.BindEnv("logging.stdout_level", "STDOUT_LOG_LEVEL")
	_ = v.BindEnv("logging.file_level", "FILE_LOG_LEVEL")
	_ = v.BindEnv("worker_num", "WORKER_NUM")
}

// Load reads configFile (if non-empty) plus environment variables into a
// PipelineConfig. Unlike viper's normal AutomaticEnv dotted-key replacement,
// every environment variable consumed here is bound explicitly via bindEnv
// so the mapping between env var name and config field stays traceable.
func Load(configFile string) (*PipelineConfig, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("pipelinecfg: loading .env: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("pipelinecfg: reading config file: %w", err)
		}
	}

	cfg := &PipelineConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("pipelinecfg: unmarshaling config: %w", err)
	}

	timeout, err := parseDurationOrSeconds(cfg.Qdrant.TimeoutRaw)
	if err != nil {
		return nil, err
	}
	cfg.Qdrant.Timeout = timeout

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every field a pipeline stage unconditionally needs
// at startup is present, rather than failing lazily deep in a run.
func (c *PipelineConfig) Validate() error {
	if c.Qdrant.URL == "" {
		return fmt.Errorf("pipelinecfg: qdrant.url (QDRANT_URL) is required")
	}
	if c.WorkerNum <= 0 {
		return fmt.Errorf("pipelinecfg: worker_num must be positive, got %d", c.WorkerNum)
	}
	return nil
}

// parseDurationOrSeconds accepts either a Go duration string ("1h") or a
// bare integer (seconds), matching QDRANT_TIMEOUT's historical shape.
func parseDurationOrSeconds(raw string) (time.Duration, error) {
	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}
	secs, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("pipelinecfg: invalid duration/seconds value %q", raw)
	}
	return time.Duration(secs) * time.Second, nil
}
