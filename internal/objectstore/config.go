package objectstore

import (
	"fmt"
	"os"
	"time"
)

// Config is the connection configuration for a real S3-compatible client.
type Config struct {
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	Region          string
}

// ConfigFromEnv reads S3_BUCKET/S3_ACCESS_KEY/S3_SECRET_ACCESS_KEY/
// S3_ENDPOINT/S3_REGION, all required.
func ConfigFromEnv() (Config, error) {
	get := func(key string) (string, error) {
		v := os.Getenv(key)
		if v == "" {
			return "", fmt.Errorf("objectstore: %s is required", key)
		}
		return v, nil
	}

	bucket, err := get("S3_BUCKET")
	if err != nil {
		return Config{}, err
	}
	accessKey, err := get("S3_ACCESS_KEY")
	if err != nil {
		return Config{}, err
	}
	secretKey, err := get("S3_SECRET_ACCESS_KEY")
	if err != nil {
		return Config{}, err
	}
	endpoint, err := get("S3_ENDPOINT")
	if err != nil {
		return Config{}, err
	}
	region, err := get("S3_REGION")
	if err != nil {
		return Config{}, err
	}

	return Config{
		Bucket:          bucket,
		AccessKeyID:     accessKey,
		SecretAccessKey: secretKey,
		Endpoint:        endpoint,
		Region:          region,
	}, nil
}

// RetryConfig mirrors the reference client's retry layer: exponential
// backoff with a multiplicative factor, clamped between a minimum and
// maximum delay, bounded to a maximum attempt count.
type RetryConfig struct {
	MaxAttempts int
	Factor      float64
	MinDelay    time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryConfig matches the reference client's retry layer exactly.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 20,
		Factor:      1.5,
		MinDelay:    50 * time.Millisecond,
		MaxDelay:    20000 * time.Millisecond,
	}
}

// DefaultConcurrencyLimit matches the reference client's concurrent-limit
// layer.
const DefaultConcurrencyLimit = 4096
