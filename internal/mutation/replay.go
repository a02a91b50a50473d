package mutation

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// SaveFailures writes failed to "<prefix>_<RFC3339>.json" and returns the
// path written, for a later --replay-failures run.
func SaveFailures(failed []FailedTask, prefix string, now time.Time) (string, error) {
	path := fmt.Sprintf("%s_%s.json", prefix, now.UTC().Format(time.RFC3339))

	data, err := json.MarshalIndent(failed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("mutation: marshaling failures: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("mutation: writing failures file: %w", err)
	}
	return path, nil
}

// LoadFailures reads back a failures file written by SaveFailures, for
// --replay-failures.
func LoadFailures(path string) ([]FailedTask, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mutation: reading failures file: %w", err)
	}
	var failed []FailedTask
	if err := json.Unmarshal(data, &failed); err != nil {
		return nil, fmt.Errorf("mutation: unmarshaling failures file: %w", err)
	}
	return failed, nil
}
