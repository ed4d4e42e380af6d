package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ecbench/internal/bench"
	"ecbench/internal/logging"
)

// WriteJSON writes res to path as indented JSON, creating parent
// directories as needed.
func WriteJSON(path string, res *bench.Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create result directory: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	logging.Report("wrote %d point(s) for run %s to %s", len(res.Points), res.RunID, path)
	return nil
}

// ReadJSON loads a result previously written by WriteJSON.
func ReadJSON(path string) (*bench.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read result: %w", err)
	}
	var res bench.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("failed to parse result %s: %w", path, err)
	}
	return &res, nil
}
