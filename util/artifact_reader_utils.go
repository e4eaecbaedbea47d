package util

import (
	"fmt"
	"os"

	"grid-forecast/regression"
)

// ReadLinearModelFromJSON loads and validates a model artifact on disk.
func ReadLinearModelFromJSON(filePath string) (*regression.LinearModel, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	model, err := regression.ParseLinearModel(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load model from %q: %w", filePath, err)
	}
	return model, nil
}

// ReadFileBytes loads a local file for upload, refusing empty files.
func ReadFileBytes(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("file %q is empty", filePath)
	}
	return data, nil
}
