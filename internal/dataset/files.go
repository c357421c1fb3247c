package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/GSaiKiran15/Case-Wage-Pro/internal/logger"
)

// Source opens the raw dataset documents.
type Source interface {
	OpenWageData(ctx context.Context) (io.ReadCloser, error)
	OpenGeography(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads the datasets from the local filesystem.
type FileSource struct {
	WageDataPath  string
	GeographyPath string
}

func (s FileSource) OpenWageData(ctx context.Context) (io.ReadCloser, error) {
	return openFile(s.WageDataPath)
}

func (s FileSource) OpenGeography(ctx context.Context) (io.ReadCloser, error) {
	return openFile(s.GeographyPath)
}

// BytesSource serves the datasets from memory.
type BytesSource struct {
	WageData  []byte
	Geography []byte
}

func (s BytesSource) OpenWageData(ctx context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.WageData)), nil
}

func (s BytesSource) OpenGeography(ctx context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.Geography)), nil
}

func openFile(filePath string) (io.ReadCloser, error) {
	file, err := os.Open(filePath) // #nosec G304 -- filePath is controlled by application config, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("dataset file %s: %w", filePath, os.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	return file, nil
}

// SaveJSON encodes object as indented JSON and writes it to filePath.
// It creates necessary directories if they don't exist. The document is
// written to a temporary file in the same directory and renamed over
// filePath, so readers see either the old file or the complete new one.
func SaveJSON(filePath string, object any) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	file, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", filePath, err)
	}
	tmpPath := file.Name()
	committed := false
	defer func() {
		if committed {
			return
		}
		_ = file.Close()
		if removeErr := os.Remove(tmpPath); removeErr != nil && !os.IsNotExist(removeErr) {
			logger.Warn("failed to remove temporary dataset file", "path", tmpPath, "error", removeErr)
		}
	}()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(object); err != nil {
		return fmt.Errorf("failed to encode JSON to file %s: %w", filePath, err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync file %s: %w", filePath, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file %s: %w", filePath, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", filePath, err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		return fmt.Errorf("failed to replace file %s: %w", filePath, err)
	}
	committed = true
	return nil
}
