// Package fileutil provides common file operations.
package fileutil

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile replaces dst with data. It creates parent directories if needed.
// Uses atomic write via temp file to prevent partial writes on failure.
// An existing symlink at dst is replaced by a regular file; its target is
// left alone.
func WriteFile(dst string, data []byte, perm os.FileMode) error {
	// Create parent directories if needed.
	dstDir := filepath.Dir(dst)
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return fmt.Errorf("create parent directories: %w", err)
	}

	// Create temp file in the same directory for atomic rename
	tmpFile, err := os.CreateTemp(dstDir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Ensure cleanup on any failure
	success := false
	defer func() {
		if !success {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("write content: %w", err)
	}

	// Sync to ensure data is written to disk
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	// Close temp file before rename
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("set permissions: %w", err)
	}

	// Atomic rename to destination
	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("rename to destination: %w", err)
	}

	success = true
	return nil
}

// ReadBase64 returns the standard base64 encoding of the file at path.
func ReadBase64(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err // Return unwrapped to preserve os.IsNotExist compatibility
	}
	return base64.StdEncoding.EncodeToString(content), nil
}
