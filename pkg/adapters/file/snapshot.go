// Package file persists scene snapshots and loads grammar documents from the
// local filesystem.
package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/algorist/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Format is picked from the file extension: .yaml/.yml or .json.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf returns the format for path, defaulting to JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Encode serialises a snapshot.
func Encode(snap domain.Snapshot, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(snap)
	case FormatJSON:
		return json.MarshalIndent(snap, "", "  ")
	}
	return nil, fmt.Errorf("unsupported snapshot format %q", format)
}

// Decode parses a snapshot.
func Decode(data []byte, format Format) (domain.Snapshot, error) {
	var snap domain.Snapshot
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &snap)
	case FormatJSON:
		err = json.Unmarshal(data, &snap)
	default:
		return snap, fmt.Errorf("unsupported snapshot format %q", format)
	}
	if err != nil {
		return snap, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}

// Write persists the snapshot atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func Write(path string, snap domain.Snapshot) error {
	data, err := Encode(snap, FormatOf(path))
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure snapshot directory: %w", err)
	}

	// Same directory, so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(dir, "tmp-snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove existing snapshot for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to snapshot: %w", err)
	}
	return nil
}

// Read loads a snapshot written by Write.
func Read(path string) (domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return Decode(data, FormatOf(path))
}
