// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ManifestFileName is the name of the archive manifest inside the
// archive directory.
const ManifestFileName = "manifest.json"

// SealedExtension is appended to archives encrypted to age
// recipients.
const SealedExtension = ".age"

// ManifestEntry records one archived session log. The hash covers the
// original uncompressed bytes, so integrity can be checked after
// decompression without trusting the archive pipeline.
type ManifestEntry struct {
	SessionID    string    `json:"session_id"`
	File         string    `json:"file"`
	Hash         string    `json:"hash"`
	Codec        string    `json:"codec"`
	Sealed       bool      `json:"sealed,omitempty"`
	OriginalSize int64     `json:"original_size"`
	ArchivedSize int64     `json:"archived_size"`
	ArchivedAt   time.Time `json:"archived_at"`
}

// LoadManifest reads the manifest from the archive directory. A
// missing manifest is an empty one.
func LoadManifest(dir string) (map[string]ManifestEntry, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFileName))
	if os.IsNotExist(err) {
		return map[string]ManifestEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading archive manifest: %w", err)
	}
	manifest := map[string]ManifestEntry{}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing archive manifest: %w", err)
	}
	return manifest, nil
}

func saveManifest(dir string, manifest map[string]ManifestEntry) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding archive manifest: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dir, ManifestFileName), data, 0o644); err != nil {
		return fmt.Errorf("writing archive manifest: %w", err)
	}
	return nil
}
