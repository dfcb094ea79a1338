// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive compresses finished session logs out of the live
// log directory. Each archived log is compressed (zstd or LZ4),
// optionally encrypted to age recipients, hashed with BLAKE3, and
// recorded in a manifest that later prune runs consult. Archives use
// the codecs' standard frame formats, so an unsealed archive is
// recoverable with plain zstd or lz4 command line tools.
package archive

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"filippo.io/age"
	"github.com/zeebo/blake3"

	"github.com/hooklog-io/hooklog/lib/clock"
	"github.com/hooklog-io/hooklog/lib/sessionlog"
)

// DefaultOlderThan is the default age a session log must reach before
// an archive run picks it up.
const DefaultOlderThan = 7 * 24 * time.Hour

// Archiver moves session logs from the live log directory into the
// archive directory.
type Archiver struct {
	// LogDir holds the live session logs.
	LogDir string

	// ArchiveDir receives archives and the manifest. Created on
	// demand.
	ArchiveDir string

	// Codec selects the compression applied to each log.
	Codec Codec

	// Recipients, when non-empty, seals each archive to these age
	// recipients after compression.
	Recipients []age.Recipient

	// OlderThan is the minimum age of a session log's last write
	// before it is archived. Zero archives everything.
	OlderThan time.Duration

	// KeepSources leaves the source logs in place after archiving
	// instead of removing them.
	KeepSources bool

	// Clock supplies the current time for eligibility cutoffs and
	// manifest timestamps.
	Clock clock.Clock

	// Logger receives per-session progress and failures.
	Logger *slog.Logger
}

// Result describes one session log archived by a run.
type Result struct {
	SessionID    string
	Source       string
	Destination  string
	Hash         string
	OriginalSize int64
	ArchivedSize int64
}

// NewArchiver returns an archiver with the default codec and
// retention window.
func NewArchiver(logDir, archiveDir string, logger *slog.Logger) *Archiver {
	return &Archiver{
		LogDir:     logDir,
		ArchiveDir: archiveDir,
		Codec:      CodecZstd,
		OlderThan:  DefaultOlderThan,
		Clock:      clock.Real(),
		Logger:     logger,
	}
}

// Run archives every session log whose last write is older than the
// retention window, except the one the latest.jsonl symlink targets.
// Failures on individual logs are logged and skipped. Source logs are
// removed only after the manifest records their archives, so an
// interrupted run leaves re-archivable sources behind rather than
// orphaned archives.
func (a *Archiver) Run() ([]Result, error) {
	sessions, err := sessionlog.Sessions(a.LogDir)
	if err != nil {
		return nil, err
	}
	manifest, err := LoadManifest(a.ArchiveDir)
	if err != nil {
		return nil, err
	}

	// A resumed session keeps its original log file, so the file the
	// latest.jsonl symlink targets can look stale by mtime while the
	// session is still live. Never archive it out from under the
	// recorder.
	latest, hasLatest := sessionlog.Latest(a.LogDir)

	cutoff := a.Clock.Now().Add(-a.OlderThan)
	var results []Result
	for _, session := range sessions {
		if session.ModTime.After(cutoff) {
			continue
		}
		if hasLatest && session.ID == latest.ID {
			a.Logger.Debug("skipping current session", "session_id", session.ID)
			continue
		}
		result, err := a.archiveOne(session)
		if err != nil {
			a.Logger.Warn("archiving session log",
				"session_id", session.ID,
				"error", err)
			continue
		}
		manifest[session.ID] = ManifestEntry{
			SessionID:    session.ID,
			File:         filepath.Base(result.Destination),
			Hash:         result.Hash,
			Codec:        a.Codec.String(),
			Sealed:       len(a.Recipients) > 0,
			OriginalSize: result.OriginalSize,
			ArchivedSize: result.ArchivedSize,
			ArchivedAt:   a.Clock.Now().UTC(),
		}
		results = append(results, result)
	}
	if len(results) == 0 {
		return nil, nil
	}

	if err := saveManifest(a.ArchiveDir, manifest); err != nil {
		return results, err
	}
	for _, result := range results {
		if !a.KeepSources {
			if err := os.Remove(result.Source); err != nil {
				a.Logger.Warn("removing archived session log",
					"path", result.Source,
					"error", err)
				continue
			}
		}
		a.Logger.Info("session log archived",
			"session_id", result.SessionID,
			"destination", result.Destination,
			"original_size", result.OriginalSize,
			"archived_size", result.ArchivedSize)
	}
	return results, nil
}

func (a *Archiver) archiveOne(session sessionlog.Session) (Result, error) {
	source, err := os.Open(session.Path)
	if err != nil {
		return Result{}, fmt.Errorf("opening session log: %w", err)
	}
	defer source.Close()

	name := filepath.Base(session.Path) + a.Codec.Extension()
	if len(a.Recipients) > 0 {
		name += SealedExtension
	}
	destinationPath := filepath.Join(a.ArchiveDir, name)
	if err := os.MkdirAll(a.ArchiveDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating archive directory: %w", err)
	}
	destination, err := os.Create(destinationPath)
	if err != nil {
		return Result{}, fmt.Errorf("creating archive: %w", err)
	}

	hasher := blake3.New()
	var originalSize int64
	err = func() error {
		// The seal wraps the compressed stream: compress first, then
		// encrypt, and close in the reverse order so each layer can
		// flush its trailer.
		var sink io.Writer = destination
		var seal io.WriteCloser
		if len(a.Recipients) > 0 {
			seal, err = age.Encrypt(destination, a.Recipients...)
			if err != nil {
				return fmt.Errorf("starting encryption: %w", err)
			}
			sink = seal
		}
		compressor, err := a.Codec.NewWriter(sink)
		if err != nil {
			return err
		}
		originalSize, err = io.Copy(compressor, io.TeeReader(source, hasher))
		if err != nil {
			return fmt.Errorf("compressing session log: %w", err)
		}
		if err := compressor.Close(); err != nil {
			return fmt.Errorf("finishing compression: %w", err)
		}
		if seal != nil {
			if err := seal.Close(); err != nil {
				return fmt.Errorf("finishing encryption: %w", err)
			}
		}
		if err := destination.Close(); err != nil {
			return fmt.Errorf("closing archive: %w", err)
		}
		return nil
	}()
	if err != nil {
		destination.Close()
		os.Remove(destinationPath)
		return Result{}, err
	}

	info, err := os.Stat(destinationPath)
	if err != nil {
		return Result{}, fmt.Errorf("sizing archive: %w", err)
	}
	sum := hasher.Sum(nil)
	return Result{
		SessionID:    session.ID,
		Source:       session.Path,
		Destination:  destinationPath,
		Hash:         hex.EncodeToString(sum),
		OriginalSize: originalSize,
		ArchivedSize: info.Size(),
	}, nil
}

// Prune deletes archives older than the given duration and drops them
// from the manifest. It returns the names of the removed archive
// files.
func (a *Archiver) Prune(olderThan time.Duration) ([]string, error) {
	manifest, err := LoadManifest(a.ArchiveDir)
	if err != nil {
		return nil, err
	}
	cutoff := a.Clock.Now().Add(-olderThan)
	var removed []string
	for id, entry := range manifest {
		if entry.ArchivedAt.After(cutoff) {
			continue
		}
		path := filepath.Join(a.ArchiveDir, entry.File)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			a.Logger.Warn("removing expired archive",
				"file", entry.File,
				"error", err)
			continue
		}
		delete(manifest, id)
		removed = append(removed, entry.File)
		a.Logger.Info("expired archive removed", "file", entry.File)
	}
	if len(removed) == 0 {
		return nil, nil
	}
	sort.Strings(removed)
	if err := saveManifest(a.ArchiveDir, manifest); err != nil {
		return removed, err
	}
	return removed, nil
}

// ParseRecipients parses age X25519 public keys, typically from the
// configuration's recipients list.
func ParseRecipients(keys []string) ([]age.Recipient, error) {
	recipients := make([]age.Recipient, 0, len(keys))
	for _, key := range keys {
		recipient, err := age.ParseX25519Recipient(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("parsing archive recipient %q: %w", key, err)
		}
		recipients = append(recipients, recipient)
	}
	return recipients, nil
}
