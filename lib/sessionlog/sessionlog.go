// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

// Package sessionlog owns the on-disk layout of hook logs: one JSONL
// file per session named hooks-<session>.jsonl, plus a latest.jsonl
// symlink pointing at the most recently written one. Writers append,
// never truncate, because every hook invocation is a separate process
// sharing the same file.
package sessionlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LatestLinkName is the symlink that always points at the session file
// written most recently.
const LatestLinkName = "latest.jsonl"

const (
	filePrefix = "hooks-"
	fileSuffix = ".jsonl"
)

// FileName returns the log file name for a session id.
func FileName(sessionID string) string {
	return filePrefix + sessionID + fileSuffix
}

// ParseFileName extracts the session id from a log file name. ok is
// false for names outside the hooks-<session>.jsonl pattern.
func ParseFileName(name string) (string, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
	if id == "" {
		return "", false
	}
	return id, true
}

// Appender writes records to a session log, one compact JSON object
// per line. Encode issues a single write per record, which O_APPEND
// keeps atomic between concurrently logging processes.
type Appender struct {
	file    *os.File
	encoder *json.Encoder
}

// OpenAppender opens (creating if needed) the session log at path for
// appending.
func OpenAppender(path string) (*Appender, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening session log %q: %w", path, err)
	}
	encoder := json.NewEncoder(file)
	// Log lines hold shell commands and URLs; keep < > & readable.
	encoder.SetEscapeHTML(false)
	return &Appender{file: file, encoder: encoder}, nil
}

// Append writes one record as a JSON line and syncs it to disk, so
// the line survives even if the process is killed right after.
func (appender *Appender) Append(record any) error {
	if err := appender.encoder.Encode(record); err != nil {
		return fmt.Errorf("encoding session log record: %w", err)
	}
	if err := appender.file.Sync(); err != nil {
		return fmt.Errorf("syncing session log: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (appender *Appender) Close() error {
	return appender.file.Close()
}

// UpdateLatestLink points latest.jsonl at the session's log file. The
// target is relative so the link survives the log directory moving.
func UpdateLatestLink(dir, sessionID string) error {
	link := filepath.Join(dir, LatestLinkName)
	if err := os.Remove(link); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", LatestLinkName, err)
	}
	if err := os.Symlink(FileName(sessionID), link); err != nil {
		return fmt.Errorf("linking %s: %w", LatestLinkName, err)
	}
	return nil
}
