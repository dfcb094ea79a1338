// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

package sessionlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Session describes one session log file found in the log directory.
type Session struct {
	ID      string
	Path    string
	ModTime time.Time
	Size    int64
}

// Sessions lists the session log files under dir, newest first. The
// latest.jsonl symlink and unrelated files are ignored. A missing
// directory is an empty listing, not an error.
func Sessions(dir string) ([]Session, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading log directory %q: %w", dir, err)
	}

	var sessions []Session
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id, ok := ParseFileName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		sessions = append(sessions, Session{
			ID:      id,
			Path:    filepath.Join(dir, entry.Name()),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].ModTime.Equal(sessions[j].ModTime) {
			return sessions[i].ModTime.After(sessions[j].ModTime)
		}
		return sessions[i].ID < sessions[j].ID
	})
	return sessions, nil
}

// Latest resolves the session the latest.jsonl symlink points at. ok
// is false when the link is missing or dangling.
func Latest(dir string) (Session, bool) {
	link := filepath.Join(dir, LatestLinkName)
	target, err := os.Readlink(link)
	if err != nil {
		return Session{}, false
	}
	id, ok := ParseFileName(filepath.Base(target))
	if !ok {
		return Session{}, false
	}
	path := filepath.Join(dir, filepath.Base(target))
	info, err := os.Stat(path)
	if err != nil {
		return Session{}, false
	}
	return Session{ID: id, Path: path, ModTime: info.ModTime(), Size: info.Size()}, true
}

// Entries reads all records from a session log. Blank and malformed
// lines are skipped rather than failing the read; a log written by a
// crashed process can end mid-line.
func Entries(path string) ([]json.RawMessage, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening session log %q: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var records []json.RawMessage
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		records = append(records, json.RawMessage(append([]byte(nil), line...)))
	}
	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("scanning session log %q: %w", path, err)
	}
	return records, nil
}
