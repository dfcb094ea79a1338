// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

package correlation

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sys/unix"

	"github.com/hooklog-io/hooklog/lib/clock"
)

// DefaultMaxRecords bounds the store so a long-lived project directory
// cannot grow it without limit. The pruning pass keeps the newest
// records by registration time and counts pending entries against the
// same cap.
const DefaultMaxRecords = 100

// StateFileName is the store file created inside the log directory.
const StateFileName = "agent_state.json"

const pendingPrefix = "pending_"

// Metadata is the launch description of a sub-agent: what kind of
// agent was asked for, on which model, and the one-line task summary.
// All fields are optional and omitted from disk when empty.
type Metadata struct {
	SubagentType string `json:"subagent_type,omitempty"`
	Model        string `json:"model,omitempty"`
	Description  string `json:"description,omitempty"`
}

// record is the on-disk shape of one store entry.
type record struct {
	Metadata
	RegisteredAt time.Time `json:"registered_at"`
}

// Store reads and writes the correlation file. The zero value is not
// usable; construct with NewStore and override the exported fields
// before first use if needed.
type Store struct {
	path string

	// Clock stamps registrations and orders eviction.
	Clock clock.Clock

	// MaxRecords caps the number of entries kept after a registration.
	MaxRecords int
}

// NewStore returns a store backed by agent_state.json inside dir.
func NewStore(dir string) *Store {
	return &Store{
		path:       filepath.Join(dir, StateFileName),
		Clock:      clock.Real(),
		MaxRecords: DefaultMaxRecords,
	}
}

// Path returns the location of the store file.
func (s *Store) Path() string { return s.path }

// Register stores metadata under an assigned agent id, overwriting any
// previous entry for the same id. Registering more ids than MaxRecords
// evicts the oldest entries, pending ones included. An empty id is
// ignored.
func (s *Store) Register(agentID string, meta Metadata) {
	if agentID == "" {
		return
	}
	s.mutate(func(state map[string]record) bool {
		state[agentID] = record{Metadata: meta, RegisteredAt: s.Clock.Now().UTC()}
		s.prune(state)
		return true
	})
}

// Lookup returns the metadata registered for an agent id. The second
// return reports whether the id was present.
func (s *Store) Lookup(agentID string) (Metadata, bool) {
	if agentID == "" {
		return Metadata{}, false
	}
	state := s.read()
	rec, ok := state[agentID]
	return rec.Metadata, ok
}

// SetPending parks metadata under the session that launched a
// sub-agent whose id is not known yet. Each session has a single
// pending slot; a second launch before the first resolves replaces it.
func (s *Store) SetPending(sessionID string, meta Metadata) {
	if sessionID == "" {
		return
	}
	s.mutate(func(state map[string]record) bool {
		state[pendingPrefix+sessionID] = record{Metadata: meta, RegisteredAt: s.Clock.Now().UTC()}
		return true
	})
}

// TakeAndClearPending removes and returns the pending slot for a
// session. Check-and-delete happens under one exclusive lock, so two
// racing callers cannot both observe the entry.
func (s *Store) TakeAndClearPending(sessionID string) (Metadata, bool) {
	if sessionID == "" {
		return Metadata{}, false
	}
	var (
		meta  Metadata
		found bool
	)
	s.mutate(func(state map[string]record) bool {
		rec, ok := state[pendingPrefix+sessionID]
		if !ok {
			return false
		}
		meta, found = rec.Metadata, true
		delete(state, pendingPrefix+sessionID)
		return true
	})
	return meta, found
}

// read loads the store under a shared lock. Any failure, from a
// missing file to corrupt JSON, yields an empty state.
func (s *Store) read() map[string]record {
	f, err := os.Open(s.path)
	if err != nil {
		return map[string]record{}
	}
	defer f.Close()

	if err := flock(int(f.Fd()), unix.LOCK_SH); err != nil {
		return map[string]record{}
	}
	defer flock(int(f.Fd()), unix.LOCK_UN)

	return decodeState(f)
}

// mutate runs fn on the current state under an exclusive lock and, if
// fn reports a change, writes the result back in place. Rewriting the
// locked file rather than renaming a temp file over it keeps the lock
// meaningful: flock follows the inode, and a rename would let a racing
// process lock a stale one. A torn write from a crash mid-rewrite is
// repaired by the corrupt-file path on the next read.
func (s *Store) mutate(fn func(map[string]record) bool) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	if err := flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		return
	}
	defer flock(int(f.Fd()), unix.LOCK_UN)

	state := decodeState(f)
	if !fn(state) {
		return
	}

	data, err := json.Marshal(state)
	if err != nil {
		return
	}
	if err := f.Truncate(0); err != nil {
		return
	}
	if _, err := f.WriteAt(data, 0); err != nil {
		return
	}
}

// prune drops the oldest records until at most MaxRecords remain.
// Ties on registration time break by key so eviction is deterministic.
func (s *Store) prune(state map[string]record) {
	if s.MaxRecords <= 0 || len(state) <= s.MaxRecords {
		return
	}
	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := state[keys[i]], state[keys[j]]
		if !ri.RegisteredAt.Equal(rj.RegisteredAt) {
			return ri.RegisteredAt.Before(rj.RegisteredAt)
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys[:len(keys)-s.MaxRecords] {
		delete(state, k)
	}
}

func decodeState(r io.Reader) map[string]record {
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return map[string]record{}
	}
	var state map[string]record
	if err := json.Unmarshal(data, &state); err != nil || state == nil {
		return map[string]record{}
	}
	return state
}

// flock retries on EINTR; signals must not turn an advisory lock into
// a silent no-op.
func flock(fd int, how int) error {
	for {
		err := unix.Flock(fd, how)
		if err != unix.EINTR {
			return err
		}
	}
}
