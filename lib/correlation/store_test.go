// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

package correlation

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hooklog-io/hooklog/lib/clock"
)

func newTestStore(t *testing.T) (*Store, *clock.FakeClock) {
	t.Helper()
	fake := clock.Fake(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	st := NewStore(t.TempDir())
	st.Clock = fake
	return st, fake
}

func TestRegisterAndLookup(t *testing.T) {
	t.Parallel()
	st, _ := newTestStore(t)

	meta := Metadata{SubagentType: "code-reviewer", Model: "opus", Description: "review the diff"}
	st.Register("agent-1", meta)

	got, ok := st.Lookup("agent-1")
	if !ok {
		t.Fatal("Lookup: agent-1 not found after Register")
	}
	if got != meta {
		t.Fatalf("Lookup = %+v, want %+v", got, meta)
	}
	if _, ok := st.Lookup("agent-2"); ok {
		t.Fatal("Lookup: found agent that was never registered")
	}
}

func TestRegisterOverwritesSameID(t *testing.T) {
	t.Parallel()
	st, _ := newTestStore(t)

	st.Register("agent-1", Metadata{SubagentType: "worker", Description: "first"})
	st.Register("agent-1", Metadata{SubagentType: "worker", Description: "second"})

	got, ok := st.Lookup("agent-1")
	if !ok {
		t.Fatal("Lookup: agent-1 not found")
	}
	if got.Description != "second" {
		t.Fatalf("Description = %q, want the later registration to win", got.Description)
	}
}

func TestEmptyKeysAreIgnored(t *testing.T) {
	t.Parallel()
	st, _ := newTestStore(t)

	st.Register("", Metadata{SubagentType: "worker"})
	st.SetPending("", Metadata{SubagentType: "worker"})
	if _, ok := st.Lookup(""); ok {
		t.Fatal("Lookup(\"\") reported a hit")
	}
	if _, ok := st.TakeAndClearPending(""); ok {
		t.Fatal("TakeAndClearPending(\"\") reported a hit")
	}
	if _, err := os.Stat(st.Path()); !os.IsNotExist(err) {
		t.Fatalf("store file exists after no-op calls: err=%v", err)
	}
}

func TestPendingRoundTrip(t *testing.T) {
	t.Parallel()
	st, _ := newTestStore(t)

	meta := Metadata{SubagentType: "researcher", Description: "dig through the logs"}
	st.SetPending("sess-1", meta)

	got, ok := st.TakeAndClearPending("sess-1")
	if !ok {
		t.Fatal("TakeAndClearPending: pending entry not found")
	}
	if got != meta {
		t.Fatalf("TakeAndClearPending = %+v, want %+v", got, meta)
	}
	if _, ok := st.TakeAndClearPending("sess-1"); ok {
		t.Fatal("TakeAndClearPending: second take found an already-cleared entry")
	}
}

func TestPendingMissesWhenNeverSet(t *testing.T) {
	t.Parallel()
	st, _ := newTestStore(t)

	if _, ok := st.TakeAndClearPending("sess-1"); ok {
		t.Fatal("TakeAndClearPending reported a hit on an empty store")
	}
}

func TestPendingSlotIsOverwritten(t *testing.T) {
	t.Parallel()
	st, _ := newTestStore(t)

	st.SetPending("sess-1", Metadata{Description: "first launch"})
	st.SetPending("sess-1", Metadata{Description: "second launch"})

	got, ok := st.TakeAndClearPending("sess-1")
	if !ok {
		t.Fatal("TakeAndClearPending: pending entry not found")
	}
	if got.Description != "second launch" {
		t.Fatalf("Description = %q, want the later launch to occupy the slot", got.Description)
	}
}

func TestPendingDistinctSessionsDoNotCollide(t *testing.T) {
	t.Parallel()
	st, _ := newTestStore(t)

	st.SetPending("sess-1", Metadata{Description: "one"})
	st.SetPending("sess-2", Metadata{Description: "two"})

	got, ok := st.TakeAndClearPending("sess-2")
	if !ok || got.Description != "two" {
		t.Fatalf("TakeAndClearPending(sess-2) = %+v, %v", got, ok)
	}
	got, ok = st.TakeAndClearPending("sess-1")
	if !ok || got.Description != "one" {
		t.Fatalf("TakeAndClearPending(sess-1) = %+v, %v", got, ok)
	}
}

func TestEvictionKeepsNewestRecords(t *testing.T) {
	t.Parallel()
	st, fake := newTestStore(t)
	st.MaxRecords = 3

	for i := 0; i < 5; i++ {
		st.Register(fmt.Sprintf("agent-%d", i), Metadata{SubagentType: "worker"})
		fake.Advance(time.Second)
	}

	for i := 0; i < 2; i++ {
		if _, ok := st.Lookup(fmt.Sprintf("agent-%d", i)); ok {
			t.Fatalf("agent-%d survived eviction, want the oldest records dropped", i)
		}
	}
	for i := 2; i < 5; i++ {
		if _, ok := st.Lookup(fmt.Sprintf("agent-%d", i)); !ok {
			t.Fatalf("agent-%d evicted, want the newest records kept", i)
		}
	}
}

func TestEvictionCountsPendingEntries(t *testing.T) {
	t.Parallel()
	st, fake := newTestStore(t)
	st.MaxRecords = 2

	st.SetPending("sess-1", Metadata{Description: "stale launch"})
	fake.Advance(time.Second)
	st.Register("agent-1", Metadata{})
	fake.Advance(time.Second)
	st.Register("agent-2", Metadata{})

	if _, ok := st.TakeAndClearPending("sess-1"); ok {
		t.Fatal("pending entry survived eviction, want it counted against the cap")
	}
	for _, id := range []string{"agent-1", "agent-2"} {
		if _, ok := st.Lookup(id); !ok {
			t.Fatalf("%s evicted, want registered agents kept", id)
		}
	}
}

func TestSetPendingNeverEvicts(t *testing.T) {
	t.Parallel()
	st, fake := newTestStore(t)
	st.MaxRecords = 1

	st.SetPending("sess-1", Metadata{Description: "one"})
	fake.Advance(time.Second)
	st.SetPending("sess-2", Metadata{Description: "two"})

	if _, ok := st.TakeAndClearPending("sess-1"); !ok {
		t.Fatal("sess-1 pending entry missing, want SetPending to leave the cap alone")
	}
	if _, ok := st.TakeAndClearPending("sess-2"); !ok {
		t.Fatal("sess-2 pending entry missing")
	}
}

func TestCorruptFileSelfHeals(t *testing.T) {
	t.Parallel()
	st, _ := newTestStore(t)

	if err := os.WriteFile(st.Path(), []byte("{\"agent-1\": {truncated"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}
	if _, ok := st.Lookup("agent-1"); ok {
		t.Fatal("Lookup on a corrupt file reported a hit, want an empty store")
	}

	st.Register("agent-2", Metadata{Model: "sonnet"})
	if _, ok := st.Lookup("agent-2"); !ok {
		t.Fatal("Register after corruption did not take")
	}

	data, err := os.ReadFile(st.Path())
	if err != nil {
		t.Fatalf("read store file: %v", err)
	}
	var state map[string]json.RawMessage
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatalf("store file is not valid JSON after self-heal: %v", err)
	}
	if len(state) != 1 {
		t.Fatalf("store holds %d records, want 1", len(state))
	}
}

func TestRewriteShrinksFile(t *testing.T) {
	t.Parallel()
	st, _ := newTestStore(t)

	st.SetPending("sess-1", Metadata{Description: strings.Repeat("x", 512)})
	if _, ok := st.TakeAndClearPending("sess-1"); !ok {
		t.Fatal("TakeAndClearPending: pending entry not found")
	}

	data, err := os.ReadFile(st.Path())
	if err != nil {
		t.Fatalf("read store file: %v", err)
	}
	var state map[string]json.RawMessage
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatalf("store file has trailing garbage after shrink: %v", err)
	}
	if len(state) != 0 {
		t.Fatalf("store holds %d records, want 0", len(state))
	}
}

func TestRegisteredAtComesFromClock(t *testing.T) {
	t.Parallel()
	st, fake := newTestStore(t)

	st.Register("agent-1", Metadata{})

	data, err := os.ReadFile(st.Path())
	if err != nil {
		t.Fatalf("read store file: %v", err)
	}
	var state map[string]record
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatalf("decode store file: %v", err)
	}
	if got := state["agent-1"].RegisteredAt; !got.Equal(fake.Now()) {
		t.Fatalf("RegisteredAt = %v, want %v", got, fake.Now())
	}
}

func TestConcurrentRegisterLosesNothing(t *testing.T) {
	t.Parallel()
	st := NewStore(t.TempDir())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st.Register(fmt.Sprintf("agent-%02d", i), Metadata{SubagentType: "worker"})
		}(i)
	}
	wg.Wait()

	for i := 0; i < 16; i++ {
		if _, ok := st.Lookup(fmt.Sprintf("agent-%02d", i)); !ok {
			t.Fatalf("agent-%02d lost under concurrent registration", i)
		}
	}
}

func TestConcurrentTakeIsExclusive(t *testing.T) {
	t.Parallel()
	st := NewStore(t.TempDir())
	st.SetPending("sess-1", Metadata{Description: "contended"})

	var hits atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := st.TakeAndClearPending("sess-1"); ok {
				hits.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := hits.Load(); got != 1 {
		t.Fatalf("%d takers observed the pending entry, want exactly 1", got)
	}
}
