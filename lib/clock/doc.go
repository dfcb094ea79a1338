// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source for testability.
//
// Production code accepts a Clock parameter instead of calling time.Now
// directly. Real() provides standard library behavior; Fake() provides
// a deterministic clock that moves only when the test advances it.
//
// Hooklog processes are short-lived and never wait on timers, so the
// interface is deliberately Now-only: the clock exists to make
// correlation-store timestamps and log-record timestamps reproducible
// in tests, not to schedule work.
//
// # Wiring Pattern
//
// Add a Clock field to structs that read time:
//
//	store := correlation.NewStore(dir)
//	store.Clock = clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
package clock
