// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

// Package correlation persists the link between a sub-agent's launch
// metadata and the agent id it is assigned only after it starts.
//
// The store is a single JSON file (agent_state.json) shared by every
// hook invocation of the same project. There is no daemon and no
// shared memory: invocations are independent processes, so the file
// itself is the unit of concurrency. Reads take a shared flock(2);
// every mutation is a read-modify-write under an exclusive flock, so
// each operation is atomic with respect to other processes while no
// lock is ever held across operations.
//
// Two keyspaces share the map: agent ids, and pending entries keyed
// "pending_<sessionID>" that bridge the window between a Task launch
// (metadata known, id not yet assigned) and its result (id known).
// One pending slot exists per session; a session that launches a
// second Task before the first resolves overwrites the slot. That is
// a known limitation, kept deliberately: the id-keyed path still
// resolves correctly once the result event registers the agent.
//
// Every operation degrades instead of failing. A corrupt or missing
// file reads as an empty store; a failed write is dropped. Losing
// correlation metadata is strictly less severe than blocking the host
// runtime's event pipeline, which is why no method returns an error.
package correlation
