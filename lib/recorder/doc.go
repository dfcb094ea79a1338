// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

// Package recorder turns hook events into session log records.
//
// Each hook invocation is one short-lived process: decode the event,
// apply correlation side effects, append one flat JSON record, exit.
// The record flattens the interesting tool parameters into dedicated
// fields (bash_command, file_path, grep_pattern and so on) so that
// logs can be filtered with jq or the built-in filter without digging
// into nested payloads.
//
// Task launches get special treatment. A PreToolUse Task parks its
// metadata as the session's pending launch; the PostToolUse result
// registers the assigned agent id; SubagentStop resolves the agent id
// back to that metadata, falling back to the pending slot when the
// stop event outruns the result. Both orderings of that race produce
// an annotated SubagentStop record.
//
// Absent and empty values are omitted from records. Explicit false
// survives: boolean fields are pointers precisely so a present
// "stop_hook_active": false is distinguishable from a missing one.
package recorder
