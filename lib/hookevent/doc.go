// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

// Package hookevent decodes the JSON envelope the agent runtime pipes
// to hook handlers on stdin. All hook kinds share one envelope; fields
// a kind does not populate are zero. Tool input and tool response stay
// raw until a caller asks for a typed view, so an envelope with an
// unexpected payload shape still decodes and still gets logged.
//
// Decoding never invents data: missing session id and event name fall
// back to "unknown", everything else is reported as absent. Typed
// accessors return ok=false instead of an error when the payload does
// not match, because at the hook boundary a malformed payload is an
// event to record, not a failure to propagate.
package hookevent
