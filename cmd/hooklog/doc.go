// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

// Hooklog is the CLI for recording and inspecting agent hook events.
// It provides subcommands for capturing events from the hook path
// (record), wiring itself into a project's hook configuration
// (install), reading sessions back (show, view), and retiring old
// logs (archive).
package main
