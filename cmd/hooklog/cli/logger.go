// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger builds the structured logger for a command. When
// stderr is a terminal it uses TextHandler for readable output; when
// piped or redirected (hook invocations, scripts, CI) it switches to
// JSONHandler so the diagnostics are machine-parseable and never
// mistaken for the command's own output.
func NewCommandLogger(level slog.Level) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}
