// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

// Package record implements the hook entry point. The host runtime
// pipes one event envelope to stdin per hook invocation; this command
// appends the corresponding record to the session log and always
// exits zero.
package record

import (
	"io"
	"os"

	"github.com/hooklog-io/hooklog/cmd/hooklog/cli"
	"github.com/hooklog-io/hooklog/lib/config"
	"github.com/hooklog-io/hooklog/lib/eventfilter"
	"github.com/hooklog-io/hooklog/lib/hookevent"
	"github.com/hooklog-io/hooklog/lib/recorder"
)

// Command returns the record command.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "record",
		Summary: "Record one hook event from stdin",
		Description: `Read a hook event envelope from stdin and append it to the
per-session log. This is the command the installed hook configuration
invokes; it is not usually run by hand.

The exit code is always zero: the host runtime treats a failing hook
as a session problem, and no logging failure is worth interrupting an
agent over. Diagnostics go to stderr as JSON.`,
		Usage: "hooklog record",
		Examples: []cli.Example{
			{
				Description: "Feed one event by hand",
				Command:     `echo '{"session_id":"s1","hook_event_name":"SessionStart"}' | hooklog record`,
			},
		},
		Run: func(args []string) error {
			recordEvent(os.Stdin)
			return nil
		},
	}
}

// recordEvent runs the whole pipeline for one event. Every failure is
// logged and swallowed.
func recordEvent(input io.Reader) {
	projectDir := config.ProjectDir()
	cfg, cfgErr := config.LoadBestEffort(projectDir)
	logger := cli.NewCommandLogger(cfg.Level())
	if cfgErr != nil {
		logger.Warn("using default configuration", "error", cfgErr)
	}

	event, err := hookevent.Decode(input)
	if err != nil {
		logger.Warn("decoding hook event", "error", err)
		return
	}

	rec := recorder.New(cfg.ResolveLogDir(projectDir), logger)
	if cfg.Record.ResponseLimit > 0 {
		rec.ResponseLimit = cfg.Record.ResponseLimit
	}
	if cfg.Store.MaxRecords > 0 {
		rec.Store.MaxRecords = cfg.Store.MaxRecords
	}

	filter, err := eventfilter.Compile(cfg.Filter.Expression)
	switch {
	case err != nil:
		// A broken filter keeps everything rather than dropping
		// everything.
		logger.Warn("compiling filter expression", "error", err)
	case filter != nil:
		// Assigning a typed nil *Filter would make the interface
		// non-nil, so only assign when Compile produced one.
		rec.Filter = filter
	}

	if err := rec.Record(event); err != nil {
		logger.Warn("recording hook event", "error", err)
	}
}
