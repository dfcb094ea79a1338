// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete hooklog command tree.
package commands

import (
	"fmt"

	archivecmd "github.com/hooklog-io/hooklog/cmd/hooklog/archive"
	"github.com/hooklog-io/hooklog/cmd/hooklog/cli"
	installcmd "github.com/hooklog-io/hooklog/cmd/hooklog/install"
	recordcmd "github.com/hooklog-io/hooklog/cmd/hooklog/record"
	showcmd "github.com/hooklog-io/hooklog/cmd/hooklog/show"
	viewcmd "github.com/hooklog-io/hooklog/cmd/hooklog/view"
	"github.com/hooklog-io/hooklog/lib/version"
)

// Root builds and returns the complete hooklog command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "hooklog",
		Description: `hooklog: session logging for agent hooks.

Record every hook event the agent runtime emits into per-session
JSONL logs, then browse, filter, and archive them.`,
		Subcommands: []*cli.Command{
			recordcmd.Command(),
			installcmd.Command(),
			showcmd.Command(),
			viewcmd.Command(),
			archivecmd.Command(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Printf("hooklog %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Install the hook configuration into a project (start here)",
				Command:     "hooklog install",
			},
			{
				Description: "Print the most recent session",
				Command:     "hooklog show",
			},
			{
				Description: "Browse all recorded sessions interactively",
				Command:     "hooklog view",
			},
			{
				Description: "Compress session logs idle for more than a week",
				Command:     "hooklog archive",
			},
		},
	}
}
