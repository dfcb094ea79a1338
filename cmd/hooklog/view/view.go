// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

// Package view is the interactive session browser: the session list
// on the left, the selected session's records on the right, with
// fuzzy filtering over session IDs.
package view

import (
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/hooklog-io/hooklog/cmd/hooklog/cli"
	"github.com/hooklog-io/hooklog/lib/config"
	"github.com/hooklog-io/hooklog/lib/recorder"
	"github.com/hooklog-io/hooklog/lib/sessionlog"
)

type options struct {
	logDir string
}

// Command returns the "view" command.
func Command() *cli.Command {
	var opts options
	return &cli.Command{
		Name:    "view",
		Summary: "Browse recorded sessions interactively",
		Description: `Open a fullscreen browser over the recorded sessions. The left pane
lists sessions newest first; the right pane shows the selected
session's records with prompts and assistant responses rendered as
markdown. Type / to fuzzy-filter sessions by ID.`,
		Usage: "hooklog view [flags]",
		Examples: []cli.Example{
			{
				Description: "Browse the project's recorded sessions",
				Command:     "hooklog view",
			},
			{
				Description: "Browse a specific log directory",
				Command:     "hooklog view --log-dir /tmp/hooks/logs",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("view", pflag.ContinueOnError)
			flagSet.StringVar(&opts.logDir, "log-dir", "", "log directory (default: from configuration)")
			return flagSet
		},
		Run: func(args []string) error {
			return run(opts)
		},
	}
}

func run(opts options) error {
	logDir, err := resolveLogDir(opts.logDir)
	if err != nil {
		return err
	}

	sessions, err := loadSessions(logDir)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintf(os.Stderr, "no sessions recorded under %s\n", logDir)
		return &cli.ExitError{Code: 1}
	}

	program := tea.NewProgram(NewModel(sessions), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running viewer: %w", err)
	}
	return nil
}

func resolveLogDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	projectDir := config.ProjectDir()
	cfg, err := config.Load(projectDir)
	if err != nil {
		return "", err
	}
	return cfg.ResolveLogDir(projectDir), nil
}

// loadSessions reads every session log under logDir into memory.
// Records that fail to decode are skipped; a partially written log
// still browses.
func loadSessions(logDir string) ([]SessionData, error) {
	sessions, err := sessionlog.Sessions(logDir)
	if err != nil {
		return nil, err
	}

	var loaded []SessionData
	for _, session := range sessions {
		entries, err := sessionlog.Entries(session.Path)
		if err != nil {
			continue
		}
		data := SessionData{Session: session}
		for _, entry := range entries {
			var record recorder.Record
			if err := json.Unmarshal(entry, &record); err != nil {
				continue
			}
			data.Records = append(data.Records, record)
		}
		loaded = append(loaded, data)
	}
	return loaded, nil
}
