// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

// Package show prints a recorded session to stdout: one line per
// record, with optional markdown rendering of prompts and assistant
// responses when the output is a terminal.
package show

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/hooklog-io/hooklog/cmd/hooklog/cli"
	"github.com/hooklog-io/hooklog/lib/config"
	"github.com/hooklog-io/hooklog/lib/recorder"
	"github.com/hooklog-io/hooklog/lib/render"
	"github.com/hooklog-io/hooklog/lib/sessionlog"
)

type options struct {
	logDir   string
	markdown bool
	jsonOut  bool
	list     bool
}

// Command returns the show command.
func Command() *cli.Command {
	var opts options
	return &cli.Command{
		Name:    "show",
		Summary: "Print a recorded session",
		Description: `Print the records of one session, newest session by default. Output
is one line per record; with --markdown, prompts and assistant
responses are rendered in full below their lines. When stdout is not
a terminal the output is plain text without styling.`,
		Usage: "hooklog show [session-id] [flags]",
		Examples: []cli.Example{
			{
				Description: "Show the most recent session",
				Command:     "hooklog show",
			},
			{
				Description: "Show one session with rendered responses",
				Command:     "hooklog show 7ac31f2e --markdown",
			},
			{
				Description: "List recorded sessions",
				Command:     "hooklog show --list",
			},
			{
				Description: "Re-emit a session's raw JSONL",
				Command:     "hooklog show 7ac31f2e --json | jq .event",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("show", pflag.ContinueOnError)
			flagSet.StringVar(&opts.logDir, "log-dir", "", "log directory (default: from configuration)")
			flagSet.BoolVar(&opts.markdown, "markdown", false, "render prompts and responses as markdown")
			flagSet.BoolVar(&opts.jsonOut, "json", false, "emit the raw JSONL records")
			flagSet.BoolVar(&opts.list, "list", false, "list recorded sessions instead")
			return flagSet
		},
		Run: func(args []string) error {
			return run(os.Stdout, opts, args)
		},
	}
}

func run(w io.Writer, opts options, args []string) error {
	logDir, err := resolveLogDir(opts.logDir)
	if err != nil {
		return err
	}

	if opts.list {
		return listSessions(w, logDir)
	}

	var path string
	if len(args) > 0 {
		path = filepath.Join(logDir, sessionlog.FileName(args[0]))
	} else {
		session, ok := sessionlog.Latest(logDir)
		if !ok {
			fmt.Fprintf(os.Stderr, "no sessions recorded under %s\n", logDir)
			return &cli.ExitError{Code: 1}
		}
		path = session.Path
	}

	lines, err := sessionlog.Entries(path)
	if err != nil {
		return fmt.Errorf("reading session log: %w", err)
	}

	if opts.jsonOut {
		for _, line := range lines {
			w.Write(line)
			io.WriteString(w, "\n")
		}
		return nil
	}

	width, styled := outputWidth()
	for _, line := range lines {
		var record recorder.Record
		if err := json.Unmarshal(line, &record); err != nil {
			continue
		}
		printRecord(w, &record, width, styled, opts.markdown)
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

// outputWidth reports the terminal width of stdout and whether styled
// output is appropriate. Piped output is plain and unbounded.
func outputWidth() (int, bool) {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if width, _, err := term.GetSize(fd); err == nil && width > 0 {
			return width, true
		}
	}
	return 100, false
}

func printRecord(w io.Writer, record *recorder.Record, width int, styled, markdown bool) {
	clock := render.ClockTime(record.Ts)
	gist := render.Summary(record)

	if !styled {
		line := fmt.Sprintf("%s  %-16s  %-10s  %s", clock, record.Event, record.ToolName, gist)
		fmt.Fprintln(w, strings.TrimRight(line, " "))
		if markdown {
			if text := render.LongText(record); text != "" {
				fmt.Fprintln(w, indent(text, "  "))
				fmt.Fprintln(w)
			}
		}
		return
	}

	theme := render.DefaultTheme
	lip := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lip.SetColorProfile(termenv.ANSI256)

	line := lip.NewStyle().Foreground(theme.FaintText).Render(clock) +
		"  " + lip.NewStyle().Foreground(theme.EventColor(record.Event)).Render(fmt.Sprintf("%-16s", record.Event)) +
		"  " + lip.NewStyle().Foreground(theme.NormalText).Render(fmt.Sprintf("%-10s", record.ToolName)) +
		"  " + lip.NewStyle().Foreground(theme.NormalText).Render(gist)
	fmt.Fprintln(w, ansi.Truncate(line, width, "…"))

	if markdown {
		if text := render.LongText(record); text != "" {
			rendered := render.Markdown(text, theme, width-2)
			fmt.Fprintln(w, indent(rendered, "  "))
			fmt.Fprintln(w)
		}
	}
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for index, line := range lines {
		if line != "" {
			lines[index] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func listSessions(w io.Writer, logDir string) error {
	sessions, err := sessionlog.Sessions(logDir)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Fprintf(os.Stderr, "no sessions recorded under %s\n", logDir)
		return &cli.ExitError{Code: 1}
	}

	latestID := ""
	if latest, ok := sessionlog.Latest(logDir); ok {
		latestID = latest.ID
	}

	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tMODIFIED\tSIZE")
	for _, session := range sessions {
		marker := ""
		if session.ID == latestID {
			marker = " *"
		}
		fmt.Fprintf(tw, "%s%s\t%s\t%s\n",
			session.ID, marker,
			session.ModTime.Format("2006-01-02 15:04:05"),
			render.HumanSize(session.Size))
	}
	return tw.Flush()
}
