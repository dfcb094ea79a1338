// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive implements the "hooklog archive" command: compress
// session logs that have gone idle into an archive directory, and
// prune archives past their retention window. These are operator
// commands, run by hand or from cron, never from the hook path.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/hooklog-io/hooklog/cmd/hooklog/cli"
	"github.com/hooklog-io/hooklog/lib/archive"
	"github.com/hooklog-io/hooklog/lib/config"
	"github.com/hooklog-io/hooklog/lib/render"
)

type options struct {
	logDir     string
	dest       string
	olderThan  string
	codec      string
	recipients []string
	keep       bool
}

// Command returns the archive command group. Running the group itself
// performs an archive pass; "prune" is the only subcommand.
func Command() *cli.Command {
	var opts options
	return &cli.Command{
		Name:    "archive",
		Summary: "Compress idle session logs",
		Description: `Compress session logs that have not been written for longer than the
retention window into <log-dir>/archive, then delete the originals.
Each archive is recorded in a manifest with the BLAKE3 hash of the
original log, so integrity can be checked after decompression.

With --recipient, archives are additionally encrypted to the given
age public keys and carry a .age suffix. A sealed archive decrypts
with "age -d" and decompresses with zstd or lz4 alone; no hooklog
binary is needed to read it back.

Session logs still being written are safe: a log counts as idle only
by its modification time, an active session appends to its log on
every hook event, and the session latest.jsonl points at is never
archived. With --keep the originals stay in place after archiving.`,
		Usage: "hooklog archive [flags]",
		Examples: []cli.Example{
			{
				Description: "Archive sessions idle for the configured window",
				Command:     "hooklog archive",
			},
			{
				Description: "Archive everything idle for more than a day",
				Command:     "hooklog archive --older-than 24h",
			},
			{
				Description: "Seal archives to an age recipient",
				Command:     "hooklog archive --recipient age1ql3z7hjy54pw3hyww5ayyfg7zqgvc7w3j2elw8zmrj2kg5sfn9aqmcac8p",
			},
			{
				Description: "Delete archives older than 90 days",
				Command:     "hooklog archive prune --older-than 2160h",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("archive", pflag.ContinueOnError)
			flagSet.StringVar(&opts.logDir, "log-dir", "", "log directory (default: from configuration)")
			flagSet.StringVar(&opts.dest, "dest", "", "archive directory (default: <log-dir>/archive)")
			flagSet.StringVar(&opts.olderThan, "older-than", "", "idle window before a session is archived (default: from configuration)")
			flagSet.StringVar(&opts.codec, "codec", "", "compression codec, zstd or lz4 (default: from configuration)")
			flagSet.StringArrayVar(&opts.recipients, "recipient", nil, "age recipient to encrypt archives to (repeatable)")
			flagSet.BoolVar(&opts.keep, "keep", false, "keep source logs after archiving")
			return flagSet
		},
		Subcommands: []*cli.Command{
			pruneCommand(),
		},
		Run: func(args []string) error {
			return runArchive(os.Stdout, opts)
		},
	}
}

func runArchive(w io.Writer, opts options) error {
	archiver, cfg, err := newArchiver(opts.logDir, opts.dest)
	if err != nil {
		return err
	}

	codecName := opts.codec
	if codecName == "" {
		codecName = cfg.Archive.Codec
	}
	codec, err := archive.ParseCodec(codecName)
	if err != nil {
		return err
	}
	archiver.Codec = codec

	olderThan, err := windowDuration(opts.olderThan, cfg.Archive.OlderThan)
	if err != nil {
		return err
	}
	archiver.OlderThan = olderThan

	keys := opts.recipients
	if len(keys) == 0 {
		keys = cfg.Archive.Recipients
	}
	recipients, err := archive.ParseRecipients(keys)
	if err != nil {
		return err
	}
	archiver.Recipients = recipients
	archiver.KeepSources = opts.keep

	results, err := archiver.Run()
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(w, "nothing to archive")
		return nil
	}

	for _, result := range results {
		fmt.Fprintf(w, "archived %s: %s (%s -> %s)\n",
			result.SessionID,
			filepath.Base(result.Destination),
			render.HumanSize(result.OriginalSize),
			render.HumanSize(result.ArchivedSize))
	}
	fmt.Fprintf(w, "%d archived to %s\n", len(results), archiver.ArchiveDir)
	return nil
}

type pruneOptions struct {
	logDir    string
	dest      string
	olderThan string
}

func pruneCommand() *cli.Command {
	var opts pruneOptions
	return &cli.Command{
		Name:    "prune",
		Summary: "Delete archives past their retention window",
		Description: `Delete archived session logs whose archive time is older than the
prune window, and drop their manifest entries. Only files listed in
the manifest are touched; anything else in the archive directory is
left alone.`,
		Usage: "hooklog archive prune [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("prune", pflag.ContinueOnError)
			flagSet.StringVar(&opts.logDir, "log-dir", "", "log directory (default: from configuration)")
			flagSet.StringVar(&opts.dest, "dest", "", "archive directory (default: <log-dir>/archive)")
			flagSet.StringVar(&opts.olderThan, "older-than", "", "age before an archive is deleted (default: from configuration)")
			return flagSet
		},
		Run: func(args []string) error {
			return runPrune(os.Stdout, opts)
		},
	}
}

func runPrune(w io.Writer, opts pruneOptions) error {
	archiver, cfg, err := newArchiver(opts.logDir, opts.dest)
	if err != nil {
		return err
	}

	olderThan, err := windowDuration(opts.olderThan, cfg.Archive.PruneOlderThan)
	if err != nil {
		return err
	}

	removed, err := archiver.Prune(olderThan)
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		fmt.Fprintln(w, "nothing to prune")
		return nil
	}
	for _, name := range removed {
		fmt.Fprintf(w, "pruned %s\n", name)
	}
	return nil
}

// newArchiver resolves the log and archive directories from flags and
// configuration and returns an archiver plus the loaded configuration
// for the remaining settings.
func newArchiver(logDirFlag, destFlag string) (*archive.Archiver, *config.Config, error) {
	projectDir := config.ProjectDir()
	cfg, err := config.Load(projectDir)
	if err != nil {
		return nil, nil, err
	}

	logDir := logDirFlag
	if logDir == "" {
		logDir = cfg.ResolveLogDir(projectDir)
	}
	archiveDir := destFlag
	if archiveDir == "" {
		archiveDir = filepath.Join(logDir, "archive")
	}

	logger := cli.NewCommandLogger(cfg.Level())
	return archive.NewArchiver(logDir, archiveDir, logger), cfg, nil
}

// windowDuration parses the flag value when set, else the configured
// value.
func windowDuration(flagValue, configured string) (time.Duration, error) {
	text := flagValue
	if text == "" {
		text = configured
	}
	duration, err := time.ParseDuration(text)
	if err != nil {
		return 0, fmt.Errorf("parsing window %q: %w", text, err)
	}
	return duration, nil
}
