// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

// Package install wires hooklog into a project's hook configuration.
// It merges a `hooklog record` entry into every hook event of
// .claude/settings.json, preserving whatever else the file contains.
package install

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"

	"github.com/hooklog-io/hooklog/cmd/hooklog/cli"
	"github.com/hooklog-io/hooklog/lib/config"
	"github.com/hooklog-io/hooklog/lib/hookevent"
)

// hookEvents are the events the record command understands, in the
// order they are written to the settings file.
var hookEvents = []string{
	string(hookevent.KindPreToolUse),
	string(hookevent.KindPostToolUse),
	string(hookevent.KindUserPromptSubmit),
	string(hookevent.KindStop),
	string(hookevent.KindSubagentStop),
	string(hookevent.KindSessionStart),
	string(hookevent.KindSessionEnd),
	string(hookevent.KindNotification),
	string(hookevent.KindPreCompact),
}

type options struct {
	projectDir string
	binary     string
	local      bool
	remove     bool
	print      bool
}

// Command returns the install command.
func Command() *cli.Command {
	var opts options
	return &cli.Command{
		Name:    "install",
		Summary: "Wire hooklog into the project's hook configuration",
		Description: `Merge a "hooklog record" hook entry into every hook event of the
project's .claude/settings.json. Existing settings and foreign hook
entries are preserved; a previously installed hooklog entry is
replaced. The file is rewritten as plain JSON, so comments in an
existing file are not preserved.`,
		Usage: "hooklog install [flags]",
		Examples: []cli.Example{
			{
				Description: "Install into the current project",
				Command:     "hooklog install",
			},
			{
				Description: "Install into the personal settings file instead",
				Command:     "hooklog install --local",
			},
			{
				Description: "Preview the merged settings without writing",
				Command:     "hooklog install --print",
			},
			{
				Description: "Remove hooklog's hook entries again",
				Command:     "hooklog install --remove",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("install", pflag.ContinueOnError)
			flagSet.StringVar(&opts.projectDir, "project", "", "project directory (default: $CLAUDE_PROJECT_DIR or the working directory)")
			flagSet.StringVar(&opts.binary, "binary", "", "hook binary path written into the settings (default: this executable)")
			flagSet.BoolVar(&opts.local, "local", false, "write .claude/settings.local.json instead of settings.json")
			flagSet.BoolVar(&opts.remove, "remove", false, "remove hooklog's hook entries instead of installing")
			flagSet.BoolVar(&opts.print, "print", false, "print the resulting settings to stdout without writing")
			return flagSet
		},
		Run: func(args []string) error {
			return run(opts)
		},
	}
}

func run(opts options) error {
	if opts.projectDir == "" {
		opts.projectDir = config.ProjectDir()
	}
	binary := opts.binary
	if binary == "" {
		executable, err := os.Executable()
		if err != nil {
			return fmt.Errorf("locating the hooklog binary: %w", err)
		}
		binary = executable
	}

	name := "settings.json"
	if opts.local {
		name = "settings.local.json"
	}
	path := filepath.Join(opts.projectDir, ".claude", name)

	settings, err := loadSettings(path)
	if err != nil {
		return err
	}

	if opts.remove {
		removeHooks(settings)
	} else {
		installHooks(settings, binary)
	}

	data, err := json.MarshalIndent(settings, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	data = append(data, '\n')

	if opts.print {
		os.Stdout.Write(data)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	verb := "installed into"
	if opts.remove {
		verb = "removed from"
	}
	fmt.Printf("hooklog hooks %s %s\n", verb, path)
	return nil
}

// loadSettings reads a settings file, tolerating JSONC comments and
// trailing commas. A missing file is an empty one.
func loadSettings(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var settings map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &settings); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if settings == nil {
		settings = map[string]any{}
	}
	return settings, nil
}

// installHooks appends hooklog's matcher group to every hook event,
// replacing any group hooklog installed before.
func installHooks(settings map[string]any, binary string) {
	hooks := asMap(settings["hooks"])
	group := map[string]any{
		"hooks": []any{
			map[string]any{
				"type":    "command",
				"command": binary + " record",
			},
		},
	}
	for _, event := range hookEvents {
		hooks[event] = append(dropHooklogGroups(asSlice(hooks[event])), group)
	}
	settings["hooks"] = hooks
}

// removeHooks strips hooklog's matcher groups, dropping event keys
// (and the hooks object) that end up empty.
func removeHooks(settings map[string]any) {
	hooks := asMap(settings["hooks"])
	for _, event := range hookEvents {
		kept := dropHooklogGroups(asSlice(hooks[event]))
		if len(kept) == 0 {
			delete(hooks, event)
		} else {
			hooks[event] = kept
		}
	}
	if len(hooks) == 0 {
		delete(settings, "hooks")
	} else {
		settings["hooks"] = hooks
	}
}

func dropHooklogGroups(groups []any) []any {
	var kept []any
	for _, group := range groups {
		if !isHooklogGroup(group) {
			kept = append(kept, group)
		}
	}
	return kept
}

// isHooklogGroup reports whether a matcher group consists entirely of
// hooklog record commands. Mixed groups are foreign and left alone.
func isHooklogGroup(group any) bool {
	groupMap, ok := group.(map[string]any)
	if !ok {
		return false
	}
	entries, ok := groupMap["hooks"].([]any)
	if !ok || len(entries) == 0 {
		return false
	}
	for _, entry := range entries {
		entryMap, ok := entry.(map[string]any)
		if !ok {
			return false
		}
		command, _ := entryMap["command"].(string)
		if !isRecordCommand(command) {
			return false
		}
	}
	return true
}

// isRecordCommand recognizes a hook command as ours: a binary named
// hooklog (any path, any suffix) invoking the record subcommand.
func isRecordCommand(command string) bool {
	fields := strings.Fields(command)
	if len(fields) < 2 || fields[1] != "record" {
		return false
	}
	return strings.HasPrefix(filepath.Base(fields[0]), "hooklog")
}

func asMap(value any) map[string]any {
	if m, ok := value.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func asSlice(value any) []any {
	if s, ok := value.([]any); ok {
		return s
	}
	return nil
}
