// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hooklog-io/hooklog/lib/sessionlog"
)

// withProject points the pipeline at a fresh project directory and
// clears the ambient overrides so only that directory matters.
func withProject(t *testing.T) string {
	t.Helper()
	projectDir := t.TempDir()
	t.Setenv("CLAUDE_PROJECT_DIR", projectDir)
	t.Setenv("HOOKLOG_CONFIG", "")
	t.Setenv("HOOKLOG_LOG_DIR", "")
	t.Setenv("HOOKLOG_LOG_LEVEL", "")
	return projectDir
}

func readSession(t *testing.T, projectDir, sessionID string) []map[string]any {
	t.Helper()
	path := filepath.Join(projectDir, "hooks", "logs", sessionlog.FileName(sessionID))
	lines, err := sessionlog.Entries(path)
	if err != nil {
		t.Fatalf("reading session log: %v", err)
	}
	records := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		var record map[string]any
		if err := json.Unmarshal(line, &record); err != nil {
			t.Fatalf("decoding record %s: %v", line, err)
		}
		records = append(records, record)
	}
	return records
}

func TestRecordEventWritesSessionLog(t *testing.T) {
	projectDir := withProject(t)

	recordEvent(strings.NewReader(`{
		"session_id": "cmd-test",
		"hook_event_name": "PreToolUse",
		"tool_name": "Bash",
		"tool_input": {"command": "ls -la"}
	}`))

	records := readSession(t, projectDir, "cmd-test")
	if len(records) != 1 {
		t.Fatalf("session log has %d records, want 1", len(records))
	}
	record := records[0]
	if record["event"] != "PreToolUse" {
		t.Errorf("event = %v, want PreToolUse", record["event"])
	}
	if record["bash_command"] != "ls -la" {
		t.Errorf("bash_command = %v, want the flattened command", record["bash_command"])
	}
}

func TestRecordEventSwallowsUndecodableInput(t *testing.T) {
	projectDir := withProject(t)

	recordEvent(strings.NewReader("this is not JSON"))

	if _, err := os.Stat(filepath.Join(projectDir, "hooks", "logs")); !os.IsNotExist(err) {
		t.Error("undecodable input still created the log directory")
	}
}

func TestRecordEventHonorsConfiguredFilter(t *testing.T) {
	projectDir := withProject(t)
	claudeDir := filepath.Join(projectDir, ".claude")
	if err := os.MkdirAll(claudeDir, 0o755); err != nil {
		t.Fatalf("creating .claude: %v", err)
	}
	configYAML := "filter:\n  expression: 'event != \"PreToolUse\"'\n"
	if err := os.WriteFile(filepath.Join(claudeDir, "hooklog.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	recordEvent(strings.NewReader(`{
		"session_id": "filtered",
		"hook_event_name": "PreToolUse",
		"tool_name": "Bash",
		"tool_input": {"command": "ls"}
	}`))
	recordEvent(strings.NewReader(`{
		"session_id": "filtered",
		"hook_event_name": "UserPromptSubmit",
		"prompt": "hello"
	}`))

	records := readSession(t, projectDir, "filtered")
	if len(records) != 1 {
		t.Fatalf("session log has %d records, want only the prompt event", len(records))
	}
	if records[0]["event"] != "UserPromptSubmit" {
		t.Errorf("surviving event = %v, want UserPromptSubmit", records[0]["event"])
	}
}

func TestRecordEventHonorsLogDirOverride(t *testing.T) {
	withProject(t)
	logDir := filepath.Join(t.TempDir(), "elsewhere")
	t.Setenv("HOOKLOG_LOG_DIR", logDir)

	recordEvent(strings.NewReader(`{
		"session_id": "redirected",
		"hook_event_name": "SessionStart",
		"source": "startup"
	}`))

	if _, err := os.Stat(filepath.Join(logDir, sessionlog.FileName("redirected"))); err != nil {
		t.Errorf("session log not written to the overridden directory: %v", err)
	}
}
