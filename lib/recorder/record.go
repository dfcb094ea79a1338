// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

package recorder

import (
	"bytes"
	"encoding/json"
)

// timestampLayout is the seconds-precision UTC stamp on every record.
const timestampLayout = "2006-01-02T15:04:05Z"

// Record is one session log line. Field order mirrors the emitted
// JSON: identity first, then flattened tool parameters, then
// event-specific payloads.
type Record struct {
	Ts             string          `json:"ts"`
	SessionID      string          `json:"session_id"`
	Event          string          `json:"event"`
	ToolName       string          `json:"tool_name,omitempty"`
	ToolInput      json.RawMessage `json:"tool_input,omitempty"`
	Prompt         string          `json:"prompt,omitempty"`
	CWD            string          `json:"cwd,omitempty"`
	PermissionMode string          `json:"permission_mode,omitempty"`

	SubagentType            string `json:"subagent_type,omitempty"`
	SubagentModel           string `json:"subagent_model,omitempty"`
	SubagentDescription     string `json:"subagent_description,omitempty"`
	SubagentRunInBackground *bool  `json:"subagent_run_in_background,omitempty"`
	SubagentResume          string `json:"subagent_resume,omitempty"`

	BashCommand     string `json:"bash_command,omitempty"`
	BashDescription string `json:"bash_description,omitempty"`
	BashTimeout     *int64 `json:"bash_timeout,omitempty"`
	BashBackground  *bool  `json:"bash_background,omitempty"`
	BashNoSandbox   *bool  `json:"bash_no_sandbox,omitempty"`

	FilePath           string `json:"file_path,omitempty"`
	ReadOffset         *int64 `json:"read_offset,omitempty"`
	ReadLimit          *int64 `json:"read_limit,omitempty"`
	WriteContentLength *int   `json:"write_content_length,omitempty"`
	EditReplaceAll     *bool  `json:"edit_replace_all,omitempty"`

	GrepPattern    string `json:"grep_pattern,omitempty"`
	GrepPath       string `json:"grep_path,omitempty"`
	GrepGlob       string `json:"grep_glob,omitempty"`
	GrepOutputMode string `json:"grep_output_mode,omitempty"`

	GlobPattern string `json:"glob_pattern,omitempty"`
	GlobPath    string `json:"glob_path,omitempty"`

	SearchQuery string `json:"search_query,omitempty"`
	FetchURL    string `json:"fetch_url,omitempty"`

	TaskOutputID      string `json:"task_output_id,omitempty"`
	TaskOutputBlock   *bool  `json:"task_output_block,omitempty"`
	TaskOutputTimeout *int64 `json:"task_output_timeout,omitempty"`

	AgentID           string          `json:"agent_id,omitempty"`
	SubagentResponse  string          `json:"subagent_response,omitempty"`
	ToolResponse      json.RawMessage `json:"tool_response,omitempty"`
	AssistantResponse string          `json:"assistant_response,omitempty"`
	StopHookActive    *bool           `json:"stop_hook_active,omitempty"`

	Source           string `json:"source,omitempty"`
	Reason           string `json:"reason,omitempty"`
	Message          string `json:"message,omitempty"`
	NotificationType string `json:"notification_type,omitempty"`
	Trigger          string `json:"trigger,omitempty"`
}

// normalizeRaw drops payloads a record should not carry: absent, JSON
// null, the empty string, the empty object. Anything else passes
// through untouched, arrays included.
func normalizeRaw(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`)) {
		return nil
	}
	if trimmed[0] == '{' {
		var fields map[string]json.RawMessage
		if json.Unmarshal(trimmed, &fields) == nil && len(fields) == 0 {
			return nil
		}
	}
	return json.RawMessage(trimmed)
}

// truncateRunes caps s at limit runes. The cap is in runes, not
// bytes, so a multibyte character is never split.
func truncateRunes(s string, limit int) string {
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
