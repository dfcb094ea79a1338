// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

package hookevent

import (
	"encoding/json"
	"fmt"
	"io"
)

// Kind classifies hook events into the set the recorder knows how to
// enrich. Unrecognized event names map to KindUnknown and are still
// recorded under their original name.
type Kind string

const (
	// KindPreToolUse fires before a tool call executes.
	KindPreToolUse Kind = "PreToolUse"

	// KindPostToolUse fires after a tool call returns.
	KindPostToolUse Kind = "PostToolUse"

	// KindUserPromptSubmit fires when the user submits a prompt.
	KindUserPromptSubmit Kind = "UserPromptSubmit"

	// KindStop fires when the main agent finishes responding.
	KindStop Kind = "Stop"

	// KindSubagentStop fires when a sub-agent finishes.
	KindSubagentStop Kind = "SubagentStop"

	// KindSessionStart fires when a session begins or resumes.
	KindSessionStart Kind = "SessionStart"

	// KindSessionEnd fires when a session terminates.
	KindSessionEnd Kind = "SessionEnd"

	// KindNotification fires for permission prompts and idle notices.
	KindNotification Kind = "Notification"

	// KindPreCompact fires before the runtime compacts its context.
	KindPreCompact Kind = "PreCompact"

	// KindUnknown covers event names this version does not recognize.
	KindUnknown Kind = "unknown"
)

// UnknownLabel substitutes for a missing session id or event name so
// every record carries both.
const UnknownLabel = "unknown"

// Event is the envelope the runtime sends on stdin. Every hook kind
// uses this structure; unused fields stay zero. ToolInput and
// ToolResponse are kept raw because their shape depends on the tool.
type Event struct {
	SessionID           string          `json:"session_id"`
	TranscriptPath      string          `json:"transcript_path"`
	AgentTranscriptPath string          `json:"agent_transcript_path"`
	CWD                 string          `json:"cwd"`
	HookEventName       string          `json:"hook_event_name"`
	PermissionMode      string          `json:"permission_mode"`
	Prompt              string          `json:"prompt"`
	ToolName            string          `json:"tool_name"`
	ToolInput           json.RawMessage `json:"tool_input"`
	ToolResponse        json.RawMessage `json:"tool_response"`
	AgentID             string          `json:"agent_id"`
	StopHookActive      *bool           `json:"stop_hook_active"`
	Source              string          `json:"source"`
	Reason              string          `json:"reason"`
	Message             string          `json:"message"`
	NotificationType    string          `json:"notification_type"`
	Trigger             string          `json:"trigger"`
}

// Decode reads one hook event from the reader. A missing session id
// or event name is replaced with "unknown" so downstream code never
// branches on empty identity fields.
func Decode(reader io.Reader) (*Event, error) {
	var event Event
	if err := json.NewDecoder(reader).Decode(&event); err != nil {
		return nil, fmt.Errorf("parsing hook event JSON: %w", err)
	}
	if event.SessionID == "" {
		event.SessionID = UnknownLabel
	}
	if event.HookEventName == "" {
		event.HookEventName = UnknownLabel
	}
	return &event, nil
}

// Kind maps the event name onto the closed Kind set.
func (e *Event) Kind() Kind {
	switch e.HookEventName {
	case "PreToolUse":
		return KindPreToolUse
	case "PostToolUse":
		return KindPostToolUse
	case "UserPromptSubmit":
		return KindUserPromptSubmit
	case "Stop":
		return KindStop
	case "SubagentStop":
		return KindSubagentStop
	case "SessionStart":
		return KindSessionStart
	case "SessionEnd":
		return KindSessionEnd
	case "Notification":
		return KindNotification
	case "PreCompact":
		return KindPreCompact
	default:
		return KindUnknown
	}
}

// HasToolInput reports whether the event carries a tool input object
// with at least one field. A missing input, JSON null, an empty
// object, and a non-object payload all report false.
func (e *Event) HasToolInput() bool {
	if len(e.ToolInput) == 0 {
		return false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(e.ToolInput, &fields); err != nil {
		return false
	}
	return len(fields) > 0
}

// StopTranscriptPath returns the transcript to mine for the final
// assistant message. SubagentStop events prefer the agent-specific
// transcript when the runtime provides one.
func (e *Event) StopTranscriptPath() string {
	if e.Kind() == KindSubagentStop && e.AgentTranscriptPath != "" {
		return e.AgentTranscriptPath
	}
	return e.TranscriptPath
}
