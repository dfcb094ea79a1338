// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

package hookevent

import (
	"encoding/json"
	"strings"
)

// Tool names the recorder flattens into dedicated record fields.
const (
	ToolTask       = "Task"
	ToolBash       = "Bash"
	ToolRead       = "Read"
	ToolWrite      = "Write"
	ToolEdit       = "Edit"
	ToolGrep       = "Grep"
	ToolGlob       = "Glob"
	ToolWebSearch  = "WebSearch"
	ToolWebFetch   = "WebFetch"
	ToolTaskOutput = "TaskOutput"
)

// TaskInput is the launch payload of the Task tool. Resume carries the
// agent id of a session being resumed rather than freshly launched.
type TaskInput struct {
	SubagentType    string `json:"subagent_type"`
	Model           string `json:"model"`
	Description     string `json:"description"`
	RunInBackground *bool  `json:"run_in_background"`
	Resume          string `json:"resume"`
}

// BashInput is the payload of the Bash tool. Timeout is milliseconds.
type BashInput struct {
	Command         string `json:"command"`
	Description     string `json:"description"`
	Timeout         *int64 `json:"timeout"`
	RunInBackground *bool  `json:"run_in_background"`
	NoSandbox       *bool  `json:"dangerouslyDisableSandbox"`
}

// ReadInput is the payload of the Read tool.
type ReadInput struct {
	FilePath string `json:"file_path"`
	Offset   *int64 `json:"offset"`
	Limit    *int64 `json:"limit"`
}

// WriteInput is the payload of the Write tool. Content can be large;
// the recorder logs only its length.
type WriteInput struct {
	FilePath string `json:"file_path"`
	Content  string `json:"content"`
}

// EditInput is the payload of the Edit tool.
type EditInput struct {
	FilePath   string `json:"file_path"`
	ReplaceAll *bool  `json:"replace_all"`
}

// GrepInput is the payload of the Grep tool.
type GrepInput struct {
	Pattern    string `json:"pattern"`
	Path       string `json:"path"`
	Glob       string `json:"glob"`
	OutputMode string `json:"output_mode"`
}

// GlobInput is the payload of the Glob tool.
type GlobInput struct {
	Pattern string `json:"pattern"`
	Path    string `json:"path"`
}

// WebSearchInput is the payload of the WebSearch tool.
type WebSearchInput struct {
	Query string `json:"query"`
}

// WebFetchInput is the payload of the WebFetch tool.
type WebFetchInput struct {
	URL string `json:"url"`
}

// TaskOutputInput is the payload of the TaskOutput tool, which polls a
// background sub-agent for output.
type TaskOutputInput struct {
	TaskID  string `json:"task_id"`
	Block   *bool  `json:"block"`
	Timeout *int64 `json:"timeout"`
}

// Task decodes the tool input as a Task payload. ok is false when the
// input is missing or does not have the expected shape; the zero value
// is returned in that case, never a partial decode.
func (e *Event) Task() (TaskInput, bool) {
	var input TaskInput
	if !decodeInput(e.ToolInput, &input) {
		return TaskInput{}, false
	}
	return input, true
}

// Bash decodes the tool input as a Bash payload.
func (e *Event) Bash() (BashInput, bool) {
	var input BashInput
	if !decodeInput(e.ToolInput, &input) {
		return BashInput{}, false
	}
	return input, true
}

// FileRead decodes the tool input as a Read payload.
func (e *Event) FileRead() (ReadInput, bool) {
	var input ReadInput
	if !decodeInput(e.ToolInput, &input) {
		return ReadInput{}, false
	}
	return input, true
}

// FileWrite decodes the tool input as a Write payload.
func (e *Event) FileWrite() (WriteInput, bool) {
	var input WriteInput
	if !decodeInput(e.ToolInput, &input) {
		return WriteInput{}, false
	}
	return input, true
}

// FileEdit decodes the tool input as an Edit payload.
func (e *Event) FileEdit() (EditInput, bool) {
	var input EditInput
	if !decodeInput(e.ToolInput, &input) {
		return EditInput{}, false
	}
	return input, true
}

// Grep decodes the tool input as a Grep payload.
func (e *Event) Grep() (GrepInput, bool) {
	var input GrepInput
	if !decodeInput(e.ToolInput, &input) {
		return GrepInput{}, false
	}
	return input, true
}

// Glob decodes the tool input as a Glob payload.
func (e *Event) Glob() (GlobInput, bool) {
	var input GlobInput
	if !decodeInput(e.ToolInput, &input) {
		return GlobInput{}, false
	}
	return input, true
}

// WebSearch decodes the tool input as a WebSearch payload.
func (e *Event) WebSearch() (WebSearchInput, bool) {
	var input WebSearchInput
	if !decodeInput(e.ToolInput, &input) {
		return WebSearchInput{}, false
	}
	return input, true
}

// WebFetch decodes the tool input as a WebFetch payload.
func (e *Event) WebFetch() (WebFetchInput, bool) {
	var input WebFetchInput
	if !decodeInput(e.ToolInput, &input) {
		return WebFetchInput{}, false
	}
	return input, true
}

// TaskOutput decodes the tool input as a TaskOutput payload.
func (e *Event) TaskOutput() (TaskOutputInput, bool) {
	var input TaskOutputInput
	if !decodeInput(e.ToolInput, &input) {
		return TaskOutputInput{}, false
	}
	return input, true
}

// TaskResult is the decoded Task tool response: the agent id the
// runtime assigned to the sub-agent plus the concatenated text blocks
// of its final message.
type TaskResult struct {
	AgentID string
	Text    string
}

// TaskResult decodes the tool response of a completed Task call. ok is
// false when the response is missing, an empty object, not an object
// at all, or shaped unlike a Task result; the caller then falls back
// to recording the raw response.
func (e *Event) TaskResult() (TaskResult, bool) {
	var fields map[string]json.RawMessage
	if len(e.ToolResponse) == 0 || json.Unmarshal(e.ToolResponse, &fields) != nil || len(fields) == 0 {
		return TaskResult{}, false
	}
	var response struct {
		AgentID string `json:"agentId"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(e.ToolResponse, &response); err != nil {
		return TaskResult{}, false
	}
	var texts []string
	for _, block := range response.Content {
		if block.Type == "text" {
			texts = append(texts, block.Text)
		}
	}
	return TaskResult{AgentID: response.AgentID, Text: strings.Join(texts, "\n")}, true
}

// decodeInput unmarshals raw tool input into target. JSON null and a
// missing payload report false without touching target.
func decodeInput(raw json.RawMessage, target any) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return false
	}
	return json.Unmarshal(raw, target) == nil
}
