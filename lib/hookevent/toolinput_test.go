// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

package hookevent

import (
	"encoding/json"
	"testing"
)

func TestTaskInputDecode(t *testing.T) {
	t.Parallel()

	t.Run("decodes full payload", func(t *testing.T) {
		t.Parallel()

		event := &Event{ToolName: ToolTask, ToolInput: mustMarshal(t, map[string]any{
			"subagent_type":     "code-reviewer",
			"model":             "opus",
			"description":       "review the auth changes",
			"run_in_background": true,
			"prompt":            "long prompt body",
		})}

		input, ok := event.Task()
		if !ok {
			t.Fatal("Task() reported no payload")
		}
		if input.SubagentType != "code-reviewer" {
			t.Errorf("SubagentType = %q, want code-reviewer", input.SubagentType)
		}
		if input.Model != "opus" {
			t.Errorf("Model = %q, want opus", input.Model)
		}
		if input.RunInBackground == nil || !*input.RunInBackground {
			t.Errorf("RunInBackground = %v, want pointer to true", input.RunInBackground)
		}
	})

	t.Run("missing input reports false", func(t *testing.T) {
		t.Parallel()

		event := &Event{ToolName: ToolTask}
		if _, ok := event.Task(); ok {
			t.Fatal("Task() reported a payload for nil input")
		}
	})

	t.Run("mismatched shape yields zero value", func(t *testing.T) {
		t.Parallel()

		event := &Event{ToolName: ToolTask, ToolInput: mustMarshal(t, map[string]any{
			"subagent_type": 42,
		})}
		input, ok := event.Task()
		if ok {
			t.Fatal("Task() reported success for a mismatched payload")
		}
		if input != (TaskInput{}) {
			t.Errorf("Task() = %+v, want zero value on mismatch", input)
		}
	})
}

func TestBashInputDecode(t *testing.T) {
	t.Parallel()

	event := &Event{ToolName: ToolBash, ToolInput: mustMarshal(t, map[string]any{
		"command":                   "go test ./...",
		"description":               "Run the test suite",
		"timeout":                   120000,
		"run_in_background":         false,
		"dangerouslyDisableSandbox": true,
	})}

	input, ok := event.Bash()
	if !ok {
		t.Fatal("Bash() reported no payload")
	}
	if input.Command != "go test ./..." {
		t.Errorf("Command = %q", input.Command)
	}
	if input.Timeout == nil || *input.Timeout != 120000 {
		t.Errorf("Timeout = %v, want 120000", input.Timeout)
	}
	if input.RunInBackground == nil || *input.RunInBackground {
		t.Errorf("RunInBackground = %v, want pointer to false", input.RunInBackground)
	}
	if input.NoSandbox == nil || !*input.NoSandbox {
		t.Errorf("NoSandbox = %v, want pointer to true", input.NoSandbox)
	}
}

func TestFileToolInputDecode(t *testing.T) {
	t.Parallel()

	t.Run("read with window", func(t *testing.T) {
		t.Parallel()

		event := &Event{ToolName: ToolRead, ToolInput: mustMarshal(t, map[string]any{
			"file_path": "/src/main.go",
			"offset":    100,
			"limit":     50,
		})}
		input, ok := event.FileRead()
		if !ok {
			t.Fatal("FileRead() reported no payload")
		}
		if input.FilePath != "/src/main.go" {
			t.Errorf("FilePath = %q", input.FilePath)
		}
		if input.Offset == nil || *input.Offset != 100 {
			t.Errorf("Offset = %v, want 100", input.Offset)
		}
		if input.Limit == nil || *input.Limit != 50 {
			t.Errorf("Limit = %v, want 50", input.Limit)
		}
	})

	t.Run("read without window leaves pointers nil", func(t *testing.T) {
		t.Parallel()

		event := &Event{ToolName: ToolRead, ToolInput: mustMarshal(t, map[string]any{
			"file_path": "/src/main.go",
		})}
		input, ok := event.FileRead()
		if !ok {
			t.Fatal("FileRead() reported no payload")
		}
		if input.Offset != nil || input.Limit != nil {
			t.Errorf("Offset = %v, Limit = %v, want nil for absent fields", input.Offset, input.Limit)
		}
	})

	t.Run("write carries content", func(t *testing.T) {
		t.Parallel()

		event := &Event{ToolName: ToolWrite, ToolInput: mustMarshal(t, map[string]any{
			"file_path": "/src/out.txt",
			"content":   "hello world",
		})}
		input, ok := event.FileWrite()
		if !ok {
			t.Fatal("FileWrite() reported no payload")
		}
		if len(input.Content) != 11 {
			t.Errorf("len(Content) = %d, want 11", len(input.Content))
		}
	})

	t.Run("edit with replace_all", func(t *testing.T) {
		t.Parallel()

		event := &Event{ToolName: ToolEdit, ToolInput: mustMarshal(t, map[string]any{
			"file_path":   "/src/main.go",
			"old_string":  "a",
			"new_string":  "b",
			"replace_all": true,
		})}
		input, ok := event.FileEdit()
		if !ok {
			t.Fatal("FileEdit() reported no payload")
		}
		if input.ReplaceAll == nil || !*input.ReplaceAll {
			t.Errorf("ReplaceAll = %v, want pointer to true", input.ReplaceAll)
		}
	})
}

func TestSearchToolInputDecode(t *testing.T) {
	t.Parallel()

	t.Run("grep", func(t *testing.T) {
		t.Parallel()

		event := &Event{ToolName: ToolGrep, ToolInput: mustMarshal(t, map[string]any{
			"pattern":     "func main",
			"path":        "/src",
			"glob":        "*.go",
			"output_mode": "content",
		})}
		input, ok := event.Grep()
		if !ok {
			t.Fatal("Grep() reported no payload")
		}
		if input.Pattern != "func main" || input.Glob != "*.go" || input.OutputMode != "content" {
			t.Errorf("Grep() = %+v", input)
		}
	})

	t.Run("glob", func(t *testing.T) {
		t.Parallel()

		event := &Event{ToolName: ToolGlob, ToolInput: mustMarshal(t, map[string]any{
			"pattern": "**/*.go",
			"path":    "/src",
		})}
		input, ok := event.Glob()
		if !ok {
			t.Fatal("Glob() reported no payload")
		}
		if input.Pattern != "**/*.go" || input.Path != "/src" {
			t.Errorf("Glob() = %+v", input)
		}
	})

	t.Run("web search and fetch", func(t *testing.T) {
		t.Parallel()

		event := &Event{ToolName: ToolWebSearch, ToolInput: mustMarshal(t, map[string]any{
			"query": "flock semantics",
		})}
		search, ok := event.WebSearch()
		if !ok || search.Query != "flock semantics" {
			t.Errorf("WebSearch() = %+v, %v", search, ok)
		}

		event = &Event{ToolName: ToolWebFetch, ToolInput: mustMarshal(t, map[string]any{
			"url": "https://example.com/doc",
		})}
		fetch, ok := event.WebFetch()
		if !ok || fetch.URL != "https://example.com/doc" {
			t.Errorf("WebFetch() = %+v, %v", fetch, ok)
		}
	})

	t.Run("task output", func(t *testing.T) {
		t.Parallel()

		event := &Event{ToolName: ToolTaskOutput, ToolInput: mustMarshal(t, map[string]any{
			"task_id": "task-7",
			"block":   true,
			"timeout": 30000,
		})}
		input, ok := event.TaskOutput()
		if !ok {
			t.Fatal("TaskOutput() reported no payload")
		}
		if input.TaskID != "task-7" {
			t.Errorf("TaskID = %q", input.TaskID)
		}
		if input.Block == nil || !*input.Block {
			t.Errorf("Block = %v, want pointer to true", input.Block)
		}
	})
}

func TestTaskResult(t *testing.T) {
	t.Parallel()

	t.Run("extracts agent id and text", func(t *testing.T) {
		t.Parallel()

		event := &Event{ToolResponse: mustMarshal(t, map[string]any{
			"agentId": "agent-42",
			"content": []map[string]any{
				{"type": "text", "text": "All checks passed."},
			},
		})}
		result, ok := event.TaskResult()
		if !ok {
			t.Fatal("TaskResult() reported no payload")
		}
		if result.AgentID != "agent-42" {
			t.Errorf("AgentID = %q, want agent-42", result.AgentID)
		}
		if result.Text != "All checks passed." {
			t.Errorf("Text = %q", result.Text)
		}
	})

	t.Run("joins text blocks with newlines", func(t *testing.T) {
		t.Parallel()

		event := &Event{ToolResponse: mustMarshal(t, map[string]any{
			"agentId": "agent-42",
			"content": []map[string]any{
				{"type": "text", "text": "first"},
				{"type": "tool_use", "name": "Bash"},
				{"type": "text", "text": "second"},
			},
		})}
		result, ok := event.TaskResult()
		if !ok {
			t.Fatal("TaskResult() reported no payload")
		}
		if result.Text != "first\nsecond" {
			t.Errorf("Text = %q, want text blocks joined, non-text skipped", result.Text)
		}
	})

	t.Run("empty object reports false", func(t *testing.T) {
		t.Parallel()

		event := &Event{ToolResponse: json.RawMessage("{}")}
		if _, ok := event.TaskResult(); ok {
			t.Fatal("TaskResult() reported a payload for an empty object")
		}
	})

	t.Run("array response reports false", func(t *testing.T) {
		t.Parallel()

		event := &Event{ToolResponse: json.RawMessage(`[{"type": "text", "text": "x"}]`)}
		if _, ok := event.TaskResult(); ok {
			t.Fatal("TaskResult() reported a payload for an array response")
		}
	})

	t.Run("missing response reports false", func(t *testing.T) {
		t.Parallel()

		event := &Event{}
		if _, ok := event.TaskResult(); ok {
			t.Fatal("TaskResult() reported a payload for a missing response")
		}
	})

	t.Run("unrelated object decodes empty", func(t *testing.T) {
		t.Parallel()

		event := &Event{ToolResponse: mustMarshal(t, map[string]any{"stdout": "ok"})}
		result, ok := event.TaskResult()
		if !ok {
			t.Fatal("TaskResult() reported no payload for a non-empty object")
		}
		if result.AgentID != "" || result.Text != "" {
			t.Errorf("TaskResult() = %+v, want empty fields", result)
		}
	})
}

// mustMarshal marshals value to JSON, failing the test on error.
func mustMarshal(t *testing.T, value any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshaling test data: %v", err)
	}
	return json.RawMessage(data)
}
