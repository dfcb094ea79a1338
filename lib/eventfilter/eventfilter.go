// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

// Package eventfilter compiles the configured CEL expression that
// decides which records reach the session log. The expression sees
// the record's identity and flattened tool fields as plain strings,
// so filters read like `event == "PreToolUse" && tool_name == "Bash"`.
package eventfilter

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/hooklog-io/hooklog/lib/recorder"
)

// Filter is a compiled record filter. The nil filter allows
// everything.
type Filter struct {
	program cel.Program
}

// Compile builds a filter from a CEL expression. An empty expression
// means no filtering and returns a nil filter. Compilation errors are
// returned so a typo in the configuration surfaces at startup, not as
// silently missing log lines.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, nil
	}

	env, err := cel.NewEnv(
		cel.Variable("event", cel.StringType),
		cel.Variable("tool_name", cel.StringType),
		cel.Variable("session_id", cel.StringType),
		cel.Variable("cwd", cel.StringType),
		cel.Variable("permission_mode", cel.StringType),
		cel.Variable("agent_id", cel.StringType),
		cel.Variable("subagent_type", cel.StringType),
		cel.Variable("bash_command", cel.StringType),
		cel.Variable("file_path", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("building filter environment: %w", err)
	}

	ast, issues := env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("parsing filter expression: %w", issues.Err())
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("checking filter expression: %w", issues.Err())
	}
	program, err := env.Program(checked)
	if err != nil {
		return nil, fmt.Errorf("compiling filter expression: %w", err)
	}
	return &Filter{program: program}, nil
}

// Allow reports whether the record passes the filter. Runtime
// evaluation failures and non-boolean results allow the record: a
// filter can narrow the log, it must never silently blank it.
func (f *Filter) Allow(record *recorder.Record) bool {
	if f == nil {
		return true
	}
	out, _, err := f.program.Eval(map[string]any{
		"event":           record.Event,
		"tool_name":       record.ToolName,
		"session_id":      record.SessionID,
		"cwd":             record.CWD,
		"permission_mode": record.PermissionMode,
		"agent_id":        record.AgentID,
		"subagent_type":   record.SubagentType,
		"bash_command":    record.BashCommand,
		"file_path":       record.FilePath,
	})
	if err != nil {
		return true
	}
	allowed, ok := out.Value().(bool)
	if !ok {
		return true
	}
	return allowed
}
