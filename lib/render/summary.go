// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"
	"strings"

	"github.com/hooklog-io/hooklog/lib/hookevent"
	"github.com/hooklog-io/hooklog/lib/recorder"
)

// ClockTime extracts the HH:MM:SS portion of a record timestamp. Raw
// timestamps that do not look like RFC 3339 come back unchanged.
func ClockTime(ts string) string {
	if len(ts) == len("2006-01-02T15:04:05Z") && ts[10] == 'T' {
		return ts[11:19]
	}
	return ts
}

// Summary returns a one-line plain-text gist of a record: the salient
// argument of a tool call, the first line of a prompt or response,
// the message of a notification. Callers style and truncate it to
// their own width. Records with nothing to say return "".
func Summary(record *recorder.Record) string {
	switch hookevent.Kind(record.Event) {
	case hookevent.KindPreToolUse, hookevent.KindPostToolUse:
		return toolSummary(record)
	case hookevent.KindUserPromptSubmit:
		return firstLine(record.Prompt)
	case hookevent.KindStop:
		return firstLine(record.AssistantResponse)
	case hookevent.KindSubagentStop:
		return subagentSummary(record)
	case hookevent.KindNotification:
		return firstLine(record.Message)
	case hookevent.KindSessionStart:
		return record.Source
	case hookevent.KindSessionEnd:
		return record.Reason
	case hookevent.KindPreCompact:
		return record.Trigger
	default:
		return ""
	}
}

func toolSummary(record *recorder.Record) string {
	switch record.ToolName {
	case hookevent.ToolTask:
		if record.SubagentDescription != "" {
			return record.SubagentType + ": " + firstLine(record.SubagentDescription)
		}
		return record.SubagentType
	case hookevent.ToolBash:
		return firstLine(record.BashCommand)
	case hookevent.ToolRead, hookevent.ToolWrite, hookevent.ToolEdit:
		return record.FilePath
	case hookevent.ToolGrep:
		return record.GrepPattern
	case hookevent.ToolGlob:
		return record.GlobPattern
	case hookevent.ToolWebSearch:
		return record.SearchQuery
	case hookevent.ToolWebFetch:
		return record.FetchURL
	case hookevent.ToolTaskOutput:
		return record.TaskOutputID
	default:
		return ""
	}
}

func subagentSummary(record *recorder.Record) string {
	who := record.SubagentType
	if who == "" {
		who = record.AgentID
	}
	response := firstLine(record.AssistantResponse)
	switch {
	case who == "":
		return response
	case response == "":
		return who
	default:
		return who + ": " + response
	}
}

// LongText is the record's full-length text payload, when it has one:
// the assistant response for stop events and the prompt for prompt
// submissions. Empty for everything else.
func LongText(record *recorder.Record) string {
	switch hookevent.Kind(record.Event) {
	case hookevent.KindStop, hookevent.KindSubagentStop:
		return record.AssistantResponse
	case hookevent.KindUserPromptSubmit:
		return record.Prompt
	default:
		return ""
	}
}

// HumanSize formats a byte count for table output.
func HumanSize(size int64) string {
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}

func firstLine(s string) string {
	if index := strings.IndexByte(s, '\n'); index >= 0 {
		s = s[:index]
	}
	return strings.TrimSpace(s)
}
