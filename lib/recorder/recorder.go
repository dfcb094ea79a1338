// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

package recorder

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/hooklog-io/hooklog/lib/clock"
	"github.com/hooklog-io/hooklog/lib/correlation"
	"github.com/hooklog-io/hooklog/lib/hookevent"
	"github.com/hooklog-io/hooklog/lib/sessionlog"
	"github.com/hooklog-io/hooklog/lib/transcript"
)

// DefaultResponseLimit caps extracted response text, in runes.
const DefaultResponseLimit = 5000

// Filter decides whether a record is appended to the session log.
// Correlation side effects run either way; dropping a record must not
// break agent tracking for later events.
type Filter interface {
	Allow(record *Record) bool
}

// Recorder builds records from hook events and appends them to the
// per-session log under LogDir.
type Recorder struct {
	// LogDir is the directory holding session logs and the
	// correlation store.
	LogDir string

	// Store correlates sub-agent launches with their agent ids.
	Store *correlation.Store

	// Logger receives diagnostics. Nothing the recorder logs is ever
	// an excuse to fail the hook.
	Logger *slog.Logger

	// Clock stamps records.
	Clock clock.Clock

	// ResponseLimit caps assistant and sub-agent response text, in
	// runes. Zero means DefaultResponseLimit.
	ResponseLimit int

	// Filter, when set, gates the append.
	Filter Filter
}

// New returns a recorder writing to logDir with the default clock,
// response limit, and a correlation store in the same directory.
func New(logDir string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		LogDir:        logDir,
		Store:         correlation.NewStore(logDir),
		Logger:        logger,
		Clock:         clock.Real(),
		ResponseLimit: DefaultResponseLimit,
	}
}

// Record applies the event's correlation side effects, builds its log
// record, and appends it to the session's log file. The latest.jsonl
// link update is best effort; a failure there is logged and ignored.
func (r *Recorder) Record(event *hookevent.Event) error {
	record := r.build(event)

	if r.Filter != nil && !r.Filter.Allow(record) {
		r.Logger.Debug("record dropped by filter",
			"session_id", record.SessionID,
			"event", record.Event,
			"tool", record.ToolName,
		)
		return nil
	}

	if err := os.MkdirAll(r.LogDir, 0o755); err != nil {
		return fmt.Errorf("creating log directory %q: %w", r.LogDir, err)
	}
	appender, err := sessionlog.OpenAppender(filepath.Join(r.LogDir, sessionlog.FileName(event.SessionID)))
	if err != nil {
		return err
	}
	defer appender.Close()

	if err := appender.Append(record); err != nil {
		return err
	}

	if err := sessionlog.UpdateLatestLink(r.LogDir, event.SessionID); err != nil {
		r.Logger.Debug("updating latest link", "error", err)
	}
	return nil
}

// build assembles the record and performs the event's store side
// effects. Side effects happen here, not in Record, so the pending
// and registration flow stays next to the fields it populates.
func (r *Recorder) build(event *hookevent.Event) *Record {
	record := &Record{
		Ts:             r.Clock.Now().UTC().Format(timestampLayout),
		SessionID:      event.SessionID,
		Event:          event.HookEventName,
		ToolName:       event.ToolName,
		ToolInput:      normalizeRaw(event.ToolInput),
		Prompt:         event.Prompt,
		CWD:            event.CWD,
		PermissionMode: event.PermissionMode,
	}

	if event.HasToolInput() {
		r.flattenToolInput(event, record)
	}

	switch event.Kind() {
	case hookevent.KindPostToolUse:
		r.recordToolResponse(event, record)
	case hookevent.KindStop:
		record.AssistantResponse = r.truncate(transcript.LastAssistantMessage(event.TranscriptPath))
		record.StopHookActive = event.StopHookActive
	case hookevent.KindSubagentStop:
		r.recordSubagentStop(event, record)
	case hookevent.KindSessionStart:
		record.Source = event.Source
	case hookevent.KindSessionEnd:
		record.Reason = event.Reason
	case hookevent.KindNotification:
		record.Message = event.Message
		record.NotificationType = event.NotificationType
	case hookevent.KindPreCompact:
		record.Trigger = event.Trigger
	}

	return record
}

// flattenToolInput copies the known parameters of the invoked tool
// into dedicated record fields. A payload that does not decode as the
// tool's expected shape contributes nothing; the raw tool_input is on
// the record regardless.
func (r *Recorder) flattenToolInput(event *hookevent.Event, record *Record) {
	switch event.ToolName {
	case hookevent.ToolTask:
		input, _ := event.Task()
		record.SubagentType = input.SubagentType
		record.SubagentModel = input.Model
		record.SubagentDescription = input.Description
		record.SubagentRunInBackground = input.RunInBackground
		record.SubagentResume = input.Resume

		// The agent id is not assigned until the result comes back;
		// park the launch metadata under the session until then.
		if event.Kind() == hookevent.KindPreToolUse {
			r.Store.SetPending(event.SessionID, correlation.Metadata{
				SubagentType: input.SubagentType,
				Model:        input.Model,
				Description:  input.Description,
			})
		}

	case hookevent.ToolBash:
		input, _ := event.Bash()
		record.BashCommand = input.Command
		record.BashDescription = input.Description
		record.BashTimeout = input.Timeout
		record.BashBackground = input.RunInBackground
		record.BashNoSandbox = input.NoSandbox

	case hookevent.ToolRead:
		input, _ := event.FileRead()
		record.FilePath = input.FilePath
		record.ReadOffset = input.Offset
		record.ReadLimit = input.Limit

	case hookevent.ToolWrite:
		input, ok := event.FileWrite()
		record.FilePath = input.FilePath
		if ok {
			// Content can be megabytes; record only its length.
			length := utf8.RuneCountInString(input.Content)
			record.WriteContentLength = &length
		}

	case hookevent.ToolEdit:
		input, _ := event.FileEdit()
		record.FilePath = input.FilePath
		record.EditReplaceAll = input.ReplaceAll

	case hookevent.ToolGrep:
		input, _ := event.Grep()
		record.GrepPattern = input.Pattern
		record.GrepPath = input.Path
		record.GrepGlob = input.Glob
		record.GrepOutputMode = input.OutputMode

	case hookevent.ToolGlob:
		input, _ := event.Glob()
		record.GlobPattern = input.Pattern
		record.GlobPath = input.Path

	case hookevent.ToolWebSearch:
		input, _ := event.WebSearch()
		record.SearchQuery = input.Query

	case hookevent.ToolWebFetch:
		input, _ := event.WebFetch()
		record.FetchURL = input.URL

	case hookevent.ToolTaskOutput:
		input, _ := event.TaskOutput()
		record.TaskOutputID = input.TaskID
		record.TaskOutputBlock = input.Block
		record.TaskOutputTimeout = input.Timeout
	}
}

// recordToolResponse handles the PostToolUse payload. A decodable
// Task result yields the agent id and response text and registers the
// agent; everything else keeps the raw response.
func (r *Recorder) recordToolResponse(event *hookevent.Event, record *Record) {
	if event.ToolName == hookevent.ToolTask {
		if result, ok := event.TaskResult(); ok {
			record.AgentID = result.AgentID
			record.SubagentResponse = r.truncate(result.Text)
			if result.AgentID != "" && event.HasToolInput() {
				input, _ := event.Task()
				r.Store.Register(result.AgentID, correlation.Metadata{
					SubagentType: input.SubagentType,
					Model:        input.Model,
					Description:  input.Description,
				})
			}
			return
		}
	}
	record.ToolResponse = normalizeRaw(event.ToolResponse)
}

// recordSubagentStop annotates the stop record with the launch
// metadata of the finishing sub-agent. The registered id is the fast
// path; when SubagentStop outruns the Task result, the session's
// pending slot supplies the metadata and the agent is registered now
// so later lookups hit.
func (r *Recorder) recordSubagentStop(event *hookevent.Event, record *Record) {
	record.AssistantResponse = r.truncate(transcript.LastAssistantMessage(event.StopTranscriptPath()))
	record.AgentID = event.AgentID
	record.StopHookActive = event.StopHookActive

	if meta, ok := r.Store.Lookup(event.AgentID); ok {
		record.SubagentType = meta.SubagentType
		record.SubagentModel = meta.Model
		record.SubagentDescription = meta.Description
		return
	}
	if pending, ok := r.Store.TakeAndClearPending(event.SessionID); ok {
		record.SubagentType = pending.SubagentType
		record.SubagentModel = pending.Model
		record.SubagentDescription = pending.Description
		r.Store.Register(event.AgentID, pending)
	}
}

func (r *Recorder) truncate(s string) string {
	limit := r.ResponseLimit
	if limit <= 0 {
		limit = DefaultResponseLimit
	}
	return truncateRunes(s, limit)
}
