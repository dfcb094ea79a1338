// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

package view

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hooklog-io/hooklog/lib/recorder"
	"github.com/hooklog-io/hooklog/lib/sessionlog"
)

// testSessions builds a fixed set of loaded sessions in newest-first
// order: a full session, two short ones, and an empty one.
func testSessions() []SessionData {
	return []SessionData{
		{
			Session: sessionlog.Session{ID: "7ac31f2e-09b4-4e21-8c55-2f6d1a90be77"},
			Records: []recorder.Record{
				{Ts: "2026-02-11T09:15:04.120Z", Event: "SessionStart", Source: "startup"},
				{Ts: "2026-02-11T09:15:09.480Z", Event: "UserPromptSubmit", Prompt: "add retry backoff to the fetcher"},
				{Ts: "2026-02-11T09:15:12.003Z", Event: "PreToolUse", ToolName: "Bash", BashCommand: "go test ./..."},
				{Ts: "2026-02-11T09:15:14.371Z", Event: "PostToolUse", ToolName: "Bash", BashCommand: "go test ./..."},
				{Ts: "2026-02-11T09:16:02.550Z", Event: "Stop", AssistantResponse: "Added exponential backoff with jitter."},
			},
		},
		{
			Session: sessionlog.Session{ID: "91d3c85a-77e0-4b02-9c1e-3a5b8f2d6c40"},
			Records: []recorder.Record{
				{Ts: "2026-02-10T17:40:11.902Z", Event: "SessionStart", Source: "resume"},
				{Ts: "2026-02-10T17:40:25.114Z", Event: "PreToolUse", ToolName: "Read", FilePath: "lib/config/config.go"},
			},
		},
		{
			Session: sessionlog.Session{ID: "b52e9f01-3c4d-46a8-8e72-619d0adc5b83"},
			Records: []recorder.Record{
				{Ts: "2026-02-09T08:02:44.007Z", Event: "Notification", Message: "Permission needed to run Bash"},
			},
		},
		{
			Session: sessionlog.Session{ID: "e8f2061b-5a9c-4d37-b210-84c7f3e9a652"},
		},
	}
}

func TestNewModelDefaults(t *testing.T) {
	model := NewModel(testSessions())

	if len(model.visible) != 4 {
		t.Fatalf("all 4 sessions should be visible, got %d", len(model.visible))
	}
	for position, index := range model.visible {
		if position != index {
			t.Errorf("visible[%d] = %d, want load order preserved", position, index)
		}
	}
	if model.cursor != 0 {
		t.Errorf("initial cursor should be 0, got %d", model.cursor)
	}
	if model.selectedID != "7ac31f2e-09b4-4e21-8c55-2f6d1a90be77" {
		t.Errorf("newest session should be selected, got %q", model.selectedID)
	}
	if model.focusRegion != FocusSessions {
		t.Errorf("initial focus should be the session list, got %d", model.focusRegion)
	}
}

func TestModelNavigation(t *testing.T) {
	model := NewModel(testSessions())

	// Simulate terminal dimensions.
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	model = updated.(Model)

	if model.recordsID != "7ac31f2e-09b4-4e21-8c55-2f6d1a90be77" {
		t.Errorf("record pane should show the newest session, got %q", model.recordsID)
	}

	// Move down.
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	model = updated.(Model)
	if model.cursor != 1 {
		t.Errorf("cursor after j should be 1, got %d", model.cursor)
	}
	if model.recordsID != "91d3c85a-77e0-4b02-9c1e-3a5b8f2d6c40" {
		t.Errorf("record pane should follow the cursor, got %q", model.recordsID)
	}

	// Jump to the bottom.
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	model = updated.(Model)
	if model.cursor != 3 {
		t.Errorf("cursor after G should be 3, got %d", model.cursor)
	}

	// Move down at the bottom (should stay).
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	model = updated.(Model)
	if model.cursor != 3 {
		t.Errorf("cursor should stay at 3 on the last session, got %d", model.cursor)
	}

	// Jump back to the top.
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	model = updated.(Model)
	if model.cursor != 0 {
		t.Errorf("cursor after g should be 0, got %d", model.cursor)
	}

	// Move up at the top (should stay).
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	model = updated.(Model)
	if model.cursor != 0 {
		t.Errorf("cursor should stay at 0 on the first session, got %d", model.cursor)
	}

	// Page down clamps to the last session.
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	model = updated.(Model)
	if model.cursor != 3 {
		t.Errorf("cursor after page down should clamp to 3, got %d", model.cursor)
	}

	// Page up clamps back to the first.
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	model = updated.(Model)
	if model.cursor != 0 {
		t.Errorf("cursor after page up should clamp to 0, got %d", model.cursor)
	}
}

func TestModelView(t *testing.T) {
	model := NewModel(testSessions())

	// Before receiving WindowSizeMsg, View returns loading text.
	view := model.View()
	if view != "Loading..." {
		t.Errorf("expected 'Loading...' before WindowSizeMsg, got %q", view)
	}

	// Use a wide terminal so session IDs aren't truncated by the
	// two-pane layout.
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 160, Height: 30})
	model = updated.(Model)

	view = model.View()

	if !strings.Contains(view, "hooklog") {
		t.Error("view should contain the header title")
	}
	if !strings.Contains(view, "4 sessions") {
		t.Error("view should contain the session count")
	}
	if !strings.Contains(view, "8 records") {
		t.Error("view should contain the record count")
	}
	if !strings.Contains(view, "7ac31f2e-09b4-4e21-8c55-2f6d1a90be77") {
		t.Error("view should contain the newest session ID")
	}
	if !strings.Contains(view, "SessionStart") {
		t.Error("view should contain the selected session's records")
	}
	if !strings.Contains(view, "add retry backoff to the fetcher") {
		t.Error("view should contain the prompt text")
	}
	if !strings.Contains(view, "q quit") {
		t.Error("view should contain help text")
	}
	if !strings.Contains(view, "[SESSIONS]") {
		t.Error("help bar should show the focused pane")
	}
	if !strings.Contains(view, "1/4") {
		t.Error("help bar should show the list position")
	}
}

func TestModelEmptyState(t *testing.T) {
	model := NewModel(nil)

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model = updated.(Model)

	view := model.View()
	if !strings.Contains(view, "No sessions recorded.") {
		t.Error("empty view should contain 'No sessions recorded.'")
	}
}

func TestModelEmptySessionRecords(t *testing.T) {
	model := NewModel(testSessions())
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 160, Height: 30})
	model = updated.(Model)

	// Move to the recordless session at the bottom.
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	model = updated.(Model)

	if !strings.Contains(model.View(), "No records in this session.") {
		t.Error("record pane should show the empty-session message")
	}
}

func TestModelQuit(t *testing.T) {
	model := NewModel(testSessions())

	_, command := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if command == nil {
		t.Fatal("q key should return a command")
	}

	// Execute the command and check it produces a QuitMsg.
	message := command()
	if _, isQuit := message.(tea.QuitMsg); !isQuit {
		t.Errorf("expected QuitMsg, got %T", message)
	}
}

func TestModelFocusToggle(t *testing.T) {
	model := NewModel(testSessions())
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	model = updated.(Model)

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyTab})
	model = updated.(Model)
	if model.focusRegion != FocusRecords {
		t.Errorf("after Tab, focus should be the record pane, got %d", model.focusRegion)
	}
	if !strings.Contains(model.View(), "[RECORDS]") {
		t.Error("help bar should show RECORDS focus")
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyTab})
	model = updated.(Model)
	if model.focusRegion != FocusSessions {
		t.Errorf("second Tab should return focus to the session list, got %d", model.focusRegion)
	}
}

func TestModelFilter(t *testing.T) {
	model := NewModel(testSessions())
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 160, Height: 30})
	model = updated.(Model)

	// Activate filter (/).
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	model = updated.(Model)
	if model.focusRegion != FocusFilter {
		t.Errorf("after pressing /, focus should be FocusFilter, got %d", model.focusRegion)
	}
	if !model.filter.Active {
		t.Error("filter should be active after pressing /")
	}

	// Type "7ac3". Two fixture IDs contain the subsequence: the
	// newest session as a prefix, b52e9f01-... scattered.
	for _, character := range "7ac3" {
		updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{character}})
		model = updated.(Model)
	}

	if model.filter.Input != "7ac3" {
		t.Errorf("filter input should be %q, got %q", "7ac3", model.filter.Input)
	}
	if len(model.visible) != 2 {
		t.Fatalf("filter '7ac3' should match 2 sessions, got %d", len(model.visible))
	}
	if got := model.sessions[model.visible[0]].Session.ID; got != "7ac31f2e-09b4-4e21-8c55-2f6d1a90be77" {
		t.Errorf("prefix match should rank first, got %s", got)
	}
	if !strings.Contains(model.View(), " / 7ac3") {
		t.Error("view should show the active filter input")
	}

	// First Esc clears the text but stays in filter mode.
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyEscape})
	model = updated.(Model)
	if model.filter.Input != "" {
		t.Errorf("Esc should clear the filter text, got %q", model.filter.Input)
	}
	if model.focusRegion != FocusFilter {
		t.Error("Esc with text should stay in filter mode")
	}
	if len(model.visible) != 4 {
		t.Errorf("cleared filter should show all 4 sessions, got %d", len(model.visible))
	}

	// Second Esc exits filter mode.
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyEscape})
	model = updated.(Model)
	if model.focusRegion != FocusSessions {
		t.Errorf("Esc on an empty filter should restore focus, got %d", model.focusRegion)
	}
	if model.filter.Active {
		t.Error("filter should be inactive after the second Esc")
	}
}

func TestModelFilterConfirm(t *testing.T) {
	model := NewModel(testSessions())
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 160, Height: 30})
	model = updated.(Model)

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	model = updated.(Model)
	for _, character := range "7ac3" {
		updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{character}})
		model = updated.(Model)
	}

	// Enter confirms the filter and returns focus to the list with
	// the narrowed set still applied.
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(Model)
	if model.filter.Active {
		t.Error("filter should be inactive after Enter")
	}
	if model.focusRegion != FocusSessions {
		t.Errorf("Enter should focus the session list, got %d", model.focusRegion)
	}
	if len(model.visible) != 2 {
		t.Errorf("confirmed filter should keep the narrowed list, got %d", len(model.visible))
	}
	if !strings.Contains(model.View(), "filter: 7ac3") {
		t.Error("view should show the confirmed filter text")
	}
}

func TestModelFilterQuitRune(t *testing.T) {
	model := NewModel(testSessions())
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 160, Height: 30})
	model = updated.(Model)

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	model = updated.(Model)

	// 'q' types into the filter instead of quitting.
	updated, command := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	model = updated.(Model)
	if command != nil {
		t.Error("q in filter mode should not quit")
	}
	if model.filter.Input != "q" {
		t.Errorf("q should append to the filter input, got %q", model.filter.Input)
	}
	// Hex session IDs contain no 'q', so nothing matches.
	if len(model.visible) != 0 {
		t.Errorf("no session should match 'q', got %d visible", len(model.visible))
	}

	// ctrl+c still quits from filter mode.
	_, command = model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if command == nil {
		t.Fatal("ctrl+c should return a command")
	}
	if _, isQuit := command().(tea.QuitMsg); !isQuit {
		t.Error("ctrl+c in filter mode should quit")
	}
}

func TestModelFilterBackspace(t *testing.T) {
	model := NewModel(testSessions())
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 160, Height: 30})
	model = updated.(Model)

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	model = updated.(Model)
	for _, character := range "7ac3" {
		updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{character}})
		model = updated.(Model)
	}

	// Dropping the '3' widens the match: "7ac" is also a scattered
	// subsequence of 91d3c85a-....
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	model = updated.(Model)
	if model.filter.Input != "7ac" {
		t.Errorf("backspace should trim one rune, got %q", model.filter.Input)
	}
	if len(model.visible) != 3 {
		t.Errorf("filter '7ac' should match 3 sessions, got %d", len(model.visible))
	}
}
