// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

// Package render turns session log records into styled terminal text:
// a shared color theme, single-line record summaries, and a markdown
// renderer for assistant responses. Both the static `show` output and
// the interactive viewer draw through this package so the two stay
// visually consistent.
package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hooklog-io/hooklog/lib/hookevent"
)

// Theme is the color palette for hooklog's terminal output. All
// colors are lipgloss ANSI 256-color codes for broad terminal
// compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row in the interactive viewer.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	FocusAccent      lipgloss.Color // Scrollbar thumb and chrome of the focused pane.

	// Background tint for characters matched by the session filter.
	SearchHighlightBackground lipgloss.Color

	// Accent colors by event family.
	EventToolUse      lipgloss.Color // PreToolUse, PostToolUse
	EventPrompt       lipgloss.Color // UserPromptSubmit
	EventResponse     lipgloss.Color // Stop, SubagentStop
	EventNotification lipgloss.Color // Notification
	EventLifecycle    lipgloss.Color // SessionStart, SessionEnd, PreCompact
}

// EventColor returns the accent color for a hook event name. Unknown
// events render faint.
func (theme Theme) EventColor(event string) lipgloss.Color {
	switch hookevent.Kind(event) {
	case hookevent.KindPreToolUse, hookevent.KindPostToolUse:
		return theme.EventToolUse
	case hookevent.KindUserPromptSubmit:
		return theme.EventPrompt
	case hookevent.KindStop, hookevent.KindSubagentStop:
		return theme.EventResponse
	case hookevent.KindNotification:
		return theme.EventNotification
	case hookevent.KindSessionStart, hookevent.KindSessionEnd, hookevent.KindPreCompact:
		return theme.EventLifecycle
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in scheme for dark 256-color terminals.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
	FocusAccent:      lipgloss.Color("75"), // blue

	SearchHighlightBackground: lipgloss.Color("58"), // dark amber

	EventToolUse:      lipgloss.Color("75"),  // blue
	EventPrompt:       lipgloss.Color("220"), // amber
	EventResponse:     lipgloss.Color("114"), // green
	EventNotification: lipgloss.Color("208"), // orange
	EventLifecycle:    lipgloss.Color("245"), // gray
}
