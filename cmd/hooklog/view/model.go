// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

package view

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/junegunn/fzf/src/util"

	"github.com/hooklog-io/hooklog/lib/recorder"
	"github.com/hooklog-io/hooklog/lib/render"
	"github.com/hooklog-io/hooklog/lib/sessionlog"
)

// FocusRegion identifies which pane has keyboard focus.
type FocusRegion int

const (
	// FocusSessions means navigation keys move the session list cursor.
	FocusSessions FocusRegion = iota
	// FocusRecords means navigation keys scroll the record pane.
	FocusRecords
	// FocusFilter means keystrokes go to the filter input.
	FocusFilter
)

// Session list pane width bounds. Session rows have a fixed shape
// (ID plus record count), so the list takes a third of the terminal
// within these limits and the record pane gets the rest.
const (
	listWidthMin = 30
	listWidthMax = 44
)

// SessionData is one session with its decoded records, loaded up
// front so filtering and browsing never touch the disk.
type SessionData struct {
	Session sessionlog.Session
	Records []recorder.Record
}

// Model is the top-level bubbletea model for the session viewer.
type Model struct {
	sessions []SessionData
	theme    render.Theme
	keys     KeyMap

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	// Filter state. visible holds indices into sessions in display
	// order; highlights maps session IDs to the rune positions the
	// fuzzy filter matched.
	filter     filterModel
	visible    []int
	highlights map[string][]int

	// Session list state.
	cursor       int
	scrollOffset int
	selectedID   string // Stable focus: track selection by session ID.

	// Two-pane layout.
	focusRegion FocusRegion
	priorFocus  FocusRegion    // Saved focus when entering filter mode.
	records     viewport.Model // Right pane: scrollable record listing.
	recordsID   string         // Session currently rendered in the pane.

	// Reusable scratch memory for the fuzzy matcher.
	slab *util.Slab
}

// NewModel creates a Model over the loaded sessions. Sessions keep
// the order they were given (newest first from sessionlog.Sessions).
func NewModel(sessions []SessionData) Model {
	model := Model{
		sessions: sessions,
		theme:    render.DefaultTheme,
		keys:     DefaultKeyMap,
		slab:     util.MakeSlab(100*1024, 2048),
	}

	model.visible = make([]int, 0, len(sessions))
	for index := range sessions {
		model.visible = append(model.visible, index)
	}
	if len(sessions) > 0 {
		model.selectedID = sessions[0].Session.ID
	}
	return model
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Routes keyboard events based on the
// current focus region and handles layout changes.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		// When filter is active, route all input to the filter first,
		// except for Esc (clear) and Enter (confirm and return to the
		// session list).
		if model.focusRegion == FocusFilter {
			return model.handleFilterKeys(message)
		}

		switch {
		case key.Matches(message, model.keys.Quit):
			return model, tea.Quit

		case key.Matches(message, model.keys.FocusToggle):
			if model.focusRegion == FocusSessions {
				model.focusRegion = FocusRecords
			} else {
				model.focusRegion = FocusSessions
			}

		case key.Matches(message, model.keys.FilterActivate):
			model.priorFocus = model.focusRegion
			model.focusRegion = FocusFilter
			model.filter.Active = true
			// Reset list position to the top so the user sees
			// results from the beginning as they type.
			model.cursor = 0
			model.scrollOffset = 0

		case key.Matches(message, model.keys.FilterClear):
			if model.filter.Input != "" {
				model.filter.Clear()
				model.applyFilter()
			}

		default:
			if model.focusRegion == FocusSessions {
				model.handleSessionKeys(message)
			} else {
				model.handleRecordKeys(message)
			}
		}

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.layoutPanes()
		model.syncRecords()
	}
	return model, nil
}

// handleFilterKeys processes keystrokes when the filter input has focus.
func (model Model) handleFilterKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		// ctrl+c always quits, even in filter mode.
		if message.Type == tea.KeyCtrlC {
			return model, tea.Quit
		}
		// 'q' is a regular character in filter mode.
		model.filter.HandleRune('q')
		model.applyFilter()
		return model, nil

	case key.Matches(message, model.keys.FilterClear):
		// Esc: if there's filter text, clear it; if already empty,
		// exit filter mode.
		if model.filter.Input != "" {
			model.filter.Input = ""
			model.applyFilter()
		} else {
			model.filter.Active = false
			model.focusRegion = model.priorFocus
		}
		return model, nil

	case message.Type == tea.KeyEnter:
		// Confirm filter and return focus to the session list.
		model.filter.Active = false
		model.focusRegion = FocusSessions
		return model, nil

	case message.Type == tea.KeyBackspace:
		if model.filter.HandleBackspace() {
			model.applyFilter()
		}
		return model, nil

	case message.Type == tea.KeyRunes || message.Type == tea.KeySpace:
		for _, character := range message.Runes {
			model.filter.HandleRune(character)
		}
		model.applyFilter()
		return model, nil
	}

	return model, nil
}

// handleSessionKeys processes navigation keys when the session list
// has focus.
func (model *Model) handleSessionKeys(message tea.KeyMsg) {
	prevCursor := model.cursor

	switch {
	case key.Matches(message, model.keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}

	case key.Matches(message, model.keys.Down):
		if model.cursor < len(model.visible)-1 {
			model.cursor++
		}

	case key.Matches(message, model.keys.PageUp):
		target := model.cursor - model.visibleHeight()
		if target < 0 {
			target = 0
		}
		model.cursor = target

	case key.Matches(message, model.keys.PageDown):
		target := model.cursor + model.visibleHeight()
		if target >= len(model.visible) {
			target = len(model.visible) - 1
		}
		if target < 0 {
			target = 0
		}
		model.cursor = target

	case key.Matches(message, model.keys.Home):
		model.cursor = 0

	case key.Matches(message, model.keys.End):
		if len(model.visible) > 0 {
			model.cursor = len(model.visible) - 1
		}
	}

	model.ensureCursorVisible()

	// Re-render the record pane if the selection changed.
	if model.cursor != prevCursor {
		model.syncRecords()
	}
}

// handleRecordKeys processes navigation keys when the record pane has
// focus.
func (model *Model) handleRecordKeys(message tea.KeyMsg) {
	switch {
	case key.Matches(message, model.keys.Up):
		model.records.LineUp(1)
	case key.Matches(message, model.keys.Down):
		model.records.LineDown(1)
	case key.Matches(message, model.keys.PageUp):
		model.records.HalfViewUp()
	case key.Matches(message, model.keys.PageDown):
		model.records.HalfViewDown()
	case key.Matches(message, model.keys.Home):
		model.records.GotoTop()
	case key.Matches(message, model.keys.End):
		model.records.GotoBottom()
	}
}

// applyFilter recomputes the visible session order for the current
// query: fuzzy-match every session ID, drop non-matches, and put the
// best match first. An empty query restores the newest-first order.
func (model *Model) applyFilter() {
	if model.filter.Input == "" {
		model.visible = model.visible[:0]
		for index := range model.sessions {
			model.visible = append(model.visible, index)
		}
		model.highlights = nil
		model.restoreSelection()
		model.ensureCursorVisible()
		model.syncRecords()
		return
	}

	pattern := []rune(model.filter.Input)
	type match struct {
		index int
		score int
	}
	var matches []match
	model.highlights = make(map[string][]int)
	for index, data := range model.sessions {
		result := fuzzyMatch(data.Session.ID, pattern, model.slab)
		if result.Score <= 0 {
			continue
		}
		matches = append(matches, match{index: index, score: result.Score})
		if len(result.Positions) > 0 {
			model.highlights[data.Session.ID] = result.Positions
		}
	}

	// Best match first; equal scores keep the newest-first order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	model.visible = model.visible[:0]
	for _, entry := range matches {
		model.visible = append(model.visible, entry.index)
	}

	// Snap to the top so the best match is selected as the user types.
	model.cursor = 0
	model.scrollOffset = 0
	if len(model.visible) > 0 {
		model.selectedID = model.sessions[model.visible[0]].Session.ID
	}
	model.ensureCursorVisible()
	model.syncRecords()
}

// restoreSelection finds the previously selected session in the
// rebuilt visible list and moves the cursor there. Falls back to
// clamping when that session is no longer shown.
func (model *Model) restoreSelection() {
	for position, sessionIndex := range model.visible {
		if model.sessions[sessionIndex].Session.ID == model.selectedID {
			model.cursor = position
			return
		}
	}
	if model.cursor >= len(model.visible) {
		model.cursor = len(model.visible) - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}
}

// ensureCursorVisible adjusts scrollOffset so the cursor is within
// the visible window.
func (model *Model) ensureCursorVisible() {
	visible := model.visibleHeight()
	if visible <= 0 {
		return
	}

	// Clamp scrollOffset so we never scroll past the end of the list.
	// This handles filter changes where the new list is shorter than
	// the old scrollOffset.
	maxOffset := len(model.visible) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if model.scrollOffset > maxOffset {
		model.scrollOffset = maxOffset
	}

	if model.cursor < model.scrollOffset {
		model.scrollOffset = model.cursor
	}
	if model.cursor >= model.scrollOffset+visible {
		model.scrollOffset = model.cursor - visible + 1
	}
}

// syncRecords renders the selected session's records into the record
// pane. The rendered text is rebuilt only when the selection or the
// pane size changes; cursor movement within a session reuses it.
func (model *Model) syncRecords() {
	if model.cursor < 0 || model.cursor >= len(model.visible) {
		model.recordsID = ""
		model.records.SetContent("")
		return
	}

	data := model.sessions[model.visible[model.cursor]]
	model.selectedID = data.Session.ID
	if model.recordsID == data.Session.ID {
		return
	}
	model.recordsID = data.Session.ID
	model.records.SetContent(model.renderRecords(data))
	model.records.GotoTop()
}

// renderRecords builds the record pane text for one session: one
// line per record, with prompts and assistant responses rendered as
// indented markdown blocks below their lines. Summary lines are
// truncated to the pane width because the viewport does not wrap.
func (model Model) renderRecords(data SessionData) string {
	width := model.records.Width
	timeStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	var lines []string
	for index := range data.Records {
		record := &data.Records[index]
		eventStyle := lipgloss.NewStyle().
			Foreground(model.theme.EventColor(record.Event)).
			Bold(true)

		line := timeStyle.Render(render.ClockTime(record.Ts)) + "  " + eventStyle.Render(record.Event)
		if summary := render.Summary(record); summary != "" {
			line += "  " + summary
		}
		lines = append(lines, ansi.Truncate(line, width, "…"))

		if text := render.LongText(record); text != "" {
			block := render.Markdown(text, model.theme, width-4)
			for _, bodyLine := range strings.Split(strings.TrimRight(block, "\n"), "\n") {
				lines = append(lines, "    "+bodyLine)
			}
			lines = append(lines, "")
		}
	}

	if len(lines) == 0 {
		return lipgloss.NewStyle().
			Foreground(model.theme.FaintText).
			Render("No records in this session.")
	}
	return strings.Join(lines, "\n")
}

// layoutPanes recalculates pane dimensions after a resize.
func (model *Model) layoutPanes() {
	// Padding and scrollbar columns flank the viewport content.
	contentWidth := model.recordPaneWidth() - 2
	if contentWidth < 10 {
		contentWidth = 10
	}
	model.records.Width = contentWidth
	model.records.Height = model.visibleHeight()
	model.recordsID = "" // Force a re-render at the new width.
}

// listWidth returns the width of the session list pane in columns,
// scrollbar included.
func (model Model) listWidth() int {
	width := model.width / 3
	if width < listWidthMin {
		width = listWidthMin
	}
	if width > listWidthMax {
		width = listWidthMax
	}
	return width
}

// recordPaneWidth returns the total width of the right pane,
// padding and scrollbar columns included.
func (model Model) recordPaneWidth() int {
	return model.width - model.listWidth() - 1
}

// visibleHeight returns the number of content rows between the top
// chrome line and the bottom separator and help bar.
func (model Model) visibleHeight() int {
	return model.height - 3
}

// View implements tea.Model. Renders the full frame with two panes.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}

	if len(model.sessions) == 0 {
		return model.renderEmpty()
	}

	var sections []string

	// Top chrome line: either the header or the filter bar. The
	// filter bar replaces the header so the layout doesn't shift.
	filterView := model.filter.View(model.theme, model.width)
	if filterView != "" {
		sections = append(sections, filterView)
	} else {
		sections = append(sections, model.renderHeader())
	}

	listView := model.renderSessionPane()
	divider := model.renderDivider()
	recordView := model.renderRecordPane()
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, listView, divider, recordView))

	separator := lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", model.width))
	sections = append(sections, separator)

	sections = append(sections, model.renderHelp())

	return strings.Join(sections, "\n")
}

// renderHeader renders the top chrome line: a horizontal rule with
// the title embedded and counts on the right.
//
// Example: ─── hooklog ────────────── 4 sessions  132 records ─
func (model Model) renderHeader() string {
	separatorStyle := lipgloss.NewStyle().
		Foreground(model.theme.BorderColor)
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(model.theme.HeaderForeground)
	statsStyle := lipgloss.NewStyle().
		Foreground(model.theme.FaintText)

	sep := separatorStyle.Render("─")

	title := "hooklog"
	left := sep + sep + sep + " " + titleStyle.Render(title) + " "
	leftWidth := 3 + 1 + lipgloss.Width(title) + 1

	recordCount := 0
	for _, index := range model.visible {
		recordCount += len(model.sessions[index].Records)
	}
	statsText := fmt.Sprintf("%d sessions  %d records", len(model.visible), recordCount)
	right := " " + statsStyle.Render(statsText) + " " + sep
	rightWidth := 1 + lipgloss.Width(statsText) + 1 + 1

	fillCount := model.width - leftWidth - rightWidth
	if fillCount < 1 {
		fillCount = 1
	}
	fill := ""
	for i := 0; i < fillCount; i++ {
		fill += sep
	}

	return left + fill + right
}

// renderSessionPane renders the session list with a right scrollbar
// column.
func (model Model) renderSessionPane() string {
	rowWidth := model.listWidth() - 1

	visible := model.visibleHeight()
	if visible < 0 {
		visible = 0
	}

	var rows []string
	for position := model.scrollOffset; position < model.scrollOffset+visible && position < len(model.visible); position++ {
		data := model.sessions[model.visible[position]]
		rows = append(rows, model.renderSessionRow(data, rowWidth, position == model.cursor))
	}

	// Pad empty rows.
	rendered := len(rows)
	if rendered < visible {
		emptyStyle := lipgloss.NewStyle().Width(rowWidth)
		for padding := rendered; padding < visible; padding++ {
			rows = append(rows, emptyStyle.Render(""))
		}
	}

	scrollbar := render.Scrollbar(
		model.theme, visible,
		len(model.visible), visible, model.scrollOffset,
		model.focusRegion == FocusSessions,
	)

	contentStyle := lipgloss.NewStyle().
		Width(rowWidth).
		Height(visible)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		contentStyle.Render(strings.Join(rows, "\n")),
		scrollbar,
	)
}

// renderSessionRow renders one session list row: the session ID with
// any filter match highlighting, and the record count right-aligned.
func (model Model) renderSessionRow(data SessionData, rowWidth int, selected bool) string {
	baseStyle := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	countStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	highlightStyle := lipgloss.NewStyle().
		Foreground(model.theme.NormalText).
		Background(model.theme.SearchHighlightBackground)
	if selected {
		baseStyle = lipgloss.NewStyle().
			Background(model.theme.SelectedBackground).
			Foreground(model.theme.SelectedForeground).
			Bold(true)
		countStyle = baseStyle.Bold(false)
		// On a selected row the background is already the selection
		// color; underline makes matches pop instead.
		highlightStyle = baseStyle.Underline(true)
	}

	countText := fmt.Sprintf("%d", len(data.Records))

	id := data.Session.ID
	idWidth := rowWidth - 1 - len(countText) - 2
	if idWidth < 8 {
		idWidth = 8
	}
	if lipgloss.Width(id) > idWidth {
		id = ansi.Truncate(id, idWidth-1, "") + "…"
	}

	idRendered := highlightRunes(id, model.highlights[data.Session.ID], baseStyle, highlightStyle)

	gap := rowWidth - 1 - lipgloss.Width(id) - len(countText)
	if gap < 1 {
		gap = 1
	}

	row := " " + idRendered + strings.Repeat(" ", gap) + countStyle.Render(countText)

	if selected {
		return baseStyle.Width(rowWidth).MaxWidth(rowWidth).Render(row)
	}
	return lipgloss.NewStyle().Width(rowWidth).MaxWidth(rowWidth).Render(row)
}

// highlightRunes renders text with the runes at the given positions
// drawn in highlightStyle and everything else in baseStyle.
// Consecutive runs of same-style characters are batched into a single
// Render call to keep the ANSI output compact. Positions past the end
// of a truncated display string are ignored.
func highlightRunes(text string, positions []int, baseStyle, highlightStyle lipgloss.Style) string {
	if len(positions) == 0 {
		return baseStyle.Render(text)
	}

	positionSet := make(map[int]bool, len(positions))
	for _, position := range positions {
		positionSet[position] = true
	}

	runes := []rune(text)
	var result strings.Builder
	runStart := 0
	isHighlighted := len(runes) > 0 && positionSet[0]

	for index := 1; index <= len(runes); index++ {
		currentHighlighted := index < len(runes) && positionSet[index]
		if currentHighlighted != isHighlighted || index == len(runes) {
			chunk := string(runes[runStart:index])
			if isHighlighted {
				result.WriteString(highlightStyle.Render(chunk))
			} else {
				result.WriteString(baseStyle.Render(chunk))
			}
			runStart = index
			isHighlighted = currentHighlighted
		}
	}

	return result.String()
}

// renderDivider renders the single-column vertical divider between
// the session list and the record pane.
func (model Model) renderDivider() string {
	visible := model.visibleHeight()
	if visible < 0 {
		visible = 0
	}

	dividerStyle := lipgloss.NewStyle().
		Foreground(model.theme.BorderColor)

	lines := make([]string, visible)
	for index := range lines {
		lines[index] = "│"
	}

	return dividerStyle.Width(1).Height(visible).Render(strings.Join(lines, "\n"))
}

// renderRecordPane renders the record viewport with a left padding
// column and a right scrollbar.
func (model Model) renderRecordPane() string {
	height := model.visibleHeight()
	if height < 0 {
		height = 0
	}

	paddingStyle := lipgloss.NewStyle().
		PaddingLeft(1).
		Width(model.recordPaneWidth() - 1).
		Height(height)

	content := paddingStyle.Render(model.records.View())

	scrollbar := render.Scrollbar(
		model.theme, height,
		model.records.TotalLineCount(), model.records.Height, model.records.YOffset,
		model.focusRegion == FocusRecords,
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, content, scrollbar)
}

// renderEmpty renders the empty state when nothing was recorded.
func (model Model) renderEmpty() string {
	messageStyle := lipgloss.NewStyle().
		Foreground(model.theme.FaintText)

	return lipgloss.Place(
		model.width, model.height,
		lipgloss.Center, lipgloss.Center,
		messageStyle.Render("No sessions recorded."),
	)
}

// renderHelp renders the bottom help bar with key hints and the list
// position.
func (model Model) renderHelp() string {
	style := lipgloss.NewStyle().Foreground(model.theme.HelpText)

	focusIndicator := "SESSIONS"
	switch model.focusRegion {
	case FocusRecords:
		focusIndicator = "RECORDS"
	case FocusFilter:
		focusIndicator = "FILTER"
	}

	help := fmt.Sprintf(" [%s] q quit  ↑↓ navigate  Tab focus  / filter", focusIndicator)

	if len(model.visible) > 0 {
		help += fmt.Sprintf("  %d/%d", model.cursor+1, len(model.visible))
	}

	return style.Render(help)
}
