// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

// plain renders markdown and strips the ANSI styling, leaving the
// layout for structural assertions.
func plain(input string, width int) string {
	return ansi.Strip(Markdown(input, DefaultTheme, width))
}

func TestMarkdownEmptyInput(t *testing.T) {
	t.Parallel()

	if got := Markdown("", DefaultTheme, 80); got != "" {
		t.Errorf("Markdown(%q) = %q, want empty", "", got)
	}
}

func TestMarkdownReflowsSoftBreaks(t *testing.T) {
	t.Parallel()

	got := plain("alpha\nbeta\ngamma", 80)
	if got != "alpha beta gamma" {
		t.Errorf("soft breaks rendered %q, want one reflowed line", got)
	}
}

func TestMarkdownKeepsHardBreaks(t *testing.T) {
	t.Parallel()

	got := plain("alpha  \nbeta", 80)
	if got != "alpha\nbeta" {
		t.Errorf("hard break rendered %q, want two lines", got)
	}
}

func TestMarkdownWrapsToWidth(t *testing.T) {
	t.Parallel()

	input := strings.TrimSpace(strings.Repeat("word ", 20))
	got := plain(input, 24)
	lines := strings.Split(got, "\n")
	if len(lines) < 2 {
		t.Fatalf("long paragraph did not wrap: %q", got)
	}
	for _, line := range lines {
		if len(line) > 24 {
			t.Errorf("wrapped line %q exceeds width 24", line)
		}
	}
	if joined := strings.Join(strings.Fields(got), " "); joined != input {
		t.Errorf("wrapping altered content: %q", joined)
	}
}

func TestMarkdownHeadingSpacing(t *testing.T) {
	t.Parallel()

	got := plain("# Title\n\nbody text", 80)
	if got != "Title\n\nbody text" {
		t.Errorf("heading rendered %q, want title, blank line, body", got)
	}
}

func TestMarkdownHeadingIsBold(t *testing.T) {
	t.Parallel()

	styled := Markdown("# Title", DefaultTheme, 80)
	if !strings.Contains(styled, "\x1b[") {
		t.Fatal("heading output carries no ANSI styling")
	}
	if ansi.Strip(styled) != "Title" {
		t.Errorf("heading stripped to %q, want %q", ansi.Strip(styled), "Title")
	}
}

func TestMarkdownEmphasisStyles(t *testing.T) {
	t.Parallel()

	if styled := Markdown("**bold** text", DefaultTheme, 80); !strings.Contains(styled, "\x1b[1m") {
		t.Error("bold emphasis missing the bold escape")
	}
	if styled := Markdown("*italic* text", DefaultTheme, 80); !strings.Contains(styled, "\x1b[3m") {
		t.Error("italic emphasis missing the italic escape")
	}
}

func TestMarkdownTightList(t *testing.T) {
	t.Parallel()

	got := plain("- first\n- second\n- third", 80)
	if got != "- first\n- second\n- third" {
		t.Errorf("list rendered %q", got)
	}
}

func TestMarkdownOrderedListKeepsStart(t *testing.T) {
	t.Parallel()

	got := plain("3. third\n4. fourth", 80)
	if got != "3. third\n4. fourth" {
		t.Errorf("ordered list rendered %q, want numbering from 3", got)
	}
}

func TestMarkdownNestedListIndents(t *testing.T) {
	t.Parallel()

	got := plain("- outer\n  - inner", 80)
	if got != "- outer\n  - inner" {
		t.Errorf("nested list rendered %q", got)
	}
}

func TestMarkdownListItemWrapAlignsContinuation(t *testing.T) {
	t.Parallel()

	got := plain("- "+strings.Repeat("word ", 10), 20)
	lines := strings.Split(got, "\n")
	if len(lines) < 2 {
		t.Fatalf("list item did not wrap: %q", got)
	}
	if !strings.HasPrefix(lines[0], "- word") {
		t.Errorf("first line %q missing bullet", lines[0])
	}
	for _, line := range lines[1:] {
		if !strings.HasPrefix(line, "  word") {
			t.Errorf("continuation line %q not indented under the bullet", line)
		}
	}
}

func TestMarkdownBlockquotePrefix(t *testing.T) {
	t.Parallel()

	got := plain("> quoted text", 80)
	if got != "│ quoted text" {
		t.Errorf("blockquote rendered %q", got)
	}
}

func TestMarkdownFencedCodeKeptVerbatim(t *testing.T) {
	t.Parallel()

	input := "```go\nfunc main() {\n\tprintln(\"hi\")\n}\n```"
	got := plain(input, 12)
	if !strings.Contains(got, "func main() {") {
		t.Errorf("code block lost its first line: %q", got)
	}
	if !strings.Contains(got, "\tprintln(\"hi\")") {
		t.Errorf("code block reflowed its body: %q", got)
	}
}

func TestMarkdownCodeSpan(t *testing.T) {
	t.Parallel()

	got := plain("run `hooklog install` first", 80)
	if got != "run hooklog install first" {
		t.Errorf("code span rendered %q", got)
	}
}

func TestMarkdownLinkShowsDestination(t *testing.T) {
	t.Parallel()

	got := plain("see [the docs](https://example.com/docs)", 80)
	if got != "see the docs (https://example.com/docs)" {
		t.Errorf("link rendered %q", got)
	}
}

func TestMarkdownThematicBreak(t *testing.T) {
	t.Parallel()

	got := plain("before\n\n---\n\nafter", 30)
	if !strings.Contains(got, strings.Repeat("─", 30)) {
		t.Errorf("thematic break missing full-width rule: %q", got)
	}
}

func TestMarkdownStripsHTML(t *testing.T) {
	t.Parallel()

	got := plain("before <br/> after", 80)
	if strings.Contains(got, "<") || strings.Contains(got, ">") {
		t.Errorf("raw HTML tags leaked into output: %q", got)
	}
}
