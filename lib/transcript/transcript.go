// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

// Package transcript extracts assistant output from the JSONL
// transcripts the agent runtime writes. Transcripts are large and
// their entry schema is open-ended, so scanning uses pooled fastjson
// parsing over raw lines instead of struct decoding.
package transcript

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/valyala/fastjson"
)

var parsers fastjson.ParserPool

// LastAssistantMessage returns the concatenated text blocks of the
// final assistant entry in the transcript at path. Extraction is best
// effort: a missing file, unreadable lines, or entries with no text
// blocks never fail the caller, they just leave the result empty.
func LastAssistantMessage(path string) string {
	if path == "" {
		return ""
	}
	file, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer file.Close()
	return lastAssistant(file)
}

func lastAssistant(reader io.Reader) string {
	scanner := bufio.NewScanner(reader)
	// Transcript lines carry whole tool results and can run long.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	parser := parsers.Get()
	defer parsers.Put(parser)

	last := ""
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		value, err := parser.ParseBytes(line)
		if err != nil {
			continue
		}
		if string(value.GetStringBytes("type")) != "assistant" {
			continue
		}

		var texts []string
		for _, block := range value.GetArray("message", "content") {
			if block.Type() != fastjson.TypeObject {
				continue
			}
			if string(block.GetStringBytes("type")) != "text" {
				continue
			}
			texts = append(texts, string(block.GetStringBytes("text")))
		}
		// An assistant entry that is all tool calls has no text blocks
		// and must not erase the previous answer.
		if len(texts) > 0 {
			last = strings.Join(texts, "\n")
		}
	}
	return last
}
