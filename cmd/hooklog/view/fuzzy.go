// Copyright 2026 The Hooklog Authors
// SPDX-License-Identifier: Apache-2.0

package view

import (
	"sort"
	"strings"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult is the outcome of matching the filter query against one
// session ID. A zero Score means no match.
type FuzzyResult struct {
	Score     int
	Positions []int // Matched rune indices, ascending.
}

// fuzzyMatch scores pattern against text with fzf's V2 algorithm.
// Matching is case-insensitive: both sides are lowercased before
// scoring. An empty pattern matches nothing.
func fuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{}
	}

	lowered := make([]rune, len(pattern))
	for index, character := range pattern {
		lowered[index] = unicode.ToLower(character)
	}

	chars := util.ToChars([]byte(strings.ToLower(text)))
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, lowered, true, slab)
	if result.Score <= 0 {
		return FuzzyResult{}
	}

	var matched []int
	if positions != nil {
		matched = *positions
		sort.Ints(matched)
	}
	return FuzzyResult{Score: result.Score, Positions: matched}
}
