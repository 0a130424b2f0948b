// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package normalize folds width, case and kana variants of text into the
// canonical form shared by the search index and query tokenization.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Katakana block range that has a Hiragana counterpart 0x60 below it.
const (
	katakanaFirst = 'ァ' // U+30A1
	katakanaLast  = 'ヶ' // U+30F6
	kanaShift     = 0x60
)

// String returns the canonical search form of text.
// Index rows and query terms must both pass through this function.
func String(text string) string {
	if text == "" {
		return ""
	}

	// Fold maps fullwidth ASCII to halfwidth and halfwidth katakana to fullwidth.
	folded := width.Fold.String(text)

	var builder strings.Builder
	builder.Grow(len(folded))

	pendingSpace := false

	for _, r := range folded {
		if unicode.IsSpace(r) {
			pendingSpace = builder.Len() > 0
			continue
		}

		if pendingSpace {
			builder.WriteByte(' ')
			pendingSpace = false
		}

		builder.WriteRune(foldRune(r))
	}

	return builder.String()
}

// Terms splits a raw query into normalized, non-empty search terms.
func Terms(query string) []string {
	normalized := String(query)
	if normalized == "" {
		return nil
	}

	return strings.Split(normalized, " ")
}

func foldRune(r rune) rune {
	switch {
	case r >= 'A' && r <= 'Z':
		return r + ('a' - 'A')
	case r >= katakanaFirst && r <= katakanaLast:
		return r - kanaShift
	default:
		return r
	}
}
