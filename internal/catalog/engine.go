// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import (
	"math/rand/v2"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Ranking weights. A term matching at rune offset 0 scores base+bonusCap;
// the bonus decays by one point every positionDivisor runes.
const (
	termBaseScore   = 10.0
	positionBonus   = 5.0
	positionDivisor = 10.0

	// DefaultSampleSize is the number of entries shown in random mode.
	DefaultSampleSize = 20
)

// Engine applies the filter/sort/rank pipeline. The zero value is usable.
type Engine struct {
	// SampleSize caps random mode results; zero means DefaultSampleSize.
	SampleSize int
	// Rand drives random mode. Nil uses the global source. A non-nil Rand
	// must not be shared between goroutines.
	Rand *rand.Rand
}

var defaultEngine = &Engine{} //nolint:gochecknoglobals

// Apply runs the pipeline with default settings.
func Apply(entries []Entry, index []IndexRow, view ViewState) []Entry {
	return defaultEngine.Apply(entries, index, view)
}

// Apply filters, sorts, ranks and samples entries. Inputs are not modified and
// the result is always a fresh slice (possibly empty, never nil).
//
// Pipeline: attribute → creator → favorites → sort by ID → text ranking →
// random sampling. Ranking ties keep the sorted order. Random mode samples
// the filtered, sorted set and ignores text ranking.
func (e *Engine) Apply(entries []Entry, index []IndexRow, view ViewState) []Entry {
	result := make([]Entry, 0, len(entries))

	for _, entry := range entries {
		if view.Attribute != "" && !entry.HasAttribute(view.Attribute) {
			continue
		}

		if view.Creator != "" && !entry.HasCreator(view.Creator) {
			continue
		}

		if view.FavoritesOnly && !entry.IsFavorite {
			continue
		}

		result = append(result, entry)
	}

	SortByID(result, view.SortAscending)

	if view.RandomMode {
		return e.sample(result)
	}

	if len(view.SearchTerms) == 0 {
		return result
	}

	return rank(result, index, view.SearchTerms)
}

// SortByID stable-sorts entries in place by ID using numeric-aware collation,
// so "9" sorts before "10".
func SortByID(entries []Entry, ascending bool) {
	collator := collate.New(language.Und, collate.Numeric)

	slices.SortStableFunc(entries, func(a, b Entry) int {
		cmp := collator.CompareString(a.ID, b.ID)
		if !ascending {
			return -cmp
		}

		return cmp
	})
}

type scoredEntry struct {
	entry Entry
	score float64
}

// rank keeps entries whose index text contains every term and orders them by
// descending score. Entries without an index row never match.
func rank(entries []Entry, index []IndexRow, terms []string) []Entry {
	textByID := make(map[string]string, len(index))
	for _, row := range index {
		textByID[row.ID] = row.Text
	}

	scored := make([]scoredEntry, 0, len(entries))

	for _, entry := range entries {
		text, ok := textByID[entry.ID]
		if !ok {
			continue
		}

		score, matched := Score(text, terms)
		if !matched {
			continue
		}

		scored = append(scored, scoredEntry{entry: entry, score: score})
	}

	slices.SortStableFunc(scored, func(a, b scoredEntry) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return 0
		}
	})

	result := make([]Entry, len(scored))
	for i, s := range scored {
		result[i] = s.entry
	}

	return result
}

// Score returns the relevance of text for terms and whether every term
// occurs in it. Terms are expected to be normalized.
func Score(text string, terms []string) (float64, bool) {
	score := 0.0

	for _, term := range terms {
		if term == "" {
			continue
		}

		offset := strings.Index(text, term)
		if offset < 0 {
			return 0, false
		}

		runeOffset := float64(utf8.RuneCountInString(text[:offset]))
		score += termBaseScore + max(0, positionBonus-runeOffset/positionDivisor)
	}

	return score, true
}

func (e *Engine) sample(entries []Entry) []Entry {
	size := e.SampleSize
	if size <= 0 {
		size = DefaultSampleSize
	}

	// Fisher–Yates over the already-copied result slice.
	for i := len(entries) - 1; i > 0; i-- {
		j := e.intN(i + 1)
		entries[i], entries[j] = entries[j], entries[i]
	}

	if len(entries) > size {
		entries = entries[:size]
	}

	return entries
}

func (e *Engine) intN(n int) int {
	if e.Rand != nil {
		return e.Rand.IntN(n)
	}

	return rand.IntN(n) //nolint:gosec // display sampling, not security
}

// Attributes returns the distinct tags across entries in collated order.
func Attributes(entries []Entry) []string {
	return distinct(entries, Entry.Attributes)
}

// Creators returns the distinct creator names across entries in collated order.
func Creators(entries []Entry) []string {
	return distinct(entries, Entry.Creators)
}

func distinct(entries []Entry, split func(Entry) []string) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0)

	for _, entry := range entries {
		for _, value := range split(entry) {
			if _, ok := seen[value]; ok {
				continue
			}

			seen[value] = struct{}{}
			result = append(result, value)
		}
	}

	collator := collate.New(language.Japanese, collate.Numeric)
	collator.SortStrings(result)

	return result
}
