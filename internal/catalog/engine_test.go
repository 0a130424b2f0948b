// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/akyodex/akyodex/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntries() []catalog.Entry {
	return []catalog.Entry{
		{ID: "003", Nickname: "Gamma", Attribute: "動物,チョコミント", Creator: "ugai"},
		{ID: "001", Nickname: "チョコAkyo", AvatarName: "ChocoAvatar", Attribute: "チョコミント", Creator: "ugai"},
		{ID: "010", AvatarName: "BetaAvatar", Attribute: "動物", Creator: "someone & ugai", IsFavorite: true},
		{ID: "002", Nickname: "Delta", Attribute: "食べ物", Creator: "someone", IsFavorite: true},
	}
}

func ids(entries []catalog.Entry) []string {
	result := make([]string, len(entries))
	for i, entry := range entries {
		result[i] = entry.ID
	}

	return result
}

func TestApplyEndToEnd(t *testing.T) {
	t.Parallel()

	raw := header +
		"001,,チョコAkyo,ChocoAvatar,チョコミント,,ugai,https://vrchat.com/home/avatar/avtr_abc\n" +
		"010,,,BetaAvatar,動物,,someone,\n"

	entries := catalog.Parse(raw)
	index := catalog.BuildIndex(entries)

	tests := []struct {
		name string
		view catalog.ViewState
		want []string
	}{
		{name: "initial state", view: catalog.NewViewState(), want: []string{"001", "010"}},
		{name: "ascii query", view: catalog.NewViewState().WithQuery("choco"), want: []string{"001"}},
		{name: "fullwidth katakana query", view: catalog.NewViewState().WithQuery("ﾁｮｺ"), want: []string{"001"}},
		{name: "attribute filter", view: catalog.ViewState{Attribute: "動物", SortAscending: true}, want: []string{"010"}},
		{name: "unknown attribute", view: catalog.ViewState{Attribute: "存在しない", SortAscending: true}, want: []string{}},
		{name: "descending", view: catalog.ViewState{SortAscending: false}, want: []string{"010", "001"}},
		{name: "no match", view: catalog.NewViewState().WithQuery("zzz"), want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := catalog.Apply(entries, index, tt.view)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApplyFiltersCompose(t *testing.T) {
	t.Parallel()

	entries := sampleEntries()
	index := catalog.BuildIndex(entries)

	view := catalog.NewViewState()
	view.Attribute = "動物"
	assert.Equal(t, []string{"003", "010"}, ids(catalog.Apply(entries, index, view)))

	view.Creator = "ugai"
	assert.Equal(t, []string{"003", "010"}, ids(catalog.Apply(entries, index, view)))

	view.FavoritesOnly = true
	assert.Equal(t, []string{"010"}, ids(catalog.Apply(entries, index, view)))

	view.Creator = "someone"
	view.Attribute = ""
	assert.Equal(t, []string{"002", "010"}, ids(catalog.Apply(entries, index, view)))
}

func TestApplyFilterMonotonicity(t *testing.T) {
	t.Parallel()

	entries := sampleEntries()
	index := catalog.BuildIndex(entries)
	all := len(catalog.Apply(entries, index, catalog.NewViewState()))

	for _, attribute := range catalog.Attributes(entries) {
		view := catalog.NewViewState()
		view.Attribute = attribute
		withAttr := catalog.Apply(entries, index, view)
		assert.LessOrEqual(t, len(withAttr), all, attribute)

		for _, creator := range catalog.Creators(entries) {
			view.Creator = creator
			assert.LessOrEqual(t, len(catalog.Apply(entries, index, view)), len(withAttr), "%s/%s", attribute, creator)
		}
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	entries := sampleEntries()
	before := ids(entries)
	index := catalog.BuildIndex(entries)

	view := catalog.NewViewState().WithQuery("a")
	view.SortAscending = false
	_ = catalog.Apply(entries, index, view)

	assert.Equal(t, before, ids(entries))
}

func TestApplySearchIsConjunctive(t *testing.T) {
	t.Parallel()

	entries := sampleEntries()
	index := catalog.BuildIndex(entries)

	got := catalog.Apply(entries, index, catalog.NewViewState().WithQuery("ugai 動物"))
	assert.Equal(t, []string{"003", "010"}, ids(got))

	got = catalog.Apply(entries, index, catalog.NewViewState().WithQuery("ugai 食べ物"))
	assert.Empty(t, got)
}

func TestApplyRanksEarlierMatchesFirst(t *testing.T) {
	t.Parallel()

	entries := []catalog.Entry{
		{ID: "001", Nickname: "zzzzzzzzzzzzzzzzzzzz choco"},
		{ID: "002", Nickname: "choco"},
		{ID: "003", Nickname: "choco"},
	}
	index := catalog.BuildIndex(entries)

	got := catalog.Apply(entries, index, catalog.NewViewState().WithQuery("choco"))
	assert.Equal(t, []string{"002", "003", "001"}, ids(got))

	view := catalog.NewViewState().WithQuery("choco")
	view.SortAscending = false
	got = catalog.Apply(entries, index, view)
	assert.Equal(t, []string{"003", "002", "001"}, ids(got), "ties keep the sorted order")
}

func TestApplySkipsEntriesMissingFromIndex(t *testing.T) {
	t.Parallel()

	entries := sampleEntries()
	index := catalog.BuildIndex(entries[:1])

	got := catalog.Apply(entries, index, catalog.NewViewState().WithQuery("a"))
	assert.Equal(t, []string{"003"}, ids(got))
}

func TestSortByIDNumeric(t *testing.T) {
	t.Parallel()

	entries := []catalog.Entry{{ID: "1000"}, {ID: "999"}, {ID: "010"}, {ID: "002"}}

	catalog.SortByID(entries, true)
	assert.Equal(t, []string{"002", "010", "999", "1000"}, ids(entries))

	catalog.SortByID(entries, false)
	assert.Equal(t, []string{"1000", "999", "010", "002"}, ids(entries))
}

func TestApplyRandomMode(t *testing.T) {
	t.Parallel()

	entries := make([]catalog.Entry, 0, 30)
	for i := 1; i <= 30; i++ {
		entries = append(entries, catalog.Entry{ID: fmt.Sprintf("%03d", i), Attribute: "動物"})
	}

	index := catalog.BuildIndex(entries)
	engine := &catalog.Engine{Rand: rand.New(rand.NewPCG(1, 2))} //nolint:gosec

	view := catalog.NewViewState()
	view.RandomMode = true

	got := engine.Apply(entries, index, view)
	require.Len(t, got, catalog.DefaultSampleSize)

	seen := make(map[string]struct{}, len(got))
	for _, entry := range got {
		assert.NotContains(t, seen, entry.ID)
		seen[entry.ID] = struct{}{}
	}

	view.RandomMode = false
	restored := engine.Apply(entries, index, view)
	assert.Equal(t, ids(catalog.Apply(entries, index, catalog.NewViewState())), ids(restored))
	assert.Len(t, restored, 30)
}

func TestApplyRandomModeSmallSet(t *testing.T) {
	t.Parallel()

	entries := sampleEntries()
	engine := &catalog.Engine{SampleSize: 2, Rand: rand.New(rand.NewPCG(7, 7))} //nolint:gosec

	view := catalog.NewViewState()
	view.RandomMode = true
	view.FavoritesOnly = true

	got := engine.Apply(entries, catalog.BuildIndex(entries), view)
	assert.ElementsMatch(t, []string{"002", "010"}, ids(got))
}

func TestScore(t *testing.T) {
	t.Parallel()

	score, ok := catalog.Score("choco mint", []string{"choco"})
	require.True(t, ok)
	assert.InDelta(t, 15.0, score, 1e-9)

	score, ok = catalog.Score("mint choco", []string{"choco", "mint"})
	require.True(t, ok)
	assert.InDelta(t, (10+5-0.5)+(10+5), score, 1e-9)

	_, ok = catalog.Score("mint", []string{"choco"})
	assert.False(t, ok)

	// Offsets are measured in runes, not bytes.
	score, ok = catalog.Score("あいうえおかきくけこx", []string{"x"})
	require.True(t, ok)
	assert.InDelta(t, 14.0, score, 1e-9)
}

func TestAttributesAndCreators(t *testing.T) {
	t.Parallel()

	entries := sampleEntries()

	assert.ElementsMatch(t, []string{"動物", "チョコミント", "食べ物"}, catalog.Attributes(entries))
	assert.ElementsMatch(t, []string{"ugai", "someone"}, catalog.Creators(entries))
	assert.Empty(t, catalog.Attributes(nil))
}
