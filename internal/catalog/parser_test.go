// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/akyodex/akyodex/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "ID,見た目,通称,アバター名,属性,備考,作者,アバターURL\n"

func TestParseWellFormedRows(t *testing.T) {
	t.Parallel()

	raw := header +
		"001,,チョコAkyo,ChocoAvatar,チョコミント,,ugai,https://vrchat.com/home/avatar/avtr_abc\n" +
		"010,,,BetaAvatar,動物,,someone,\n"

	entries := catalog.Parse(raw)
	require.Len(t, entries, 2)

	assert.Equal(t, catalog.Entry{
		ID:         "001",
		Nickname:   "チョコAkyo",
		AvatarName: "ChocoAvatar",
		Attribute:  "チョコミント",
		Creator:    "ugai",
		AvatarURL:  "https://vrchat.com/home/avatar/avtr_abc",
	}, entries[0])
	assert.Equal(t, "010", entries[1].ID)
	assert.Equal(t, "BetaAvatar", entries[1].AvatarName)
	assert.Equal(t, "動物", entries[1].Attribute)
	assert.Equal(t, "someone", entries[1].Creator)
	assert.Empty(t, entries[1].AvatarURL)
}

func TestParseRoundTripPositional(t *testing.T) {
	t.Parallel()

	var builder strings.Builder
	builder.WriteString(header)

	const rows = 25
	for i := 1; i <= rows; i++ {
		id := fmt.Sprintf("%03d", i)
		builder.WriteString(strings.Join([]string{
			id, "look" + id, "nick" + id, "avatar" + id, "attr" + id, "note" + id, "creator" + id, "https://example.com/" + id,
		}, ",") + "\n")
	}

	entries := catalog.Parse(builder.String())
	require.Len(t, entries, rows)

	for i, entry := range entries {
		id := entry.ID
		assert.Equal(t, "look"+id, entry.Appearance, "row %d", i)
		assert.Equal(t, "nick"+id, entry.Nickname)
		assert.Equal(t, "avatar"+id, entry.AvatarName)
		assert.Equal(t, "attr"+id, entry.Attribute)
		assert.Equal(t, "note"+id, entry.Notes)
		assert.Equal(t, "creator"+id, entry.Creator)
		assert.Equal(t, "https://example.com/"+id, entry.AvatarURL)
	}
}

func TestParseQuotedFields(t *testing.T) {
	t.Parallel()

	raw := header +
		`004,,"Nick, with comma",Av,"a,b","he said ""hi""",cr,` + "\n" +
		"005,,Multi,Av,x,\"line1\nline2\",cr,\n"

	entries := catalog.Parse(raw)
	require.Len(t, entries, 2)

	assert.Equal(t, "Nick, with comma", entries[0].Nickname)
	assert.Equal(t, "a,b", entries[0].Attribute)
	assert.Equal(t, `he said "hi"`, entries[0].Notes)
	assert.Equal(t, "line1\nline2", entries[1].Notes)
}

func TestParseColumnCountPolicy(t *testing.T) {
	t.Parallel()

	raw := header +
		"002,,Nick,Avatar,動物,note a,note b,creatorX,https://x.example\n" +
		"003,,Short\n" +
		"006,,Partial,Av,食べ物\n"

	entries, report := catalog.ParseReport(raw)
	require.Len(t, entries, 3)

	over := entries[0]
	assert.Equal(t, "動物", over.Attribute)
	assert.Equal(t, "note a,note b", over.Notes)
	assert.Equal(t, "creatorX", over.Creator)
	assert.Equal(t, "https://x.example", over.AvatarURL)
	assert.Equal(t, []string{"002"}, report.Repaired)

	short := entries[1]
	assert.Equal(t, "Short", short.Nickname)
	assert.Equal(t, catalog.UncategorizedAttribute, short.Attribute)
	assert.Equal(t, catalog.UnknownCreator, short.Creator)
	assert.Empty(t, short.Notes)
	assert.Empty(t, short.AvatarURL)

	partial := entries[2]
	assert.Equal(t, "食べ物", partial.Attribute)
	assert.Equal(t, catalog.UnknownCreator, partial.Creator)
}

func TestParseDropsInvalidRows(t *testing.T) {
	t.Parallel()

	raw := header +
		"abc,,x,y,z,,c,\n" +
		"12,,two digits,y,z,,c,\n" +
		",,,,,,,\n" +
		"\n" +
		"   ,  ,\n" +
		"0123,,ok,y,z,,c,\n"

	entries, report := catalog.ParseReport(raw)
	require.Len(t, entries, 1)
	assert.Equal(t, "0123", entries[0].ID)
	assert.Equal(t, 6, report.Rows)
	assert.Equal(t, 5, report.Dropped)
}

func TestParseDuplicateIDsLastWinsFirstPosition(t *testing.T) {
	t.Parallel()

	raw := header +
		"001,,first,a,x,,c,\n" +
		"002,,other,a,x,,c,\n" +
		"001,,second,a,x,,c,\n"

	entries, report := catalog.ParseReport(raw)
	require.Len(t, entries, 2)
	assert.Equal(t, "001", entries[0].ID)
	assert.Equal(t, "second", entries[0].Nickname)
	assert.Equal(t, "002", entries[1].ID)
	assert.Equal(t, []string{"001"}, report.Duplicates)
}

func TestParseCRLFAndStrayCarriageReturns(t *testing.T) {
	t.Parallel()

	raw := strings.ReplaceAll(header, "\n", "\r\n") +
		"001,,crlf,a,x,,c,url\r\n" +
		"002,,cr\rinside,a,x,,c,\r\n"

	entries := catalog.Parse(raw)
	require.Len(t, entries, 2)
	assert.Equal(t, "url", entries[0].AvatarURL)
	assert.Equal(t, "crinside", entries[1].Nickname)
}

func TestParseNeverPanics(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"ID,only,header",
		"\"unbalanced header\n001,,a",
		header + `005,,"unterminated`,
		header + `"""`,
		header + ",,,,,,,,,,,,,",
		"\n\n\n",
		header + "001" + strings.Repeat(",", 40),
	}

	for _, input := range inputs {
		assert.NotPanics(t, func() {
			entries := catalog.Parse(input)
			assert.NotNil(t, entries)
		}, "input %q", input)
	}
}

func TestParseHeaderAlwaysDiscarded(t *testing.T) {
	t.Parallel()

	// A header that looks like data is still discarded.
	entries := catalog.Parse("999,,looks,like,data,,x,\n001,,real,a,x,,c,\n")
	require.Len(t, entries, 1)
	assert.Equal(t, "001", entries[0].ID)

	assert.Empty(t, catalog.Parse(header))
}

func TestParseUnterminatedQuoteFlushesLastRow(t *testing.T) {
	t.Parallel()

	entries := catalog.Parse(header + `005,,"unterminated`)
	require.Len(t, entries, 1)
	assert.Equal(t, "unterminated", entries[0].Nickname)
}
