// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import (
	"regexp"
	"strings"
)

// ExpectedColumns is the column count of a well-formed data row:
// ID, appearance, nickname, avatar name, attribute, notes, creator, avatar URL.
const ExpectedColumns = 8

// Column positions within a well-formed row.
const (
	colID = iota
	colAppearance
	colNickname
	colAvatarName
	colAttribute
	colNotes
	colCreator
	colAvatarURL
)

var idPattern = regexp.MustCompile(`^\d{3,}`)

// Report summarizes the anomalies tolerated while parsing.
type Report struct {
	Rows       int      // data rows seen after the header
	Dropped    int      // empty rows and rows without a valid ID
	Repaired   []string // IDs of over-length rows whose notes were re-joined
	Duplicates []string // IDs that appeared more than once (last wins)
}

// Parse turns raw delimited text into entries. It never fails: malformed rows
// are dropped or repaired.
func Parse(raw string) []Entry {
	entries, _ := ParseReport(raw)

	return entries
}

// ParseReport is Parse plus a report of what was dropped or repaired.
//
// Duplicate IDs: the later row overwrites the earlier one but keeps the
// position of the first occurrence.
func ParseReport(raw string) ([]Entry, Report) {
	var report Report

	rows := scanRows(raw)
	if len(rows) <= 1 {
		return []Entry{}, report
	}

	entries := make([]Entry, 0, len(rows)-1)
	position := make(map[string]int, len(rows)-1)

	// The first row is the header regardless of content.
	for _, fields := range rows[1:] {
		report.Rows++

		for i := range fields {
			fields[i] = cleanField(fields[i])
		}

		if isBlankRow(fields) || !idPattern.MatchString(fields[colID]) {
			report.Dropped++
			continue
		}

		entry, repaired := entryFromFields(fields)
		if repaired {
			report.Repaired = append(report.Repaired, entry.ID)
		}

		if idx, dup := position[entry.ID]; dup {
			report.Duplicates = append(report.Duplicates, entry.ID)
			entries[idx] = entry

			continue
		}

		position[entry.ID] = len(entries)
		entries = append(entries, entry)
	}

	return entries, report
}

func entryFromFields(fields []string) (Entry, bool) {
	get := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}

		return ""
	}

	entry := Entry{
		ID:         get(colID),
		Appearance: get(colAppearance),
		Nickname:   get(colNickname),
		AvatarName: get(colAvatarName),
	}

	switch {
	case len(fields) == ExpectedColumns:
		entry.Attribute = get(colAttribute)
		entry.Notes = get(colNotes)
		entry.Creator = get(colCreator)
		entry.AvatarURL = get(colAvatarURL)

		return entry, false

	case len(fields) > ExpectedColumns:
		// Unquoted commas in the notes column push creator and URL to the end.
		last := len(fields) - 1
		entry.Attribute = get(colAttribute)
		entry.Notes = strings.Join(fields[colNotes:last-1], ",")
		entry.Creator = fields[last-1]
		entry.AvatarURL = fields[last]

		return entry, true

	default:
		entry.Attribute = orDefault(get(colAttribute), UncategorizedAttribute)
		entry.Notes = get(colNotes)
		entry.Creator = orDefault(get(colCreator), UnknownCreator)
		entry.AvatarURL = get(colAvatarURL)

		return entry, false
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}

// cleanField strips one layer of enclosing quotes and stray carriage returns.
func cleanField(field string) string {
	field = strings.ReplaceAll(field, "\r", "")
	if len(field) >= 2 && strings.HasPrefix(field, `"`) && strings.HasSuffix(field, `"`) {
		field = field[1 : len(field)-1]
	}

	return field
}

func isBlankRow(fields []string) bool {
	for _, field := range fields {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}

	return true
}

// scanRows splits raw text into rows of fields. Quoted fields may contain
// commas and newlines; a doubled quote inside quotes yields one quote. An
// unterminated quote at end of input flushes what was read.
func scanRows(raw string) [][]string {
	var (
		rows     [][]string
		fields   []string
		field    strings.Builder
		inQuotes bool
	)

	flushField := func() {
		fields = append(fields, field.String())
		field.Reset()
	}

	flushRow := func() {
		flushField()
		rows = append(rows, fields)
		fields = nil
	}

	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if inQuotes {
			switch {
			case r == '"' && i+1 < len(runes) && runes[i+1] == '"':
				field.WriteRune('"')
				i++
			case r == '"':
				inQuotes = false
			default:
				field.WriteRune(r)
			}

			continue
		}

		switch r {
		case '"':
			inQuotes = true
		case ',':
			flushField()
		case '\r':
			// \r\n terminates on the \n; a lone \r is dropped by cleanField.
			field.WriteRune(r)
		case '\n':
			flushRow()
		default:
			field.WriteRune(r)
		}
	}

	if field.Len() > 0 || len(fields) > 0 {
		flushRow()
	}

	return rows
}
