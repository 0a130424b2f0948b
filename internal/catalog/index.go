// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import (
	"strings"

	"github.com/akyodex/akyodex/internal/normalize"
)

// IndexRow is the searchable text blob derived from one entry.
type IndexRow struct {
	ID   string
	Text string
}

// BuildIndex returns one row per entry, in input order. It is always rebuilt
// in full when the entry collection changes.
func BuildIndex(entries []Entry) []IndexRow {
	rows := make([]IndexRow, len(entries))
	for i, entry := range entries {
		rows[i] = IndexRow{
			ID: entry.ID,
			Text: normalize.String(strings.Join([]string{
				entry.ID,
				entry.Nickname,
				entry.AvatarName,
				entry.Attribute,
				entry.Creator,
				entry.Notes,
			}, " ")),
		}
	}

	return rows
}
