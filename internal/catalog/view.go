// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import (
	"slices"
	"strings"

	"github.com/akyodex/akyodex/internal/normalize"
)

// ViewState is the user's current filter selection. It is a value type; the
// With* helpers return modified copies.
type ViewState struct {
	SearchTerms   []string
	Attribute     string
	Creator       string
	FavoritesOnly bool
	SortAscending bool
	RandomMode    bool
}

// NewViewState returns the initial state: everything shown, ascending by ID.
func NewViewState() ViewState {
	return ViewState{SortAscending: true}
}

// WithQuery replaces the search terms with the normalized tokens of query.
func (v ViewState) WithQuery(query string) ViewState {
	v.SearchTerms = normalize.Terms(query)

	return v
}

// Query joins the search terms back into a display string.
func (v ViewState) Query() string {
	return strings.Join(v.SearchTerms, " ")
}

// Equal reports whether two states select the same result.
func (v ViewState) Equal(other ViewState) bool {
	return v.Attribute == other.Attribute &&
		v.Creator == other.Creator &&
		v.FavoritesOnly == other.FavoritesOnly &&
		v.SortAscending == other.SortAscending &&
		v.RandomMode == other.RandomMode &&
		slices.Equal(v.SearchTerms, other.SearchTerms)
}
