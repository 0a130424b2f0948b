// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"github.com/akyodex/akyodex/internal/catalog"
	"github.com/akyodex/akyodex/internal/i18n"
	"github.com/charmbracelet/huh"
)

// FilterValues are the fields edited by the filter form. Empty strings mean
// no restriction.
type FilterValues struct {
	Attribute     string
	Creator       string
	FavoritesOnly bool
}

// FilterValuesOf extracts the form fields from view.
func FilterValuesOf(view catalog.ViewState) FilterValues {
	return FilterValues{
		Attribute:     view.Attribute,
		Creator:       view.Creator,
		FavoritesOnly: view.FavoritesOnly,
	}
}

// Apply writes the form fields into view.
func (f FilterValues) Apply(view catalog.ViewState) catalog.ViewState {
	view.Attribute = f.Attribute
	view.Creator = f.Creator
	view.FavoritesOnly = f.FavoritesOnly

	return view
}

// newFilterForm builds the attribute, creator and favorites form bound to
// values.
func newFilterForm(messages i18n.Messages, attributes, creators []string, values *FilterValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(messages.Attribute).
				Options(selectOptions(messages.AnyAttribute, attributes)...).
				Height(10).
				Value(&values.Attribute),
			huh.NewSelect[string]().
				Title(messages.Creator).
				Options(selectOptions(messages.AnyCreator, creators)...).
				Height(10).
				Value(&values.Creator),
			huh.NewConfirm().
				Title(messages.FavoritesOnly).
				Value(&values.FavoritesOnly),
		).Title(messages.FilterTitle),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

func selectOptions(anyLabel string, values []string) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(values)+1)
	options = append(options, huh.NewOption(anyLabel, ""))

	for _, value := range values {
		options = append(options, huh.NewOption(value, value))
	}

	return options
}
