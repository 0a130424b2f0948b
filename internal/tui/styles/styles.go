// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package styles defines the shared lipgloss palette for cards, screens and
// the footer.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/akyodex/akyodex/internal/render"
)

// Styles contains the palette and the styles built from it.
type Styles struct {
	Primary  lipgloss.Color
	Success  lipgloss.Color
	Warning  lipgloss.Color
	Error    lipgloss.Color
	Muted    lipgloss.Color
	Favorite lipgloss.Color
	Ink      lipgloss.Color

	Title lipgloss.Style
	Card  lipgloss.Style
	// Tag is an attribute chip; callers set the background per attribute.
	Tag lipgloss.Style

	MutedText   lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
}

// New returns the default palette: Akyo blue on a dark terminal.
func New() *Styles {
	primary := lipgloss.Color("#4fb3e8")
	success := lipgloss.Color("#7bc96f")
	warning := lipgloss.Color("#f2c14e")
	errorColor := lipgloss.Color("#ef6f6c")
	muted := lipgloss.Color("#6c7a89")
	favorite := lipgloss.Color("#ffb347")
	ink := lipgloss.Color("#14161f")

	return &Styles{
		Primary:  primary,
		Success:  success,
		Warning:  warning,
		Error:    errorColor,
		Muted:    muted,
		Favorite: favorite,
		Ink:      ink,

		Title: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			MarginBottom(1),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),

		Tag: lipgloss.NewStyle().
			Foreground(ink).
			Padding(0, 1),

		MutedText:   lipgloss.NewStyle().Foreground(muted),
		SuccessText: lipgloss.NewStyle().Foreground(success),
		WarningText: lipgloss.NewStyle().Foreground(warning),
	}
}

// Palette returns the fragment styles for the view cache.
func (s *Styles) Palette() *render.Palette {
	return &render.Palette{
		Card:     s.Card,
		Tag:      s.Tag,
		Muted:    s.MutedText,
		Success:  s.SuccessText,
		Favorite: s.Favorite,
	}
}
