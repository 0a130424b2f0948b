// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package render

import "github.com/charmbracelet/lipgloss"

// Palette holds the styles fragments are painted with.
type Palette struct {
	Card    lipgloss.Style
	Tag     lipgloss.Style // background is set per attribute
	Muted   lipgloss.Style
	Success lipgloss.Style

	Favorite lipgloss.Color
}

// DefaultPalette is used when no palette is supplied.
func DefaultPalette() Palette {
	return Palette{
		Card:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		Tag:      lipgloss.NewStyle().Padding(0, 1),
		Muted:    lipgloss.NewStyle().Faint(true),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Favorite: lipgloss.Color("3"),
	}
}
