// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Help modal contexts.
const (
	HelpCatalog = "catalog"
	HelpDetail  = "detail"
)

// HelpModal represents a modal overlay showing all available commands.
type HelpModal struct {
	visible  bool
	title    string
	screen   string
	commands []HelpModalSection
	width    int
	height   int
}

// HelpModalSection groups related commands.
type HelpModalSection struct {
	Title    string
	Commands []HelpModalCommand
}

// HelpModalCommand represents a single keyboard command.
type HelpModalCommand struct {
	Keys        string
	Description string
}

// NewHelpModal creates a hidden help modal titled title.
func NewHelpModal(title string) *HelpModal {
	return &HelpModal{title: title}
}

// SetScreen updates the help content based on current screen.
func (h *HelpModal) SetScreen(screen string) {
	h.screen = screen
	h.commands = commandsForScreen(screen)
}

// SetTitle changes the heading, e.g. after a language switch.
func (h *HelpModal) SetTitle(title string) {
	h.title = title
}

// Sections returns the commands currently listed.
func (h *HelpModal) Sections() []HelpModalSection {
	return h.commands
}

// Toggle shows/hides the modal.
func (h *HelpModal) Toggle() {
	h.visible = !h.visible
}

// Hide closes the modal.
func (h *HelpModal) Hide() {
	h.visible = false
}

// IsVisible returns whether the modal is shown.
func (h *HelpModal) IsVisible() bool {
	return h.visible
}

// SetSize updates the modal dimensions.
func (h *HelpModal) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// Update closes the modal on ? or esc. It reports whether the key was
// consumed.
func (h *HelpModal) Update(msg tea.Msg) bool {
	if !h.visible {
		return false
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, helpToggleKey, helpCloseKey) {
			h.Hide()
		}

		return true
	}

	return false
}

//nolint:gochecknoglobals
var (
	helpToggleKey = key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help"))
	helpCloseKey  = key.NewBinding(key.WithKeys(KeyEsc), key.WithHelp("esc", "close help"))
)

// View renders the modal centered in its area.
func (h *HelpModal) View() string {
	if !h.visible {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Width(12)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	var content strings.Builder

	content.WriteString(titleStyle.Render(h.title))
	content.WriteString("\n")

	for _, section := range h.commands {
		content.WriteString("\n")
		content.WriteString(sectionStyle.Render(section.Title))
		content.WriteString("\n")

		for _, cmd := range section.Commands {
			content.WriteString(keyStyle.Render(cmd.Keys) + " " + descStyle.Render(cmd.Description) + "\n")
		}
	}

	content.WriteString("\n")
	content.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("? / esc"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(1, 2).
		Render(content.String())

	if h.width <= 0 || h.height <= 0 {
		return modal
	}

	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, modal)
}

func commandsForScreen(screen string) []HelpModalSection {
	general := HelpModalSection{
		Title: "General",
		Commands: []HelpModalCommand{
			{"?", "Toggle this help"},
			{"q / ctrl+c", "Quit"},
		},
	}

	if screen == HelpDetail {
		return []HelpModalSection{
			{
				Title: "Detail",
				Commands: []HelpModalCommand{
					{"j/k ↑↓", "Scroll"},
					{"*", "Toggle favorite"},
					{"esc", "Back to the catalog"},
				},
			},
			general,
		}
	}

	return []HelpModalSection{
		{
			Title: "Browse",
			Commands: []HelpModalCommand{
				{"j/k ↑↓", "Move selection"},
				{"h/l ←→", "Move across the grid"},
				{"g/G", "Top / bottom"},
				{"PgUp/PgDn", "Page up / down"},
				{"enter", "Show details"},
			},
		},
		{
			Title: "Filter",
			Commands: []HelpModalCommand{
				{"/", "Search"},
				{"f", "Attribute, creator and favorites"},
				{"s", "Toggle ID order"},
				{"R", "Random sample"},
				{"esc", "Clear search and filters"},
			},
		},
		{
			Title: "Catalog",
			Commands: []HelpModalCommand{
				{"*", "Toggle favorite"},
				{"v", "Grid / list"},
				{"L", "Switch language"},
				{"r", "Reload"},
			},
		},
		general,
	}
}
