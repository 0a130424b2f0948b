// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"fmt"
	"strings"

	"github.com/akyodex/akyodex/internal/domain"
	"github.com/akyodex/akyodex/internal/i18n"
	"github.com/akyodex/akyodex/internal/tui/styles"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const detailWrap = 80

// Detail shows one entry as rendered markdown.
type Detail struct {
	styles    *styles.Styles
	messages  i18n.Messages
	result    domain.EntryResult
	viewport  viewport.Model
	renderer  *glamour.TermRenderer
	helpModal *HelpModal
	width     int
	height    int
	keyMap    DetailKeyMap
}

// DetailKeyMap defines key bindings for the detail screen.
type DetailKeyMap struct {
	Back     key.Binding
	Favorite key.Binding
	Help     key.Binding
}

// DefaultDetailKeyMap returns the default key bindings.
func DefaultDetailKeyMap() DetailKeyMap {
	return DetailKeyMap{
		Back:     key.NewBinding(key.WithKeys(KeyEsc, "backspace", "left", "h"), key.WithHelp("esc", "back")),
		Favorite: key.NewBinding(key.WithKeys("*"), key.WithHelp("*", "favorite")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// NewDetail creates the detail screen for result.
func NewDetail(styleConfig *styles.Styles, messages i18n.Messages, result domain.EntryResult, width, height int) *Detail {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(detailWrap),
	)
	if err != nil {
		renderer, _ = glamour.NewTermRenderer()
	}

	helpModal := NewHelpModal(messages.HelpTitle)
	helpModal.SetScreen(HelpDetail)

	m := &Detail{
		styles:    styleConfig,
		messages:  messages,
		result:    result,
		viewport:  viewport.New(max(width, 1), max(height-2, 1)),
		renderer:  renderer,
		helpModal: helpModal,
		width:     width,
		height:    height,
		keyMap:    DefaultDetailKeyMap(),
	}
	m.viewport.SetContent(m.render())

	return m
}

// Result returns the displayed entry.
func (m *Detail) Result() domain.EntryResult {
	return m.result
}

// Markdown builds the markdown body for result.
func Markdown(messages i18n.Messages, result domain.EntryResult) string {
	var b strings.Builder

	title := result.Name
	if title == "" {
		title = messages.Untitled
	}

	fmt.Fprintf(&b, "# #%s %s", result.ID, title)

	if result.Favorite {
		b.WriteString(" ★")
	}

	b.WriteString("\n\n")

	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "- **%s**: %s\n", label, value)
		}
	}

	field(messages.Nickname, result.Nickname)
	field(messages.AvatarName, result.AvatarName)
	field(messages.Attribute, strings.Join(result.Attributes, ", "))
	field(messages.Creator, strings.Join(result.Creators, ", "))
	field(messages.AvatarPage, result.AvatarURL)

	switch {
	case result.ImageURL == "":
		field(messages.Image, messages.NoImage)
	case strings.HasPrefix(result.ImageURL, "data:"):
		field(messages.Image, messages.Cached)
	default:
		field(messages.Image, result.ImageURL)
	}

	if result.Notes != "" {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", messages.Notes, result.Notes)
	}

	return b.String()
}

func (m *Detail) render() string {
	markdown := Markdown(m.messages, m.result)

	out, err := m.renderer.Render(markdown)
	if err != nil {
		return markdown
	}

	return out
}

// Init implements tea.Model.
func (m *Detail) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Detail) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.helpModal.Update(msg) {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(msg.Width, 1)
		m.viewport.Height = max(msg.Height-2, 1)
		m.helpModal.SetSize(msg.Width, msg.Height)

		return m, nil

	case FavoriteToggledMsg:
		if msg.Err == nil && msg.ID == m.result.ID {
			m.result.Favorite = msg.On
			m.viewport.SetContent(m.render())
		}

		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Back):
			return m, func() tea.Msg { return NavigateMsg{Screen: CatalogScreen} }
		case key.Matches(msg, m.keyMap.Favorite):
			id := m.result.ID

			return m, func() tea.Msg { return FavoriteRequestMsg{ID: id} }
		case key.Matches(msg, m.keyMap.Help):
			m.helpModal.Toggle()

			return m, nil
		}
	}

	var cmd tea.Cmd

	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

// View implements tea.Model.
func (m *Detail) View() string {
	if m.helpModal.IsVisible() {
		return m.helpModal.View()
	}

	footer := RenderFooter(m.styles, m.width, []FooterAction{
		{Key: "esc", Action: "Back"},
		{Key: "*", Action: m.messages.Favorite},
	}, true)

	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}
