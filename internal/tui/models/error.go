// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akyodex/akyodex/internal/domain"
	"github.com/akyodex/akyodex/internal/i18n"
	"github.com/akyodex/akyodex/internal/tui/styles"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrorType represents different types of errors.
type ErrorType int

const (
	// ErrorGeneral represents a general error type.
	ErrorGeneral ErrorType = iota
	// ErrorData represents a dataset without usable entries.
	ErrorData
	// ErrorNetwork represents a source that could not be reached.
	ErrorNetwork
)

// ErrorDetails contains error information.
type ErrorDetails struct {
	Type        ErrorType
	Title       string
	Message     string
	Details     string
	Suggestions []string
	Timestamp   time.Time
	Recoverable bool
}

// ErrorScreen shows a failed load and offers a retry.
type ErrorScreen struct {
	styles      *styles.Styles
	messages    i18n.Messages
	width       int
	height      int
	error       ErrorDetails
	showDetails bool
	quitting    bool
	keyMap      ErrorKeyMap
}

// ErrorKeyMap defines key bindings for the error screen.
type ErrorKeyMap struct {
	Retry   key.Binding
	Details key.Binding
	Quit    key.Binding
}

// DefaultErrorKeyMap returns the default key bindings.
func DefaultErrorKeyMap() ErrorKeyMap {
	return ErrorKeyMap{
		Retry: key.NewBinding(
			key.WithKeys("r", KeyEnter),
			key.WithHelp("r/enter", "retry"),
		),
		Details: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "details"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", KeyCtrlC, KeyEsc),
			key.WithHelp("q", "quit"),
		),
	}
}

// NewErrorDetails classifies err for display.
func NewErrorDetails(err error, messages i18n.Messages) ErrorDetails {
	info := domain.GetErrorInfo(err, true)

	details := ErrorDetails{
		Type:        ErrorGeneral,
		Title:       messages.ErrorTitle,
		Message:     info.Message,
		Suggestions: info.Suggestions,
		Timestamp:   time.Now(),
		Recoverable: true,
	}

	if err != nil {
		details.Details = err.Error()
	}

	switch {
	case errors.Is(err, domain.ErrEmptyDataset):
		details.Type = ErrorData
	case errors.Is(err, domain.ErrSourceUnavailable):
		details.Type = ErrorNetwork
	}

	return details
}

// NewErrorScreen creates a new error screen model.
func NewErrorScreen(s *styles.Styles, messages i18n.Messages, details ErrorDetails) *ErrorScreen {
	return &ErrorScreen{
		styles:   s,
		messages: messages,
		error:    details,
		keyMap:   DefaultErrorKeyMap(),
	}
}

// Details returns the displayed error.
func (m *ErrorScreen) Details() ErrorDetails {
	return m.error
}

// Init initializes the error screen model.
func (m *ErrorScreen) Init() tea.Cmd {
	return nil
}

// Update handles messages for the ErrorScreen model.
func (m *ErrorScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			m.quitting = true

			return m, tea.Quit

		case key.Matches(msg, m.keyMap.Retry):
			if !m.error.Recoverable {
				return m, nil
			}

			return m, func() tea.Msg { return RetryMsg{} }

		case key.Matches(msg, m.keyMap.Details):
			m.showDetails = !m.showDetails
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// View renders the error screen.
func (m *ErrorScreen) View() string {
	if m.quitting {
		return GoodbyeMessage
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		m.renderErrorDisplay(),
		"",
		m.renderFooter(),
	)
}

func (m *ErrorScreen) renderHeader() string {
	leftSide := lipgloss.NewStyle().
		Bold(true).
		Foreground(m.styles.Error).
		Render(m.messages.Title + " » " + m.error.Title)

	rightSide := lipgloss.NewStyle().
		Foreground(m.styles.Muted).
		Render(m.error.Timestamp.Format(time.TimeOnly))

	spacerWidth := max(m.width-lipgloss.Width(leftSide)-lipgloss.Width(rightSide)-4, 1)

	return lipgloss.NewStyle().
		Padding(0, 2).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(m.styles.Error).
		Render(leftSide + strings.Repeat(" ", spacerWidth) + rightSide)
}

func (m *ErrorScreen) renderErrorDisplay() string {
	var content strings.Builder

	content.WriteString(lipgloss.NewStyle().Foreground(m.styles.Error).Bold(true).Render(m.error.Message))
	content.WriteString("\n")

	if m.showDetails && m.error.Details != "" {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Foreground(m.styles.Muted).MarginLeft(2).Render(m.error.Details))
		content.WriteString("\n")
	}

	if len(m.error.Suggestions) > 0 {
		content.WriteString("\n")

		suggestionStyle := lipgloss.NewStyle().Foreground(m.styles.Success).MarginLeft(2)
		for i, suggestion := range m.error.Suggestions {
			content.WriteString(suggestionStyle.Render(fmt.Sprintf("%d. %s", i+1, suggestion)))
			content.WriteString("\n")
		}
	}

	if m.error.Recoverable {
		content.WriteString("\n")
		content.WriteString(m.styles.SuccessText.Bold(true).Render(m.messages.Retry))
	}

	return m.styles.Card.
		BorderForeground(m.styles.Error).
		Width(max(m.width-4, 20)).
		Render(content.String())
}

func (m *ErrorScreen) renderFooter() string {
	var actions []FooterAction

	if m.error.Recoverable {
		actions = append(actions, FooterAction{Key: "r", Action: "Retry"})
	}

	actions = append(actions, FooterAction{Key: "q", Action: "Quit"})

	return RenderFooter(m.styles, m.width, actions, true)
}
