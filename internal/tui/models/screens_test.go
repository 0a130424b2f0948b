// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/akyodex/akyodex/internal/domain"
	"github.com/akyodex/akyodex/internal/i18n"
	"github.com/akyodex/akyodex/internal/tui/styles"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrorDetails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{"empty dataset", fmt.Errorf("ja: %w", domain.ErrEmptyDataset), ErrorData},
		{"source unavailable", fmt.Errorf("fetch: %w", domain.ErrSourceUnavailable), ErrorNetwork},
		{"other", errors.New("boom"), ErrorGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			details := NewErrorDetails(tt.err, i18n.For(domain.LangEnglish))
			assert.Equal(t, tt.expected, details.Type)
			assert.Equal(t, "Error", details.Title)
			assert.Equal(t, tt.err.Error(), details.Details)
			assert.NotEmpty(t, details.Message)
			assert.True(t, details.Recoverable)
		})
	}
}

func TestErrorScreenRetry(t *testing.T) {
	t.Parallel()

	messages := i18n.For(domain.LangJapanese)
	screen := NewErrorScreen(styles.New(), messages, NewErrorDetails(domain.ErrEmptyDataset, messages))
	screen.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Contains(t, screen.View(), messages.Retry)

	_, cmd := screen.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)
	assert.Equal(t, RetryMsg{}, cmd())
}

func TestErrorScreenDetailsToggle(t *testing.T) {
	t.Parallel()

	messages := i18n.For(domain.LangEnglish)
	err := fmt.Errorf("https://akyodex.com/data: %w", domain.ErrSourceUnavailable)
	screen := NewErrorScreen(styles.New(), messages, NewErrorDetails(err, messages))
	screen.Update(tea.WindowSizeMsg{Width: 120, Height: 24})

	assert.NotContains(t, screen.View(), "akyodex.com/data")

	screen.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.Contains(t, screen.View(), "akyodex.com/data")
}

func TestErrorScreenNotRecoverable(t *testing.T) {
	t.Parallel()

	details := NewErrorDetails(domain.ErrEmptyDataset, i18n.For(domain.LangEnglish))
	details.Recoverable = false
	screen := NewErrorScreen(styles.New(), i18n.For(domain.LangEnglish), details)

	_, cmd := screen.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestMarkdown(t *testing.T) {
	t.Parallel()

	messages := i18n.For(domain.LangEnglish)
	result := domain.EntryResult{
		ID:         "001",
		Name:       "Choco",
		AvatarName: "ChocoAvatar",
		Attributes: []string{"mint", "chocolate"},
		Creators:   []string{"ugai"},
		Notes:      "first Akyo",
		ImageURL:   "https://images.akyodex.com/001.webp",
		Favorite:   true,
	}

	md := Markdown(messages, result)
	assert.Contains(t, md, "# #001 Choco ★")
	assert.Contains(t, md, "**Attribute**: mint, chocolate")
	assert.Contains(t, md, "**Creator**: ugai")
	assert.Contains(t, md, "https://images.akyodex.com/001.webp")
	assert.Contains(t, md, "## Notes")
	assert.NotContains(t, md, "**Nickname**", "empty fields are omitted")

	result.ImageURL = ""
	assert.Contains(t, Markdown(messages, result), "**Image**: No image")

	result.ImageURL = "data:image/webp;base64,AAAA"
	assert.Contains(t, Markdown(messages, result), "**Image**: cached")
}

func TestDetailNavigation(t *testing.T) {
	t.Parallel()

	messages := i18n.For(domain.LangJapanese)
	detail := NewDetail(styles.New(), messages, domain.EntryResult{ID: "002", Name: "Beta"}, 80, 24)

	_, cmd := detail.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("*")})
	require.NotNil(t, cmd)
	assert.Equal(t, FavoriteRequestMsg{ID: "002"}, cmd())

	detail.Update(FavoriteToggledMsg{ID: "002", On: true})
	assert.True(t, detail.Result().Favorite)

	detail.Update(FavoriteToggledMsg{ID: "003", On: false})
	assert.True(t, detail.Result().Favorite, "toggles for other entries are ignored")

	_, cmd = detail.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, NavigateMsg{Screen: CatalogScreen}, cmd())
}

func TestHelpModalSections(t *testing.T) {
	t.Parallel()

	modal := NewHelpModal("Keys")
	modal.SetScreen(HelpCatalog)
	modal.SetSize(100, 40)

	require.NotEmpty(t, modal.Sections())
	assert.Equal(t, "Browse", modal.Sections()[0].Title)
	assert.Empty(t, modal.View(), "hidden modal renders nothing")

	modal.Toggle()
	assert.Contains(t, modal.View(), "Keys")
	assert.True(t, modal.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}), "keys are consumed while open")
	assert.True(t, modal.IsVisible())

	modal.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, modal.IsVisible())

	modal.SetScreen(HelpDetail)
	assert.Equal(t, "Detail", modal.Sections()[0].Title)
}
