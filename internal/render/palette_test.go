// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package render_test

import (
	"go/parser"
	"go/token"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akyodex/akyodex/internal/render"
)

func TestRenderDoesNotImportUI(t *testing.T) {
	t.Parallel()

	files, err := os.ReadDir(".")
	require.NoError(t, err)

	fset := token.NewFileSet()

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".go") {
			continue
		}

		parsed, err := parser.ParseFile(fset, file.Name(), nil, parser.ImportsOnly)
		require.NoError(t, err)

		for _, spec := range parsed.Imports {
			assert.NotContains(t, spec.Path.Value, "/internal/tui", "%s imports %s", file.Name(), spec.Path.Value)
		}
	}
}

func TestCustomPaletteIsUsed(t *testing.T) {
	t.Parallel()

	palette := render.DefaultPalette()
	palette.Card = lipgloss.NewStyle().Border(lipgloss.DoubleBorder())

	cache := render.NewViewCache(&palette, nil)
	fragments := cache.Reconcile([]render.Projection{{ID: "001", DisplayName: "Akyo"}}, "ja", render.LayoutGrid)

	require.Len(t, fragments, 1)
	assert.Contains(t, fragments[0], "╔")
	assert.NotContains(t, fragments[0], "╭")
}
