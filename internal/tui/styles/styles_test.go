// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaletteFollowsStyles(t *testing.T) {
	t.Parallel()

	s := New()
	palette := s.Palette()

	assert.Equal(t, s.Favorite, palette.Favorite)
	assert.Equal(t, s.Card.GetBorderStyle(), palette.Card.GetBorderStyle())
	assert.Equal(t, s.MutedText.GetForeground(), palette.Muted.GetForeground())
	assert.Equal(t, s.SuccessText.GetForeground(), palette.Success.GetForeground())
}
