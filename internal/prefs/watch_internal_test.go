// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package prefs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestForgetKeepsNewerTimer(t *testing.T) {
	t.Parallel()

	w := &Watcher{timers: make(map[string]*time.Timer)}

	fired := time.NewTimer(time.Hour)
	newer := time.NewTimer(time.Hour)

	t.Cleanup(func() {
		fired.Stop()
		newer.Stop()
	})

	w.timers["favorites.toml"] = newer

	// A timer that fired after being replaced must not evict its successor.
	w.forget("favorites.toml", fired)
	assert.Same(t, newer, w.timers["favorites.toml"])

	w.forget("favorites.toml", newer)
	assert.NotContains(t, w.timers, "favorites.toml")
}
