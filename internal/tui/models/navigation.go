// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package models defines the screens of the catalog TUI and the messages
// passed between them.
package models

import (
	"github.com/akyodex/akyodex/internal/domain"
	"github.com/akyodex/akyodex/internal/library"
)

// NavigateMsg is a message sent to request navigation to a specific screen.
type NavigateMsg struct {
	Screen int
	Data   any // Optional data to pass to the new screen
}

// Screen constants for navigation.
const (
	CatalogScreen = iota
	DetailScreen
	ErrorScreenID
)

// Key constants shared by the screens.
const (
	KeyCtrlC = "ctrl+c"
	KeyEnter = "enter"
	KeyEsc   = "esc"
)

// GoodbyeMessage is shown for the final frame after quitting.
const GoodbyeMessage = "またね！\n"

// LoadedMsg reports the outcome of a dataset load for Lang.
type LoadedMsg struct {
	Lang       string
	Snapshot   *library.Snapshot
	Err        error
	Background bool // refetch of a truncated dataset; failures stay silent
}

// RetryMsg asks the catalog to reload after an error.
type RetryMsg struct{}

// PrefsChangedMsg carries the path of a preference file written by another
// process.
type PrefsChangedMsg struct {
	Path string
}

// FavoriteToggledMsg reports a favorite toggle.
type FavoriteToggledMsg struct {
	ID  string
	On  bool
	Err error
}

// DetailMsg carries the entry to show on the detail screen.
type DetailMsg struct {
	Result domain.EntryResult
	Err    error
}

// PrefetchedMsg reports how many avatar lookups a prefetch warmed.
type PrefetchedMsg struct {
	Count int
}

// scrollFrameMsg drives one coalesced scroll check.
type scrollFrameMsg struct{}

// refetchMsg schedules a background reload of a truncated dataset.
type refetchMsg struct {
	lang string
}

// FavoriteRequestMsg asks the catalog to toggle the favorite flag of ID.
type FavoriteRequestMsg struct {
	ID string
}
