// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import "time"

// OutputPort presents command results.
type OutputPort interface {
	// Success outputs a message, or data in JSON mode.
	Success(message string, data any) error

	// Error outputs an error message.
	Error(message string) error

	// Info outputs an informational message.
	Info(message string) error

	// Table outputs tabular data.
	Table(headers []string, rows [][]string) error

	// List outputs one value per line, or data in JSON mode.
	List(values []string, data any) error

	// IsQuiet returns true if output should be suppressed.
	IsQuiet() bool
}

// EntryResult is the external representation of one catalog entry.
type EntryResult struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Nickname   string   `json:"nickname,omitempty"`
	AvatarName string   `json:"avatar_name,omitempty"`
	Attributes []string `json:"attributes"`
	Creators   []string `json:"creators"`
	Notes      string   `json:"notes,omitempty"`
	AvatarURL  string   `json:"avatar_url,omitempty"`
	ImageURL   string   `json:"image_url,omitempty"`
	Favorite   bool     `json:"favorite"`
}

// SearchResult is one page of a filtered catalog view.
type SearchResult struct {
	Entries   []EntryResult `json:"entries"`
	Total     int           `json:"total"`
	Offset    int           `json:"offset"`
	Lang      string        `json:"lang"`
	FromCache bool          `json:"from_cache"`
	Truncated bool          `json:"truncated,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// ListResult is a set of ids such as favorites or tombstones.
type ListResult struct {
	Kind  string   `json:"kind"`
	IDs   []string `json:"ids"`
	Total int      `json:"total"`
}

// ValuesResult is a list of distinct attribute or creator names.
type ValuesResult struct {
	Kind   string   `json:"kind"`
	Values []string `json:"values"`
}
