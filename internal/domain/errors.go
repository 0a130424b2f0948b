// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"errors"
	"strings"
)

// Common domain errors.
var (
	ErrEmptyDataset      = errors.New("dataset contains no valid entries")
	ErrSourceUnavailable = errors.New("dataset source unavailable")
	ErrNotFound          = errors.New("entry not found")
	ErrInvalidID         = errors.New("invalid entry id")
	ErrStaleLoad         = errors.New("load superseded by a newer one")
	ErrNoAvatarImage     = errors.New("no avatar image found")
)

// ErrorInfo provides user-friendly error information.
type ErrorInfo struct {
	Message     string   // User-friendly message
	Suggestions []string // Actionable suggestions
	ShowDetails bool     // Whether to show technical details
	Retryable   bool
}

type errorMatcher struct {
	target   error
	patterns []string
	info     ErrorInfo
}

// getErrorMatchers returns error matchers in priority order. Sentinels are
// checked with errors.Is before falling back to message patterns.
func getErrorMatchers() []errorMatcher {
	return []errorMatcher{
		{
			target: ErrEmptyDataset,
			info: ErrorInfo{
				Message:     "The catalog data could not be read",
				Suggestions: []string{"Press r to retry", "Switch language with L to try the other dataset"},
				Retryable:   true,
			},
		},
		{
			target:   ErrSourceUnavailable,
			patterns: []string{"network", "connection", "timeout", "no such host"},
			info: ErrorInfo{
				Message:     "Could not reach the catalog server",
				Suggestions: []string{"Check your internet connection", "Try again in a few moments"},
				Retryable:   true,
			},
		},
		{
			target:   ErrNotFound,
			patterns: []string{"not found"},
			info: ErrorInfo{
				Message:     "No such entry",
				Suggestions: []string{"Use 'akyodex search' to list entry ids"},
			},
		},
		{
			target: ErrInvalidID,
			info: ErrorInfo{
				Message:     "Invalid entry id",
				Suggestions: []string{"Entry ids are numbers with at least three digits, e.g. 001"},
			},
		},
		{
			patterns: []string{"permission", "denied", "read-only"},
			info: ErrorInfo{
				Message:     "Permission denied",
				Suggestions: []string{"Check that your user can write to the akyodex data directory"},
			},
		},
		{
			patterns: []string{"locked", "resource temporarily unavailable"},
			info: ErrorInfo{
				Message:     "Preferences are busy",
				Suggestions: []string{"Another akyodex process is saving, try again"},
				Retryable:   true,
			},
		},
	}
}

// GetErrorInfo analyzes an error and returns user-friendly information.
func GetErrorInfo(err error, verbose bool) ErrorInfo {
	if err == nil {
		return ErrorInfo{}
	}

	matchers := getErrorMatchers()

	for _, matcher := range matchers {
		if matcher.target != nil && errors.Is(err, matcher.target) {
			return withDetails(matcher.info, verbose)
		}
	}

	errStr := strings.ToLower(err.Error())

	for _, matcher := range matchers {
		for _, pattern := range matcher.patterns {
			if strings.Contains(errStr, pattern) {
				return withDetails(matcher.info, verbose)
			}
		}
	}

	// Generic error - show details in verbose mode
	return ErrorInfo{
		Message:     "Operation failed",
		Suggestions: []string{"Run with --verbose for more details"},
		ShowDetails: verbose,
	}
}

func withDetails(info ErrorInfo, verbose bool) ErrorInfo {
	info.ShowDetails = verbose

	return info
}

// FormatErrorMessage formats an error for display.
func FormatErrorMessage(err error, verbose bool) string {
	info := GetErrorInfo(err, verbose)

	var result strings.Builder

	result.WriteString("✗ ")
	result.WriteString(info.Message)

	// Add technical details if verbose
	if info.ShowDetails && err != nil {
		result.WriteString("\n  Technical details: ")
		result.WriteString(err.Error())
	}

	switch {
	case len(info.Suggestions) > 0 && !verbose:
		// In non-verbose mode, just show the first suggestion inline
		result.WriteString(" (")
		result.WriteString(info.Suggestions[0])
		result.WriteString(")")
	case len(info.Suggestions) > 0:
		result.WriteString("\n  Suggestions:")

		for _, suggestion := range info.Suggestions {
			result.WriteString("\n    • ")
			result.WriteString(suggestion)
		}
	}

	return result.String()
}
