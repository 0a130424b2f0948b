// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akyodex/akyodex/internal/domain"
)

func TestExitErrorFormatting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *domain.ExitError
		code     int
		expected string
	}{
		{
			name:     "with underlying error",
			err:      domain.NewExitError(11, "Catalog unavailable", domain.ErrSourceUnavailable),
			code:     11,
			expected: "Catalog unavailable: dataset source unavailable",
		},
		{
			name:     "without underlying error",
			err:      domain.NewExitError(2, "usage: akyodex show <id>", nil),
			code:     2,
			expected: "usage: akyodex show <id>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, tt.err.Error())
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestExitErrorUnwrap(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("command: %w", domain.NewExitError(5, "missing", domain.ErrNotFound))

	var exitErr *domain.ExitError
	assert.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 5, exitErr.Code)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFormatErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		err              error
		verbose          bool
		shouldContain    []string
		shouldNotContain []string
	}{
		{
			name:             "wrapped sentinel",
			err:              fmt.Errorf("load ja: %w", domain.ErrSourceUnavailable),
			shouldContain:    []string{"Could not reach the catalog server", "(Check your internet connection)"},
			shouldNotContain: []string{"Technical details"},
		},
		{
			name:    "verbose lists suggestions and details",
			err:     fmt.Errorf("parse: %w", domain.ErrEmptyDataset),
			verbose: true,
			shouldContain: []string{
				"The catalog data could not be read",
				"Technical details: parse: dataset contains no valid entries",
				"• Press r to retry",
				"• Switch language with L",
			},
		},
		{
			name:          "message pattern",
			err:           errors.New("dial tcp: no such host"),
			shouldContain: []string{"Could not reach the catalog server"},
		},
		{
			name:          "permission pattern",
			err:           errors.New("open favorites.txt: permission denied"),
			shouldContain: []string{"Permission denied"},
		},
		{
			name:          "invalid id",
			err:           fmt.Errorf("abc: %w", domain.ErrInvalidID),
			shouldContain: []string{"Invalid entry id", "at least three digits"},
		},
		{
			name:             "generic",
			err:              errors.New("boom"),
			shouldContain:    []string{"✗ Operation failed", "--verbose"},
			shouldNotContain: []string{"boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			msg := domain.FormatErrorMessage(tt.err, tt.verbose)

			for _, want := range tt.shouldContain {
				assert.Contains(t, msg, want)
			}

			for _, unwanted := range tt.shouldNotContain {
				assert.NotContains(t, msg, unwanted)
			}
		})
	}
}

func TestGetErrorInfo(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.ErrorInfo{}, domain.GetErrorInfo(nil, true))

	info := domain.GetErrorInfo(errors.New("flock: resource temporarily unavailable"), false)
	assert.Equal(t, "Preferences are busy", info.Message)
	assert.True(t, info.Retryable)
	assert.False(t, info.ShowDetails)

	// Sentinels win over message patterns of earlier matchers.
	info = domain.GetErrorInfo(fmt.Errorf("network: %w", domain.ErrNotFound), true)
	assert.Equal(t, "No such entry", info.Message)
	assert.True(t, info.ShowDetails)
}
