// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package scroll grows a render limit as the viewport nears the end of the
// rendered slice.
package scroll

// Defaults for the catalog view. Threshold is measured in terminal rows.
const (
	DefaultInitial   = 60
	DefaultStep      = 60
	DefaultThreshold = 20
)

// Controller owns the render limit. Signals are coalesced: any number of
// Signal calls between two frames cause at most one limit check.
// Not safe for concurrent use.
type Controller struct {
	initial   int
	step      int
	threshold int

	limit     int
	pending   bool
	remaining int
	total     int
}

// New returns a controller. Non-positive arguments take the defaults.
func New(initial, step, threshold int) *Controller {
	if initial <= 0 {
		initial = DefaultInitial
	}

	if step <= 0 {
		step = DefaultStep
	}

	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	return &Controller{
		initial:   initial,
		step:      step,
		threshold: threshold,
		limit:     initial,
	}
}

// Limit is the number of results that should be rendered.
func (c *Controller) Limit() int {
	return c.limit
}

// Reset restores the initial limit and drops any pending check. Call it on
// every filter, search, sort or mode change before slicing results.
func (c *Controller) Reset() {
	c.limit = c.initial
	c.pending = false
}

// Signal records the latest scroll or resize measurement: remaining is the
// distance from the viewport bottom to the end of the rendered content and
// total is the full result count. It reports whether the caller must
// schedule a frame; false means one is already pending.
func (c *Controller) Signal(remaining, total int) bool {
	c.remaining = remaining
	c.total = total

	if c.pending {
		return false
	}

	c.pending = true

	return true
}

// Pending reports whether a check is queued for the next frame.
func (c *Controller) Pending() bool {
	return c.pending
}

// Frame runs the queued check, if any, and reports whether the limit grew.
func (c *Controller) Frame() bool {
	if !c.pending {
		return false
	}

	c.pending = false

	if c.remaining >= c.threshold || c.limit >= c.total {
		return false
	}

	c.limit = min(c.limit+c.step, c.total)

	return true
}

// Visible returns the first limit items.
func Visible[T any](items []T, limit int) []T {
	if limit < 0 {
		limit = 0
	}

	if limit >= len(items) {
		return items
	}

	return items[:limit]
}
