// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package handlers implements CLI command execution logic.
package handlers

import (
	"context"
	"io"
	"time"

	cliAdapter "github.com/akyodex/akyodex/internal/adapters/cli"
	"github.com/akyodex/akyodex/internal/domain"
)

// Flags are the global output flags every command honors.
type Flags struct {
	Verbose bool
	JSON    bool
	Quiet   bool
	Plain   bool
}

// BaseHandler carries the global flags and the output port.
type BaseHandler struct {
	Flags

	Timeout time.Duration
	Output  domain.OutputPort
}

// NewBaseHandler writes to stdout, or to w when it is non-nil.
func NewBaseHandler(flags Flags, timeout time.Duration, w io.Writer) *BaseHandler {
	h := &BaseHandler{Flags: flags, Timeout: timeout}

	if w != nil {
		format := cliAdapter.FormatFromFlags(flags.JSON, flags.Plain)
		h.Output = cliAdapter.NewOutputAdapterWithWriter(w, format, flags.Quiet)
	}

	return h
}

// WithTimeout bounds ctx by the network timeout when one is set.
func (h *BaseHandler) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.Timeout > 0 {
		return context.WithTimeout(ctx, h.Timeout)
	}

	return ctx, func() {}
}

// GetOutput returns the output port, creating the stdout adapter on first use.
func (h *BaseHandler) GetOutput() domain.OutputPort {
	if h.Output == nil {
		h.Output = cliAdapter.OutputFromFlags(h.JSON, h.Plain, h.Quiet)
	}

	return h.Output
}
