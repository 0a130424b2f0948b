// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package cli provides output adapters for CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/akyodex/akyodex/internal/domain"
)

// OutputFormat represents the output format type.
type OutputFormat int

const (
	// TextFormat outputs human-readable text.
	TextFormat OutputFormat = iota
	// JSONFormat outputs machine-readable JSON.
	JSONFormat
	// PlainFormat outputs tab-separated values without decoration.
	PlainFormat
)

const columnGap = 2

// OutputAdapter implements domain.OutputPort.
type OutputAdapter struct {
	writer io.Writer
	errw   io.Writer
	format OutputFormat
	quiet  bool
	tty    bool
}

// NewOutputAdapter writes results to stdout and messages to stderr.
func NewOutputAdapter(format OutputFormat, quiet bool) *OutputAdapter {
	return &OutputAdapter{
		writer: os.Stdout,
		errw:   os.Stderr,
		format: format,
		quiet:  quiet,
		tty:    term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// NewOutputAdapterWithWriter creates an adapter writing everything to writer.
func NewOutputAdapterWithWriter(writer io.Writer, format OutputFormat, quiet bool) *OutputAdapter {
	return &OutputAdapter{
		writer: writer,
		errw:   writer,
		format: format,
		quiet:  quiet,
	}
}

// Format returns the configured format.
func (o *OutputAdapter) Format() OutputFormat {
	return o.format
}

// Writer returns the result writer.
func (o *OutputAdapter) Writer() io.Writer {
	return o.writer
}

// Success outputs a success message with optional structured data.
func (o *OutputAdapter) Success(message string, data any) error {
	if o.format == JSONFormat && data != nil {
		return o.outputJSON(data)
	}

	if message != "" && !o.quiet {
		_, _ = fmt.Fprintln(o.writer, message)
	}

	return nil
}

// Error outputs an error message to the message stream.
func (o *OutputAdapter) Error(message string) error {
	if o.format == JSONFormat {
		return o.outputJSON(map[string]string{"error": message})
	}

	prefix := "✗ "
	if o.format == PlainFormat {
		prefix = "error: "
	}

	_, _ = fmt.Fprintln(o.errw, prefix+message)

	return nil
}

// Info outputs an informational message to the message stream.
func (o *OutputAdapter) Info(message string) error {
	if o.quiet || o.format != TextFormat {
		return nil
	}

	_, _ = fmt.Fprintln(o.errw, message)

	return nil
}

// Table outputs tabular data. Text columns are padded by display width so
// CJK names stay aligned.
func (o *OutputAdapter) Table(headers []string, rows [][]string) error {
	switch o.format {
	case JSONFormat:
		return o.outputJSON(map[string]any{"headers": headers, "rows": rows})
	case PlainFormat:
		for _, row := range rows {
			_, _ = fmt.Fprintln(o.writer, strings.Join(row, "\t"))
		}

		return nil
	case TextFormat:
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}

	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}

	o.writeRow(headers, widths, true)

	separators := make([]string, len(headers))
	for i := range headers {
		separators[i] = strings.Repeat("-", widths[i])
	}

	o.writeRow(separators, widths, false)

	for _, row := range rows {
		o.writeRow(row, widths, false)
	}

	return nil
}

func (o *OutputAdapter) writeRow(cells []string, widths []int, header bool) {
	var line strings.Builder

	for i, cell := range cells {
		if i >= len(widths) {
			break
		}

		if i == len(cells)-1 {
			line.WriteString(o.bold(cell, header))

			break
		}

		line.WriteString(o.bold(runewidth.FillRight(cell, widths[i]), header))
		line.WriteString(strings.Repeat(" ", columnGap))
	}

	_, _ = fmt.Fprintln(o.writer, strings.TrimRight(line.String(), " "))
}

// bold follows no-color.org and only decorates terminals.
func (o *OutputAdapter) bold(text string, on bool) string {
	if !on || !o.tty || os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return text
	}

	return "\033[1m" + text + "\033[0m"
}

// List outputs one value per line, or a JSON document.
func (o *OutputAdapter) List(values []string, data any) error {
	if o.format == JSONFormat {
		return o.outputJSON(data)
	}

	for _, value := range values {
		_, _ = fmt.Fprintln(o.writer, value)
	}

	return nil
}

// IsQuiet returns true if output should be suppressed.
func (o *OutputAdapter) IsQuiet() bool {
	return o.quiet
}

func (o *OutputAdapter) outputJSON(data any) error {
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	return encoder.Encode(data)
}

// FormatFromFlags picks the format for the global --json/--plain flags.
// JSON wins when both are set.
func FormatFromFlags(jsonFlag, plainFlag bool) OutputFormat {
	switch {
	case jsonFlag:
		return JSONFormat
	case plainFlag:
		return PlainFormat
	default:
		return TextFormat
	}
}

// OutputFromFlags creates a stdout adapter from the global flags.
func OutputFromFlags(jsonFlag, plainFlag, quietFlag bool) *OutputAdapter {
	return NewOutputAdapter(FormatFromFlags(jsonFlag, plainFlag), quietFlag)
}

var _ domain.OutputPort = (*OutputAdapter)(nil)
