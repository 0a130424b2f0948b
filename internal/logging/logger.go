// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package logging builds the application zap logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/akyodex/akyodex/internal/platform"
)

// DefaultFile is the log file name under the XDG state directory.
const DefaultFile = "akyodex.log"

// DefaultPath returns $XDG_STATE_HOME/akyodex/akyodex.log.
func DefaultPath() string {
	return filepath.Join(platform.StateDir(), DefaultFile)
}

// ParseLevel maps a config string to a zap level; unknown values yield info.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New returns a console-encoded logger appending to logFile. An empty
// logFile writes to stderr; the TUI owns stdout.
func New(level, logFile string) (*zap.Logger, error) {
	var sink io.Writer = os.Stderr

	if logFile != "" {
		if err := platform.EnsureDir(filepath.Dir(logFile)); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}

		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}

		sink = file
	}

	return NewWithWriter(level, sink), nil
}

// NewWithWriter returns a console-encoded logger writing to w.
func NewWithWriter(level string, w io.Writer) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.ConsoleSeparator = " | "

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		ParseLevel(level),
	)

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}
