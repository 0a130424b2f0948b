// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package main provides the CLI entry point for Akyodex.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/akyodex/akyodex/internal/cli"
	"github.com/akyodex/akyodex/internal/domain"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := cli.NewCLI().Run(ctx, os.Args)
	if err == nil {
		return cli.ExitSuccess
	}

	exitErr := &domain.ExitError{}
	if errors.As(err, &exitErr) {
		// Error message to stderr only
		fmt.Fprintf(os.Stderr, "%s\n", exitErr.Message)

		return exitErr.Code
	}

	fmt.Fprintf(os.Stderr, "Unexpected error: %v\n", err)

	return cli.ExitGeneralError
}
