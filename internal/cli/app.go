// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package cli provides the akyodex command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/akyodex/akyodex/internal/application"
	"github.com/akyodex/akyodex/internal/cli/handlers"
	"github.com/akyodex/akyodex/internal/config"
	"github.com/akyodex/akyodex/internal/domain"
	"github.com/akyodex/akyodex/internal/i18n"
	"github.com/akyodex/akyodex/internal/logging"
	"github.com/akyodex/akyodex/internal/platform"
	"github.com/akyodex/akyodex/internal/prefs"
	"github.com/akyodex/akyodex/internal/tui"
	"github.com/akyodex/akyodex/internal/tui/models"
)

// Exit codes follow standard Unix conventions for better scripting support.
// Range 0-125 are safe to use (126+ have special meaning in shells).
const (
	// Standard Unix exit codes (0-10).
	ExitSuccess         = 0 // Operation completed successfully
	ExitGeneralError    = 1 // Generic failure (catch-all)
	ExitUsageError      = 2 // Invalid command line usage
	ExitConfigError     = 3 // Configuration file error
	ExitPermissionError = 4 // Permission denied
	ExitNotFoundError   = 5 // Requested entry not found

	// Network and system errors (10-19).
	ExitDependencyError = 10 // Missing terminal or backend
	ExitNetworkError    = 11 // Dataset source unreachable
	ExitSystemError     = 12 // Cache or filesystem failure
	ExitTimeoutError    = 13 // Operation timed out
	ExitInterruptError  = 14 // User interrupted (Ctrl+C)

	// Application-specific errors (20-29).
	ExitDataError        = 20 // Dataset empty or unreadable
	ExitPreferencesError = 21 // Favorites or tombstones could not be saved
	ExitImageError       = 22 // Image caching failed
	ExitServeError       = 23 // JSON API failed

	// Warning (non-fatal issues occurred).
	ExitWarnings = 64 // Operation succeeded with warnings
)

// Version is set at build time with -ldflags "-X ...cli.Version=v1.2.3".
var Version = ""

// CLI holds the global flags and the lazily built services.
type CLI struct {
	app        *cli.Command
	verbose    bool
	json       bool
	quiet      bool
	plain      bool
	color      string
	lang       string
	configPath string
	timeout    time.Duration

	// writer replaces stdout and stderr for command output when set.
	writer   io.Writer
	notFound string

	cfg      *config.Config
	logger   *zap.Logger
	services *application.Services
	catalog  *application.CatalogService
}

// NewCLI creates the command tree.
func NewCLI() *CLI {
	app := &CLI{}

	app.app = &cli.Command{
		Name:    "akyodex",
		Usage:   "Browse the Akyo catalog from the terminal",
		Version: getVersion(),
		Description: `Searches, filters and displays the Akyo avatar catalog.

Run without a command to open the interactive browser.

EXAMPLES:
  akyodex search チョコミント          Ranked search across all fields
  akyodex search --attribute 動物      Filter by attribute
  akyodex show 42                     Entry details with its image
  akyodex fav add 1 42                Mark favorites
  akyodex serve --addr :8080          Read-only JSON API`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "lang",
				Aliases:     []string{"l"},
				Usage:       "dataset language: ja or en (default from config)",
				Destination: &app.lang,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config.toml",
				Destination: &app.configPath,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Usage:       "debug logging and technical error details",
				Destination: &app.verbose,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output structured JSON results",
				Aliases:     []string{"j"},
				Destination: &app.json,
			},
			&cli.BoolFlag{
				Name:        "quiet",
				Usage:       "suppress non-essential output",
				Aliases:     []string{"q"},
				Destination: &app.quiet,
			},
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "output plain text without formatting for scripts",
				Destination: &app.plain,
			},
			&cli.StringFlag{
				Name:        "color",
				Usage:       "color output mode: auto, always, never",
				Value:       "auto",
				Destination: &app.color,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "timeout for network operations (0 = config value)",
				Destination: &app.timeout,
			},
		},
		Before:          app.initConfig,
		After:           app.close,
		Action:          app.defaultAction,
		Commands:        app.createAllCommands(),
		CommandNotFound: app.commandNotFound,
	}

	return app
}

// Run executes the CLI application. Errors are returned as *domain.ExitError.
func (app *CLI) Run(ctx context.Context, args []string) error {
	err := app.app.Run(ctx, args)
	if err == nil && app.notFound != "" {
		err = notACommand(app.notFound)
	}

	return app.exitError(err)
}

func (app *CLI) createAllCommands() []*cli.Command {
	return []*cli.Command{
		app.createSearchCommand(),
		app.createShowCommand(),
		app.createIDListCommand(handlers.KindFavorites, "fav", "Manage favorite entries"),
		app.createIDListCommand(handlers.KindTombstones, "tombstone", "Mark entries whose hosted image was deleted"),
		app.createValuesCommand(handlers.KindAttributes, "List the distinct attributes"),
		app.createValuesCommand(handlers.KindCreators, "List the distinct creators"),
		app.createImagesCommand(),
		app.createServeCommand(),
		app.createInitCommand(),
		app.createVersionCommand(),
	}
}

// initConfig validates the global flags and layers the configuration.
func (app *CLI) initConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if app.json && app.plain {
		return ctx, domain.NewExitError(ExitUsageError, "cannot use both --json and --plain flags simultaneously", nil)
	}

	switch app.color {
	case "auto":
	case "never":
		_ = os.Setenv("NO_COLOR", "1")
	case "always":
		_ = os.Unsetenv("NO_COLOR")
	default:
		return ctx, domain.NewExitError(ExitUsageError, "invalid --color value: must be auto, always, or never", nil)
	}

	cfg, err := config.Load(app.configPath)
	if err != nil {
		// init exists to repair a broken config, so it starts from defaults.
		if cmd.Args().First() != "init" {
			return ctx, domain.NewExitError(ExitConfigError, "Failed to load configuration: "+err.Error(), err)
		}

		cfg = config.Default()
	}

	if app.lang != "" {
		if !i18n.Supported(app.lang) {
			return ctx, domain.NewExitError(ExitUsageError, fmt.Sprintf("unsupported --lang %q: use ja or en", app.lang), nil)
		}

		cfg.Language = app.lang
	}

	if app.timeout > 0 {
		cfg.Timeout.Duration = app.timeout
	}

	if app.verbose {
		cfg.Log.Level = "debug"
	}

	app.cfg = cfg

	return ctx, nil
}

// log opens the log file on first use.
func (app *CLI) log() *zap.Logger {
	if app.logger == nil {
		app.logger = app.newLogger()
	}

	return app.logger
}

func (app *CLI) newLogger() *zap.Logger {
	logFile := app.cfg.Log.File
	if logFile == "" {
		logFile = logging.DefaultPath()
	}

	logger, err := logging.New(app.cfg.Log.Level, logFile)
	if err != nil {
		_, _ = fmt.Fprintf(app.errWriter(), "warning: logging disabled: %v\n", err)

		return zap.NewNop()
	}

	return logger
}

func (app *CLI) close(_ context.Context, _ *cli.Command) error {
	if app.services == nil {
		return nil
	}

	err := app.services.Close()
	app.services = nil
	app.catalog = nil

	return err
}

// service builds the adapters on first use.
func (app *CLI) service(ctx context.Context) (*application.CatalogService, error) {
	if app.catalog != nil {
		return app.catalog, nil
	}

	services, err := application.NewServices(ctx, app.cfg, app.log())
	if err != nil {
		return nil, domain.NewExitError(ExitSystemError, "Failed to start services", err)
	}

	app.services = services
	app.catalog = application.NewCatalogService(services)

	return app.catalog, nil
}

func (app *CLI) baseHandler() *handlers.BaseHandler {
	flags := handlers.Flags{Verbose: app.verbose, JSON: app.json, Quiet: app.quiet, Plain: app.plain}

	return handlers.NewBaseHandler(flags, app.cfg.Timeout.Duration, app.writer)
}

func (app *CLI) catalogHandler(ctx context.Context) (*handlers.CatalogHandler, error) {
	svc, err := app.service(ctx)
	if err != nil {
		return nil, err
	}

	return handlers.NewCatalogHandler(app.baseHandler(), svc, app.cfg.Language), nil
}

// defaultAction opens the interactive browser.
func (app *CLI) defaultAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Present() {
		return notACommand(cmd.Args().First())
	}

	svc, err := app.service(ctx)
	if err != nil {
		return err
	}

	var changes <-chan string

	if !app.cfg.DisableWatch {
		watcher, err := app.watch(svc.WatchPaths())
		if err != nil {
			app.log().Warn("preference watch disabled", zap.Error(err))
		} else {
			defer func() { _ = watcher.Close() }()

			changes = watcher.Changes()
		}
	}

	err = tui.Launch(ctx, svc, tui.Options{
		CatalogOptions: models.CatalogOptions{
			Lang:      app.cfg.Language,
			Initial:   app.cfg.Render.Initial,
			Step:      app.cfg.Render.Step,
			Threshold: app.cfg.Render.Threshold,
			Images:    svc.Images,
			Logger:    app.log().Named("tui"),
		},
		Changes: changes,
	})
	if errors.Is(err, tui.ErrNoTerminal) {
		return domain.NewExitError(ExitDependencyError,
			"The interactive browser needs a terminal. Use 'akyodex search' in scripts.", err)
	}

	return err
}

func (app *CLI) watch(paths []string) (*prefs.Watcher, error) {
	for _, path := range paths {
		if err := platform.EnsureDir(filepath.Dir(path)); err != nil {
			return nil, fmt.Errorf("create preference directory: %w", err)
		}
	}

	return prefs.Watch(paths, app.cfg.WatchDebounce.Duration, app.log().Named("watch"))
}

func (app *CLI) commandNotFound(_ context.Context, _ *cli.Command, command string) {
	app.notFound = command
}

func notACommand(command string) error {
	return domain.NewExitError(ExitNotFoundError,
		fmt.Sprintf("'%s' is not a command. Run 'akyodex --help' to see available commands.", command), nil)
}

func (app *CLI) createVersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(_ context.Context, _ *cli.Command) error {
			version := getVersion()

			return app.baseHandler().GetOutput().Success("akyodex "+version, map[string]string{"version": version})
		},
	}
}

// exitError maps domain errors to exit codes. Errors that already carry a
// code pass through unchanged.
func (app *CLI) exitError(err error) error {
	if err == nil {
		return nil
	}

	var exitErr *domain.ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	return domain.NewExitError(ExitCode(err), domain.FormatErrorMessage(err, app.verbose), err)
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	var exitErr *domain.ExitError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, context.Canceled):
		return ExitInterruptError
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeoutError
	case errors.Is(err, domain.ErrInvalidID), errors.Is(err, handlers.ErrUnknownKind):
		return ExitUsageError
	case errors.Is(err, domain.ErrNotFound):
		return ExitNotFoundError
	case errors.Is(err, domain.ErrSourceUnavailable):
		return ExitNetworkError
	case errors.Is(err, domain.ErrEmptyDataset):
		return ExitDataError
	case errors.Is(err, config.ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, os.ErrPermission):
		return ExitPermissionError
	case errors.Is(err, prefs.ErrLocked):
		return ExitPreferencesError
	default:
		return ExitGeneralError
	}
}

func (app *CLI) errWriter() io.Writer {
	if app.writer != nil {
		return app.writer
	}

	return os.Stderr
}

func getVersion() string {
	if Version != "" {
		return Version
	}

	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return "dev"
}
