// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/akyodex/akyodex/internal/catalog"
	"github.com/akyodex/akyodex/internal/cli/handlers"
	"github.com/akyodex/akyodex/internal/config"
	"github.com/akyodex/akyodex/internal/domain"
	"github.com/akyodex/akyodex/internal/platform"
)

const pickHeight = 15

var errURLScheme = errors.New("must be an http or https URL")

func getTitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		MarginBottom(1)
}

func (app *CLI) createInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create or edit config.toml",
		Description: `Walks through the main settings and writes them to the config file
(--config, or $XDG_CONFIG_HOME/akyodex/config.toml).`,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "defaults", Usage: "write the current settings without prompting"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := *app.cfg

			if !cmd.Bool("defaults") {
				if err := runConfigForm(&cfg); err != nil {
					return formError(err)
				}
			}

			if err := cfg.Validate(); err != nil {
				return domain.NewExitError(ExitConfigError, "Configuration not saved", err)
			}

			path := app.configPath
			if path == "" {
				path = config.DefaultPath()
			}

			path = platform.ExpandPath(path)

			if err := cfg.Save(path); err != nil {
				return domain.NewExitError(ExitSystemError, "Configuration not saved", err)
			}

			return app.baseHandler().GetOutput().Success("✓ Saved "+path, map[string]string{"path": path})
		},
	}
}

// runConfigForm edits cfg in place.
func runConfigForm(cfg *config.Config) error {
	fmt.Print(getTitleStyle().Render("◈ Akyodex setup ◈"))
	fmt.Println()

	watch := !cfg.DisableWatch

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Dataset language").
				Options(
					huh.NewOption("日本語", domain.LangJapanese),
					huh.NewOption("English", domain.LangEnglish),
				).
				Value(&cfg.Language),
			huh.NewInput().
				Title("Dataset base URL").
				Description("Serves akyo-data-{lang}.csv").
				Validate(validateURL(true)).
				Value(&cfg.DataBaseURL),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Image manifest URL").
				Description("JSON map of id to image URL; empty to skip").
				Validate(validateURL(false)).
				Value(&cfg.ManifestURL),
			huh.NewInput().
				Title("Redis URL").
				Description("Shared manifest hash; empty to skip").
				Value(&cfg.RedisURL),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&cfg.Log.Level),
			huh.NewConfirm().
				Title("Reload favorites changed by other akyodex processes?").
				Affirmative("Yes").
				Negative("No").
				Value(&watch),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.DisableWatch = !watch

	return nil
}

// validateURL accepts absolute http(s) URLs, and the empty string unless
// required.
func validateURL(required bool) func(string) error {
	return func(raw string) error {
		if raw == "" {
			if required {
				return errURLScheme
			}

			return nil
		}

		parsed, err := url.Parse(raw)
		if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return errURLScheme
		}

		return nil
	}
}

func (app *CLI) createPickCommand() *cli.Command {
	return &cli.Command{
		Name:  "pick",
		Usage: "Choose favorites from a filterable list",
		Action: func(ctx context.Context, _ *cli.Command) error {
			h, err := app.catalogHandler(ctx)
			if err != nil {
				return err
			}

			entries, err := h.Entries(ctx, handlers.SearchRequest{})
			if err != nil {
				return err
			}

			selected, err := pickFavorites(h.Messages.Favorite, entries)
			if err != nil {
				return formError(err)
			}

			return h.SelectFavorites(selected)
		},
	}
}

func pickFavorites(title string, entries []catalog.Entry) ([]string, error) {
	var selected []string

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(title).
				Options(favoriteOptions(entries)...).
				Filterable(true).
				Height(pickHeight).
				Value(&selected),
		),
	).WithTheme(huh.ThemeCharm()).Run()

	return selected, err
}

// favoriteOptions lists entries with current favorites preselected.
func favoriteOptions(entries []catalog.Entry) []huh.Option[string] {
	options := make([]huh.Option[string], len(entries))
	for i, entry := range entries {
		options[i] = huh.NewOption(fmt.Sprintf("%s  %s", entry.ID, entry.DisplayName()), entry.ID).
			Selected(entry.IsFavorite)
	}

	return options
}

func formError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return domain.NewExitError(ExitInterruptError, "Cancelled", err)
	}

	return domain.NewExitError(ExitGeneralError, "Form failed", err)
}
