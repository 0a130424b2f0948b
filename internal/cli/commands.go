// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/akyodex/akyodex/internal/cli/handlers"
	"github.com/akyodex/akyodex/internal/domain"
	"github.com/akyodex/akyodex/internal/server"
)

// filterFlags are shared by search and images pull.
func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "attribute", Aliases: []string{"a"}, Usage: "only entries tagged with this attribute"},
		&cli.StringFlag{Name: "creator", Usage: "only entries by this creator"},
		&cli.BoolFlag{Name: "favorites", Aliases: []string{"f"}, Usage: "only favorite entries"},
		&cli.BoolFlag{Name: "desc", Usage: "sort by id, highest first"},
		&cli.BoolFlag{Name: "random", Aliases: []string{"r"}, Usage: "random sample instead of a sorted list"},
		&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "maximum entries (0 = all)"},
		&cli.IntFlag{Name: "offset", Usage: "skip this many entries"},
	}
}

func searchRequest(cmd *cli.Command) handlers.SearchRequest {
	return handlers.SearchRequest{
		Query:         strings.Join(cmd.Args().Slice(), " "),
		Attribute:     cmd.String("attribute"),
		Creator:       cmd.String("creator"),
		FavoritesOnly: cmd.Bool("favorites"),
		Descending:    cmd.Bool("desc"),
		Random:        cmd.Bool("random"),
		Limit:         int(cmd.Int("limit")),
		Offset:        int(cmd.Int("offset")),
	}
}

func (app *CLI) createSearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Aliases:   []string{"s"},
		Usage:     "Search and filter the catalog",
		ArgsUsage: "[terms...]",
		Description: `Ranks entries by how well every term matches. Terms are matched
case-insensitively, and hiragana and katakana are treated alike.

EXAMPLES:
  akyodex search きつね
  akyodex search --attribute 動物 --creator ugai
  akyodex search --random --limit 5 --json`,
		Flags: filterFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			h, err := app.catalogHandler(ctx)
			if err != nil {
				return err
			}

			return h.Search(ctx, searchRequest(cmd))
		},
	}
}

func (app *CLI) createShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one entry with its resolved image",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return domain.NewExitError(ExitUsageError, "usage: akyodex show <id>", nil)
			}

			h, err := app.catalogHandler(ctx)
			if err != nil {
				return err
			}

			return h.Show(ctx, cmd.Args().First())
		},
	}
}

// createIDListCommand builds the add/remove/list tree for favorites and
// tombstones.
func (app *CLI) createIDListCommand(kind, name, usage string) *cli.Command {
	edit := func(add bool) cli.ActionFunc {
		return func(ctx context.Context, cmd *cli.Command) error {
			h, err := app.catalogHandler(ctx)
			if err != nil {
				return err
			}

			return h.EditIDs(kind, add, cmd.Args().Slice())
		}
	}

	commands := []*cli.Command{
		{Name: "add", Usage: "Add ids", ArgsUsage: "<id>...", Action: edit(true)},
		{Name: "remove", Aliases: []string{"rm"}, Usage: "Remove ids", ArgsUsage: "<id>...", Action: edit(false)},
		{
			Name:    "list",
			Aliases: []string{"ls"},
			Usage:   "List ids",
			Action: func(ctx context.Context, _ *cli.Command) error {
				h, err := app.catalogHandler(ctx)
				if err != nil {
					return err
				}

				return h.ListIDs(kind)
			},
		},
	}

	if kind == handlers.KindFavorites {
		commands = append(commands, app.createPickCommand())
	}

	return &cli.Command{
		Name:     name,
		Usage:    usage,
		Commands: commands,
	}
}

func (app *CLI) createValuesCommand(kind, usage string) *cli.Command {
	return &cli.Command{
		Name:  kind,
		Usage: usage,
		Action: func(ctx context.Context, _ *cli.Command) error {
			h, err := app.catalogHandler(ctx)
			if err != nil {
				return err
			}

			return h.Values(ctx, kind)
		},
	}
}

func (app *CLI) createImagesCommand() *cli.Command {
	return &cli.Command{
		Name:  "images",
		Usage: "Manage the local image cache",
		Commands: []*cli.Command{
			{
				Name:      "pull",
				Usage:     "Download images so the browser can show them offline",
				ArgsUsage: "[terms...]",
				Flags:     filterFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					h, err := app.catalogHandler(ctx)
					if err != nil {
						return err
					}

					if err := h.PullImages(ctx, searchRequest(cmd)); err != nil {
						return domain.NewExitError(ExitImageError, domain.FormatErrorMessage(err, app.verbose), err)
					}

					return nil
				},
			},
		},
	}
}

func (app *CLI) createServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the catalog as a read-only JSON API",
		Description: `Loads the catalog and serves it until interrupted.

ENDPOINTS:
  GET /healthz
  GET /api/akyo?q=&attribute=&creator=&favorites=&order=&random=&limit=&offset=
  GET /api/akyo/{id}
  GET /api/attributes
  GET /api/creators`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address (default from config)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, err := app.service(ctx)
			if err != nil {
				return err
			}

			if _, err := svc.Load(ctx, app.cfg.Language); err != nil {
				return err
			}

			addr := cmd.String("addr")
			if addr == "" {
				addr = app.cfg.ServeAddr
			}

			app.log().Info("serving catalog", zap.String("addr", addr), zap.String("lang", app.cfg.Language))

			if err := server.New(addr, svc, app.log().Named("server")).Run(ctx); err != nil {
				return domain.NewExitError(ExitServeError, "JSON API stopped", err)
			}

			return nil
		},
	}
}
