// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/akyodex/akyodex/internal/application"
	"github.com/akyodex/akyodex/internal/catalog"
	"github.com/akyodex/akyodex/internal/domain"
	"github.com/akyodex/akyodex/internal/i18n"
	"github.com/akyodex/akyodex/internal/library"
	"github.com/akyodex/akyodex/internal/tui/models"
)

// Kinds of id lists and value lists.
const (
	KindFavorites  = "favorites"
	KindTombstones = "tombstones"
	KindAttributes = "attributes"
	KindCreators   = "creators"
)

const markdownWidth = 80

// ErrUnknownKind is returned for a list kind other than the Kind constants.
var ErrUnknownKind = errors.New("unknown list kind")

// Catalog is the catalog service as the command handlers use it.
type Catalog interface {
	EnsureLoaded(ctx context.Context, lang string) (*library.Snapshot, error)
	Search(view catalog.ViewState, offset, limit int) (domain.SearchResult, error)
	Filter(view catalog.ViewState) []catalog.Entry
	Show(ctx context.Context, id string) (domain.EntryResult, error)
	Attributes() []string
	Creators() []string
	FavoriteIDs() (domain.IDSet, error)
	AddFavorites(ids ...string) (domain.IDSet, error)
	RemoveFavorites(ids ...string) (domain.IDSet, error)
	TombstoneIDs() (domain.IDSet, error)
	AddTombstones(ids ...string) (domain.IDSet, error)
	RemoveTombstones(ids ...string) (domain.IDSet, error)
	PullImages(ctx context.Context, entries []catalog.Entry) (int, error)
}

// SearchRequest carries the search flags.
type SearchRequest struct {
	Query         string
	Attribute     string
	Creator       string
	FavoritesOnly bool
	Descending    bool
	Random        bool
	Offset        int
	Limit         int
}

// View converts the request into a catalog view.
func (r SearchRequest) View() catalog.ViewState {
	view := catalog.NewViewState().WithQuery(r.Query)
	view.Attribute = strings.TrimSpace(r.Attribute)
	view.Creator = strings.TrimSpace(r.Creator)
	view.FavoritesOnly = r.FavoritesOnly
	view.SortAscending = !r.Descending
	view.RandomMode = r.Random

	return view
}

// CatalogHandler runs the catalog commands.
type CatalogHandler struct {
	*BaseHandler

	Catalog  Catalog
	Lang     string
	Messages i18n.Messages
}

// NewCatalogHandler creates a handler reading the lang dataset.
func NewCatalogHandler(base *BaseHandler, cat Catalog, lang string) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: base,
		Catalog:     cat,
		Lang:        lang,
		Messages:    i18n.For(lang),
	}
}

// Search prints one page of matching entries.
func (h *CatalogHandler) Search(ctx context.Context, req SearchRequest) error {
	if err := h.load(ctx); err != nil {
		return err
	}

	result, err := h.Catalog.Search(req.View(), req.Offset, req.Limit)
	if err != nil {
		return err
	}

	output := h.GetOutput()

	if h.JSON {
		return output.Success("", result)
	}

	if len(result.Entries) == 0 {
		return output.Info(h.Messages.Empty)
	}

	rows := make([][]string, len(result.Entries))
	for i, entry := range result.Entries {
		rows[i] = []string{
			entry.ID,
			entry.Name,
			strings.Join(entry.Attributes, ", "),
			strings.Join(entry.Creators, ", "),
			favoriteMark(entry.Favorite),
		}
	}

	if err := output.Table([]string{"ID", "NAME", "ATTRIBUTES", "CREATORS", "★"}, rows); err != nil {
		return err
	}

	return output.Info(fmt.Sprintf(h.Messages.Count, len(result.Entries), result.Total))
}

// Show prints one entry as markdown, rendered for the terminal unless the
// plain format is selected.
func (h *CatalogHandler) Show(ctx context.Context, id string) error {
	if err := h.load(ctx); err != nil {
		return err
	}

	ctx, cancel := h.WithTimeout(ctx)
	defer cancel()

	result, err := h.Catalog.Show(ctx, id)
	if err != nil {
		return err
	}

	output := h.GetOutput()

	if h.JSON {
		return output.Success("", result)
	}

	markdown := models.Markdown(h.Messages, result)
	if h.Plain {
		return output.Success(markdown, nil)
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(markdownWidth))
	if err != nil {
		return output.Success(markdown, nil)
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		return output.Success(markdown, nil)
	}

	return output.Success(strings.TrimRight(rendered, "\n"), nil)
}

// ListIDs prints the favorites or tombstones.
func (h *CatalogHandler) ListIDs(kind string) error {
	get, _, _, err := h.idOps(kind)
	if err != nil {
		return err
	}

	set, err := get()
	if err != nil {
		return err
	}

	return h.printIDs(kind, set)
}

// EditIDs adds ids to, or removes them from, the favorites or tombstones.
func (h *CatalogHandler) EditIDs(kind string, add bool, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: no ids given", domain.ErrInvalidID)
	}

	_, addFn, removeFn, err := h.idOps(kind)
	if err != nil {
		return err
	}

	edit, template := removeFn, h.Messages.Removed
	if add {
		edit, template = addFn, h.Messages.Added
	}

	set, err := edit(ids...)
	if err != nil {
		return err
	}

	output := h.GetOutput()

	if h.JSON {
		return h.printIDs(kind, set)
	}

	for _, id := range ids {
		normalized, err := application.NormalizeID(id)
		if err != nil {
			continue
		}

		if err := output.Success(fmt.Sprintf(template, normalized), nil); err != nil {
			return err
		}
	}

	return nil
}

// SelectFavorites replaces the favorites with selected, touching only the
// ids that changed.
func (h *CatalogHandler) SelectFavorites(selected []string) error {
	current, err := h.Catalog.FavoriteIDs()
	if err != nil {
		return err
	}

	add, remove := Diff(current, selected)

	set := current

	if len(add) > 0 {
		if set, err = h.Catalog.AddFavorites(add...); err != nil {
			return err
		}
	}

	if len(remove) > 0 {
		if set, err = h.Catalog.RemoveFavorites(remove...); err != nil {
			return err
		}
	}

	return h.printIDs(KindFavorites, set)
}

// Diff returns the ids to add to and remove from current so it equals
// selected.
func Diff(current domain.IDSet, selected []string) ([]string, []string) {
	want := domain.NewIDSet(selected...)

	var add, remove []string

	for _, id := range want.Sorted() {
		if !current.Has(id) {
			add = append(add, id)
		}
	}

	for _, id := range current.Sorted() {
		if !want.Has(id) {
			remove = append(remove, id)
		}
	}

	return add, remove
}

// Values prints the distinct attributes or creators.
func (h *CatalogHandler) Values(ctx context.Context, kind string) error {
	if err := h.load(ctx); err != nil {
		return err
	}

	var values []string

	switch kind {
	case KindAttributes:
		values = h.Catalog.Attributes()
	case KindCreators:
		values = h.Catalog.Creators()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	return h.GetOutput().List(values, domain.ValuesResult{Kind: kind, Values: values})
}

// Entries loads the catalog and returns the entries selected by req,
// paged by its offset and limit.
func (h *CatalogHandler) Entries(ctx context.Context, req SearchRequest) ([]catalog.Entry, error) {
	if err := h.load(ctx); err != nil {
		return nil, err
	}

	return application.Page(h.Catalog.Filter(req.View()), req.Offset, req.Limit), nil
}

// PullImages stores the images of the selected entries in the local cache.
func (h *CatalogHandler) PullImages(ctx context.Context, req SearchRequest) error {
	entries, err := h.Entries(ctx, req)
	if err != nil {
		return err
	}

	output := h.GetOutput()
	_ = output.Info(fmt.Sprintf("Caching images for %d entries...", len(entries)))

	stored, err := h.Catalog.PullImages(ctx, entries)
	if err != nil {
		return err
	}

	return output.Success(
		fmt.Sprintf("✓ Cached %d of %d images", stored, len(entries)),
		map[string]int{"requested": len(entries), "cached": stored},
	)
}

func (h *CatalogHandler) load(ctx context.Context) error {
	ctx, cancel := h.WithTimeout(ctx)
	defer cancel()

	snapshot, err := h.Catalog.EnsureLoaded(ctx, h.Lang)
	if err != nil {
		return err
	}

	output := h.GetOutput()

	if snapshot.FromCache {
		_ = output.Info("(" + h.Messages.Cached + ")")
	}

	if snapshot.Truncated {
		_ = output.Info("⚠ " + h.Messages.Truncated)
	}

	return nil
}

func (h *CatalogHandler) idOps(kind string) (
	func() (domain.IDSet, error),
	func(...string) (domain.IDSet, error),
	func(...string) (domain.IDSet, error),
	error,
) {
	switch kind {
	case KindFavorites:
		return h.Catalog.FavoriteIDs, h.Catalog.AddFavorites, h.Catalog.RemoveFavorites, nil
	case KindTombstones:
		return h.Catalog.TombstoneIDs, h.Catalog.AddTombstones, h.Catalog.RemoveTombstones, nil
	default:
		return nil, nil, nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

func (h *CatalogHandler) printIDs(kind string, set domain.IDSet) error {
	ids := set.Sorted()

	return h.GetOutput().List(ids, domain.ListResult{Kind: kind, IDs: ids, Total: len(ids)})
}

func favoriteMark(on bool) string {
	if on {
		return "★"
	}

	return ""
}
