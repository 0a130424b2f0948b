// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/akyodex/akyodex/internal/catalog"
	"github.com/akyodex/akyodex/internal/domain"
	"github.com/akyodex/akyodex/internal/library"
	"github.com/akyodex/akyodex/internal/tui/styles"
)

// TestCatalog is an in-memory Catalog for tests. Datasets holds the raw
// text per language.
type TestCatalog struct {
	mu sync.Mutex

	store     *library.Store
	engine    *catalog.Engine
	favorites domain.IDSet

	Datasets     map[string]string
	RowCountHint int
	LoadErr      error
	Toggled      []string
	Changed      []string
	Prefetchs    int
	PrefetchCtxs []context.Context
}

// NewTestCatalog returns a catalog serving datasets.
func NewTestCatalog(datasets map[string]string) *TestCatalog {
	return &TestCatalog{
		store:     library.NewStore(),
		engine:    &catalog.Engine{},
		favorites: domain.NewIDSet(),
		Datasets:  datasets,
	}
}

// TestDataset builds a dataset of count entries with ids 001, 002, ...
// Even entries carry the attribute "動物", odd ones "食べ物".
func TestDataset(count int) string {
	var b strings.Builder

	b.WriteString("ID,見た目,通称,アバター名,属性,備考,作者,アバターURL\n")

	for i := 1; i <= count; i++ {
		attribute := "食べ物"
		if i%2 == 0 {
			attribute = "動物"
		}

		fmt.Fprintf(&b, "%03d,,Akyo%03d,Avatar%03d,%s,,creator%d,\n", i, i, i, attribute, i%3)
	}

	return b.String()
}

// Load implements Catalog.
func (c *TestCatalog) Load(_ context.Context, lang string) (*library.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.LoadErr != nil {
		return nil, c.LoadErr
	}

	text, ok := c.Datasets[lang]
	if !ok {
		return nil, fmt.Errorf("%s: %w", lang, domain.ErrSourceUnavailable)
	}

	return c.store.Commit(c.store.Begin(), domain.Dataset{Text: text, Lang: lang, RowCountHint: c.RowCountHint}, c.favorites.Clone())
}

// Filter implements Catalog.
func (c *TestCatalog) Filter(view catalog.ViewState) []catalog.Entry {
	snapshot := c.store.Current()
	if snapshot == nil {
		return nil
	}

	return snapshot.Apply(c.engine, view)
}

// Attributes implements Catalog.
func (c *TestCatalog) Attributes() []string {
	if snapshot := c.store.Current(); snapshot != nil {
		return catalog.Attributes(snapshot.Entries)
	}

	return nil
}

// Creators implements Catalog.
func (c *TestCatalog) Creators() []string {
	if snapshot := c.store.Current(); snapshot != nil {
		return catalog.Creators(snapshot.Entries)
	}

	return nil
}

// ToggleFavorite implements Catalog.
func (c *TestCatalog) ToggleFavorite(id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Toggled = append(c.Toggled, id)

	on := !c.favorites.Has(id)
	if on {
		c.favorites[id] = struct{}{}
	} else {
		delete(c.favorites, id)
	}

	c.store.ApplyFavorites(c.favorites.Clone())

	return on, nil
}

// Show implements Catalog.
func (c *TestCatalog) Show(_ context.Context, id string) (domain.EntryResult, error) {
	snapshot := c.store.Current()
	if snapshot == nil {
		return domain.EntryResult{}, domain.ErrEmptyDataset
	}

	entry, ok := snapshot.Find(id)
	if !ok {
		return domain.EntryResult{}, domain.ErrNotFound
	}

	return domain.EntryResult{
		ID:         entry.ID,
		Name:       entry.DisplayName(),
		Nickname:   entry.Nickname,
		AvatarName: entry.AvatarName,
		Attributes: entry.Attributes(),
		Creators:   entry.Creators(),
		Favorite:   entry.IsFavorite,
	}, nil
}

// PreferencesChanged implements Catalog by marking every entry as a
// favorite, standing in for another process editing the file.
func (c *TestCatalog) PreferencesChanged(path string) *library.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Changed = append(c.Changed, path)

	if snapshot := c.store.Current(); snapshot != nil {
		for _, entry := range snapshot.Entries {
			c.favorites[entry.ID] = struct{}{}
		}
	}

	return c.store.ApplyFavorites(c.favorites.Clone())
}

// Prefetch implements Catalog.
func (c *TestCatalog) Prefetch(ctx context.Context, entries []catalog.Entry) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Prefetchs++
	c.PrefetchCtxs = append(c.PrefetchCtxs, ctx)

	return len(entries), nil
}

// NewTestCatalogModel creates a sized catalog model over cat without
// loading it.
func NewTestCatalogModel(styleConfig *styles.Styles, cat Catalog, width, height int) *CatalogModel {
	model := NewCatalog(context.Background(), cat, styleConfig, CatalogOptions{Lang: domain.LangJapanese})
	model.resize(width, height)

	return model
}

// LoadForTesting runs the model's load command synchronously.
func (m *CatalogModel) LoadForTesting() {
	msg := m.load(m.messages.Lang, false)()
	if loaded, ok := msg.(LoadedMsg); ok {
		m.handleLoaded(loaded)
	}
}

// ScrollFrameForTesting delivers one scroll frame.
func (m *CatalogModel) ScrollFrameForTesting() {
	m.Update(scrollFrameMsg{})
}

// ViewportForTesting returns the viewport offset and height.
func (m *CatalogModel) ViewportForTesting() (int, int) {
	return m.viewport.YOffset, m.viewport.Height
}
