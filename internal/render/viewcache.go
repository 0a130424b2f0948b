// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package render

import "slices"

// Stats counts cache outcomes since the last Reset.
type Stats struct {
	Hits    int // fragments reused verbatim
	Builds  int // fragments constructed from scratch
	Patches int // fragments with only changed parts re-rendered
}

type cachedFragment struct {
	projection Projection
	lang       string
	layout     Layout
	width      int
	parts      parts
	fragment   string
}

// ViewCache maps entry ids to rendered fragments. Entries are never evicted;
// call Reset after a full dataset reload. Not safe for concurrent use.
type ViewCache struct {
	palette Palette
	labels  func(lang string) Labels
	width   int
	entries map[string]*cachedFragment
	stats   Stats
}

// NewViewCache creates an empty cache. A nil palette uses DefaultPalette;
// labels supplies localized strings per language tag.
func NewViewCache(palette *Palette, labels func(lang string) Labels) *ViewCache {
	if palette == nil {
		def := DefaultPalette()
		palette = &def
	}

	if labels == nil {
		labels = func(string) Labels { return Labels{Creator: "Creator", NoImage: "No image", Untitled: "?"} }
	}

	return &ViewCache{
		palette: *palette,
		labels:  labels,
		entries: make(map[string]*cachedFragment),
	}
}

// SetWidth sets the list row width. Changing it invalidates list fragments
// lazily through the per-fragment width check.
func (c *ViewCache) SetWidth(width int) {
	c.width = width
}

// Reconcile returns one fragment per projection, reusing cached fragments
// whose signature, language and layout are unchanged.
func (c *ViewCache) Reconcile(projections []Projection, lang string, layout Layout) []string {
	fragments := make([]string, len(projections))
	paint := painter{palette: c.palette, labels: c.labels(lang), layout: layout, width: c.width}

	for i, projection := range projections {
		fragments[i] = c.fragment(paint, projection, lang)
	}

	return fragments
}

func (c *ViewCache) fragment(paint painter, projection Projection, lang string) string {
	cached, ok := c.entries[projection.ID]

	switch {
	case !ok || cached.lang != lang || cached.layout != paint.layout || cached.width != paint.width:
		cached = &cachedFragment{
			projection: projection,
			lang:       lang,
			layout:     paint.layout,
			width:      paint.width,
			parts:      paint.all(projection),
		}
		cached.fragment = paint.compose(cached.parts, projection.AttributeColor)
		c.entries[projection.ID] = cached
		c.stats.Builds++

	case cached.projection.Signature == projection.Signature:
		c.stats.Hits++

	default:
		c.patch(paint, cached, projection)
		c.stats.Patches++
	}

	return cached.fragment
}

// patch re-renders only the parts whose inputs changed.
func (c *ViewCache) patch(paint painter, cached *cachedFragment, next Projection) {
	prev := cached.projection

	if prev.DisplayName != next.DisplayName || prev.AvatarName != next.AvatarName {
		cached.parts.header = paint.header(next)
	}

	colorChanged := prev.AttributeColor != next.AttributeColor
	if prev.Attribute != next.Attribute || colorChanged {
		cached.parts.tags = paint.tags(next)
	}

	if prev.Creator != next.Creator {
		cached.parts.creator = paint.creator(next)
	}

	if prev.IsFavorite != next.IsFavorite {
		cached.parts.favorite = paint.favorite(next)
	}

	if prev.ImageURL != next.ImageURL || (next.ImageURL == "" && colorChanged) {
		cached.parts.image = paint.image(next)
	}

	cached.projection = next
	cached.fragment = paint.compose(cached.parts, next.AttributeColor)
}

// Stats returns the counters accumulated since the last Reset.
func (c *ViewCache) Stats() Stats {
	return c.stats
}

// Len returns the number of cached fragments.
func (c *ViewCache) Len() int {
	return len(c.entries)
}

// IDs returns the cached ids in ascending order.
func (c *ViewCache) IDs() []string {
	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

// Reset discards every fragment and counter.
func (c *ViewCache) Reset() {
	c.entries = make(map[string]*cachedFragment)
	c.stats = Stats{}
}
