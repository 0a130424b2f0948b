// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package render

import (
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Layout selects the fragment shape.
type Layout string

// Supported layouts.
const (
	LayoutGrid Layout = "grid"
	LayoutList Layout = "list"
)

// CardWidth is the outer width of a grid card including its border.
const CardWidth = 30

const (
	cardInner    = CardWidth - 4 // border + horizontal padding
	tileHeight   = 3
	favoriteMark = "★"
	ellipsis     = "…"
)

// Labels are the localized strings used inside fragments.
type Labels struct {
	Creator  string
	NoImage  string
	Untitled string
}

// parts are the independently rebuilt pieces of a fragment.
type parts struct {
	header   string
	tags     string
	creator  string
	favorite string
	image    string
}

type painter struct {
	palette Palette
	labels  Labels
	layout  Layout
	width   int
}

func (p painter) header(proj Projection) string {
	name := proj.DisplayName
	if name == "" {
		name = p.labels.Untitled
	}

	id := p.palette.Muted.Render("#" + proj.ID)
	if p.layout == LayoutList {
		return id + " " + lipgloss.NewStyle().Bold(true).Render(runewidth.Truncate(name, 24, ellipsis))
	}

	return id + " " + lipgloss.NewStyle().Bold(true).Render(runewidth.Truncate(name, cardInner-len(proj.ID)-4, ellipsis))
}

func (p painter) tags(proj Projection) string {
	if len(proj.AttributeList) == 0 {
		return ""
	}

	tag := p.palette.Tag.Background(proj.AttributeColor)

	rendered := make([]string, 0, len(proj.AttributeList))
	used := 0
	limit := cardInner

	if p.layout == LayoutList {
		limit = 28
	}

	for _, name := range proj.AttributeList {
		w := runewidth.StringWidth(name) + 3
		if used+w > limit {
			rendered = append(rendered, p.palette.Muted.Render(ellipsis))

			break
		}

		rendered = append(rendered, tag.Render(name))
		used += w
	}

	return strings.Join(rendered, " ")
}

func (p painter) creator(proj Projection) string {
	limit := cardInner - runewidth.StringWidth(p.labels.Creator) - 2
	if p.layout == LayoutList {
		limit = 20
	}

	return p.palette.Muted.Render(p.labels.Creator + ": " + runewidth.Truncate(proj.Creator, limit, ellipsis))
}

func (p painter) favorite(proj Projection) string {
	if !proj.IsFavorite {
		return " "
	}

	return lipgloss.NewStyle().Foreground(p.palette.Favorite).Render(favoriteMark)
}

func (p painter) image(proj Projection) string {
	if proj.ImageURL == "" {
		if p.layout == LayoutList {
			return lipgloss.NewStyle().Foreground(proj.AttributeColor).Render("▣")
		}

		return PlaceholderTile(proj.ID, proj.AttributeColor, cardInner)
	}

	if p.layout == LayoutList {
		return p.palette.Success.Render("▣")
	}

	return p.palette.Muted.Render(runewidth.Truncate(imageLabel(proj.ImageURL), cardInner, ellipsis))
}

func (p painter) all(proj Projection) parts {
	return parts{
		header:   p.header(proj),
		tags:     p.tags(proj),
		creator:  p.creator(proj),
		favorite: p.favorite(proj),
		image:    p.image(proj),
	}
}

// compose assembles parts into the final fragment.
func (p painter) compose(pt parts, color lipgloss.Color) string {
	if p.layout == LayoutList {
		line := strings.Join([]string{pt.favorite, pt.image, pt.header, pt.tags, pt.creator}, " ")
		if p.width > 0 {
			line = lipgloss.NewStyle().MaxWidth(p.width).Render(line)
		}

		return line
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, pt.header, " ", pt.favorite)
	body := lipgloss.JoinVertical(lipgloss.Left, top, pt.image, pt.tags, pt.creator)

	return p.palette.Card.
		BorderForeground(color).
		Width(CardWidth - 2).
		Render(body)
}

// PlaceholderTile renders a solid tile in color bearing the entry id. It
// stands in for an image that is absent or known to be missing.
func PlaceholderTile(id string, color lipgloss.Color, width int) string {
	if width <= 0 {
		width = cardInner
	}

	return lipgloss.NewStyle().
		Background(color).
		Foreground(lipgloss.Color("#1a1b26")).
		Bold(true).
		Width(width).
		Height(tileHeight).
		Align(lipgloss.Center, lipgloss.Center).
		Render(id)
}

// imageLabel shortens an image URL to host and file name.
func imageLabel(raw string) string {
	if strings.HasPrefix(raw, "data:") {
		return "▣ cached"
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "▣ " + raw
	}

	name := parsed.Path
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	return "▣ " + parsed.Host + "/" + name
}

// Grid lays out card fragments in rows of columns cards.
func Grid(fragments []string, columns int) string {
	if len(fragments) == 0 {
		return ""
	}

	columns = max(columns, 1)
	rows := make([]string, 0, (len(fragments)+columns-1)/columns)

	for start := 0; start < len(fragments); start += columns {
		end := min(start+columns, len(fragments))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, fragments[start:end]...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Columns returns how many cards fit in width.
func Columns(width int) int {
	return max(width/CardWidth, 1)
}
