// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package render projects catalog entries into display models and keeps the
// rendered card and row fragments in an incremental cache.
package render

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/akyodex/akyodex/internal/catalog"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const signatureSeparator = "\x1f"

// ImageResolver returns the display image URL for an entry, or "" when the
// placeholder tile should be shown. Implementations must not block.
type ImageResolver interface {
	Resolve(id, avatarURL string) string
}

// Projection is the render-ready form of an entry.
type Projection struct {
	ID             string
	DisplayName    string
	AvatarName     string
	Attribute      string
	AttributeList  []string
	AttributeColor lipgloss.Color
	Creator        string
	IsFavorite     bool
	ImageURL       string
	// Signature changes whenever any rendered field changes.
	Signature string
}

// attributeColors is matched in order against the raw attribute string; the
// first keyword found wins.
var attributeColors = []struct { //nolint:gochecknoglobals
	keyword string
	color   lipgloss.Color
}{
	{"チョコミント", "#3ddbb4"},
	{"動物", "#f4a261"},
	{"食べ物", "#e76f51"},
	{"植物", "#52b788"},
	{"宇宙", "#5e60ce"},
	{"ロボット", "#8d99ae"},
	{"おばけ", "#b8c0ff"},
	{"乗り物", "#4895ef"},
	{"和風", "#c77dff"},
	{"季節", "#90be6d"},
	{"お菓子", "#ffafcc"},
	{"夏", "#00b4d8"},
}

var palette = []lipgloss.Color{ //nolint:gochecknoglobals
	"#7aa2f7", "#bb9af7", "#9ece6a", "#e0af68", "#f7768e", "#7dcfff",
}

// AttributeColor returns the accent color for a raw attribute string.
func AttributeColor(attribute string) lipgloss.Color {
	for _, candidate := range attributeColors {
		if strings.Contains(attribute, candidate.keyword) {
			return candidate.color
		}
	}

	first, _ := utf8.DecodeRuneInString(attribute)
	if first == utf8.RuneError {
		first = 0
	}

	return palette[int(first)%len(palette)]
}

// Projector turns entries into projections.
type Projector struct {
	images ImageResolver
	logger *zap.Logger
}

// NewProjector creates a projector. A nil resolver always yields the
// placeholder; a nil logger discards.
func NewProjector(images ImageResolver, logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Projector{images: images, logger: logger}
}

// Project builds the projection of entry.
func (p *Projector) Project(entry catalog.Entry) Projection {
	projection := Projection{
		ID:             entry.ID,
		DisplayName:    entry.DisplayName(),
		AvatarName:     entry.AvatarName,
		Attribute:      entry.Attribute,
		AttributeList:  entry.Attributes(),
		AttributeColor: AttributeColor(entry.Attribute),
		Creator:        entry.Creator,
		IsFavorite:     entry.IsFavorite,
		ImageURL:       p.resolveImage(entry),
	}
	projection.Signature = Signature(projection)

	return projection
}

// ProjectAll projects entries in order.
func (p *Projector) ProjectAll(entries []catalog.Entry) []Projection {
	projections := make([]Projection, len(entries))
	for i, entry := range entries {
		projections[i] = p.Project(entry)
	}

	return projections
}

// resolveImage isolates resolver failures to the one entry.
func (p *Projector) resolveImage(entry catalog.Entry) (imageURL string) {
	if p.images == nil {
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("image resolution panicked",
				zap.String("id", entry.ID),
				zap.Any("panic", r))

			imageURL = ""
		}
	}()

	return p.images.Resolve(entry.ID, entry.AvatarURL)
}

// Signature joins every field that affects a rendered fragment.
func Signature(p Projection) string {
	return strings.Join([]string{
		p.ID,
		p.DisplayName,
		p.AvatarName,
		p.Attribute,
		p.Creator,
		strconv.FormatBool(p.IsFavorite),
		p.ImageURL,
	}, signatureSeparator)
}
