// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"context"
	"time"
)

// Languages with a published dataset.
const (
	LangJapanese = "ja"
	LangEnglish  = "en"
)

// Dataset is one fetched copy of the delimited catalog text.
type Dataset struct {
	Text string
	Lang string
	// RowCountHint is the row count announced by the source, or zero when
	// unknown. A parse yielding fewer entries suggests a truncated response.
	RowCountHint int
	FromCache    bool
	FetchedAt    time.Time
}

// DatasetSource fetches raw catalog text for a language.
// Implemented by the HTTP source with its cache fallback chain.
type DatasetSource interface {
	// Fetch returns the dataset for lang, or an error wrapping
	// ErrSourceUnavailable when every fallback failed.
	Fetch(ctx context.Context, lang string) (Dataset, error)
}

// DatasetCache persists the last good dataset per language.
type DatasetCache interface {
	// LoadDataset returns the cached dataset for lang; ok is false on a miss.
	LoadDataset(ctx context.Context, lang string) (Dataset, bool, error)

	// SaveDataset replaces the cached dataset for its language.
	SaveDataset(ctx context.Context, dataset Dataset) error
}

// IDStore is a durable set of entry ids, used for favorites and for image
// tombstones.
type IDStore interface {
	// Get returns the current set.
	Get() (IDSet, error)

	// Set replaces the stored set.
	Set(ids IDSet) error
}

// ManifestProvider supplies the id to hosted image URL mapping.
type ManifestProvider interface {
	Get(ctx context.Context) (map[string]string, error)
}

// ImageCache is a best-effort local store of image data URIs.
type ImageCache interface {
	// GetImage returns the cached data URI for id.
	GetImage(id string) (string, bool)

	// PutImage stores a data URI for id.
	PutImage(id, dataURI string) error
}

// AvatarResolver derives an image URL from an external avatar page.
type AvatarResolver interface {
	// Resolve returns an image URL for the avatar referenced by hint. size is a
	// width hint in pixels; zero means the source default.
	Resolve(ctx context.Context, hint string, size int) (string, error)
}

// VersionStore holds the image cache-busting token.
type VersionStore interface {
	ImageVersion(ctx context.Context) (string, error)
	SetImageVersion(ctx context.Context, token string) error
}
