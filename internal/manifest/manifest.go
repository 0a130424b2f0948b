// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package manifest loads the id to hosted image URL mapping from an HTTP
// JSON document or a Redis hash.
package manifest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/akyodex/akyodex/internal/adapters/network"
	"github.com/akyodex/akyodex/internal/catalog"
)

// Manifest is the image mapping plus its optional cache-busting version.
type Manifest struct {
	Images  map[string]string `json:"images"`
	Version string            `json:"version,omitempty"`
}

// Fetcher is the HTTP surface used by HTTPProvider.
type Fetcher interface {
	Get(ctx context.Context, url string) (*network.Response, error)
}

// HTTPProvider reads a JSON manifest. Both {"images": {...}, "version": "..."}
// and a bare {"001": "https://..."} object are accepted.
type HTTPProvider struct {
	url  string
	http Fetcher
}

// NewHTTPProvider creates a provider for url.
func NewHTTPProvider(url string, http Fetcher) *HTTPProvider {
	return &HTTPProvider{url: url, http: http}
}

// Get implements domain.ManifestProvider.
func (p *HTTPProvider) Get(ctx context.Context) (map[string]string, error) {
	m, err := p.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	return m.Images, nil
}

// Fetch returns the manifest with its version.
func (p *HTTPProvider) Fetch(ctx context.Context) (Manifest, error) {
	resp, err := p.http.Get(ctx, p.url)
	if err != nil {
		return Manifest{}, fmt.Errorf("fetch manifest: %w", err)
	}

	return Decode(resp.Body)
}

// Decode parses a manifest document and drops entries whose URL is not
// absolute http(s).
func Decode(data []byte) (Manifest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}

	var m Manifest

	if _, wrapped := raw["images"]; wrapped {
		if err := json.Unmarshal(data, &m); err != nil {
			return Manifest{}, fmt.Errorf("decode manifest: %w", err)
		}
	} else {
		m.Images = make(map[string]string, len(raw))

		for id, value := range raw {
			var u string
			if json.Unmarshal(value, &u) == nil {
				m.Images[id] = u
			}
		}
	}

	m.Images = clean(m.Images)

	return m, nil
}

func clean(images map[string]string) map[string]string {
	result := make(map[string]string, len(images))

	for id, u := range images {
		if safe := catalog.SanitizeURL(u); safe != "" {
			result[id] = safe
		}
	}

	return result
}
