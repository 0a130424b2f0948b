// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package catalog holds the Akyo entry model and the pure data pipeline:
// record parsing, search indexing and the filter/sort/rank engine.
package catalog

import (
	"net/url"
	"strings"
)

// Sentinel values written by the parser when trailing columns are missing.
const (
	UncategorizedAttribute = "未分類"
	UnknownCreator         = "不明"
)

// Entry is one catalog record. Values are treated as immutable once parsed.
type Entry struct {
	ID         string `json:"id"`
	Appearance string `json:"appearance,omitempty"`
	Nickname   string `json:"nickname,omitempty"`
	AvatarName string `json:"avatarName,omitempty"`
	Attribute  string `json:"attribute"`
	Notes      string `json:"notes,omitempty"`
	Creator    string `json:"creator"`
	AvatarURL  string `json:"avatarUrl,omitempty"`
	IsFavorite bool   `json:"isFavorite"`
}

// DisplayName returns the nickname, falling back to the avatar name.
func (e Entry) DisplayName() string {
	if strings.TrimSpace(e.Nickname) != "" {
		return e.Nickname
	}

	if strings.TrimSpace(e.AvatarName) != "" {
		return e.AvatarName
	}

	return ""
}

// Attributes splits the attribute string into tags.
func (e Entry) Attributes() []string {
	return SplitTags(e.Attribute)
}

// Creators splits the creator string into author names.
func (e Entry) Creators() []string {
	return SplitCreators(e.Creator)
}

// HasAttribute reports whether tag is one of the entry's parsed tags.
func (e Entry) HasAttribute(tag string) bool {
	for _, candidate := range e.Attributes() {
		if candidate == tag {
			return true
		}
	}

	return false
}

// HasCreator reports whether name is one of the entry's parsed creators.
func (e Entry) HasCreator(name string) bool {
	for _, candidate := range e.Creators() {
		if candidate == name {
			return true
		}
	}

	return false
}

// SafeAvatarURL returns AvatarURL only when it is an absolute http(s) URL.
func (e Entry) SafeAvatarURL() string {
	return SanitizeURL(e.AvatarURL)
}

// SanitizeURL returns raw when it parses as an absolute http or https URL,
// otherwise an empty string.
func SanitizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return ""
	}

	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return raw
	default:
		return ""
	}
}

// SplitTags splits on ASCII and ideographic commas.
func SplitTags(raw string) []string {
	return splitUnique(raw, func(r rune) bool {
		return r == ',' || r == '、'
	})
}

// SplitCreators splits on commas, slashes and ampersands, including their
// fullwidth variants.
func SplitCreators(raw string) []string {
	return splitUnique(raw, func(r rune) bool {
		switch r {
		case ',', '、', '，', '/', '／', '&', '＆':
			return true
		default:
			return false
		}
	})
}

func splitUnique(raw string, sep func(rune) bool) []string {
	parts := strings.FieldsFunc(raw, sep)
	result := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if _, dup := seen[part]; dup {
			continue
		}

		seen[part] = struct{}{}
		result = append(result, part)
	}

	return result
}

// WithFavorites returns a copy of entries with IsFavorite set from favorites.
// The input slice is not modified.
func WithFavorites(entries []Entry, favorites map[string]struct{}) []Entry {
	result := make([]Entry, len(entries))
	for i, entry := range entries {
		_, entry.IsFavorite = favorites[entry.ID]
		result[i] = entry
	}

	return result
}
