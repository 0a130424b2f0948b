// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package i18n holds the user-facing strings for the supported languages.
package i18n

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/akyodex/akyodex/internal/domain"
	"github.com/akyodex/akyodex/internal/render"
)

// Messages are the localized strings of one language.
type Messages struct {
	Lang string

	Title         string
	SearchPrompt  string
	Loading       string
	Cached        string
	Truncated     string
	Count         string // printf: shown, total
	Empty         string
	Retry         string
	ErrorTitle    string
	FilterTitle   string
	AnyAttribute  string
	AnyCreator    string
	Attribute     string
	Creator       string
	FavoritesOnly string
	Ascending     string
	Descending    string
	Random        string
	Favorite      string
	Notes         string
	AvatarName    string
	Nickname      string
	AvatarPage    string
	Image         string
	NoImage       string
	Untitled      string
	Added         string // printf: id
	Removed       string // printf: id
	HelpTitle     string
}

var japanese = Messages{ //nolint:gochecknoglobals
	Lang:          domain.LangJapanese,
	Title:         "Akyo図鑑",
	SearchPrompt:  "検索: ",
	Loading:       "読み込み中…",
	Cached:        "キャッシュ",
	Truncated:     "データが途中で切れている可能性があります",
	Count:         "%d / %d 件",
	Empty:         "該当するAkyoはいません",
	Retry:         "r で再読み込み",
	ErrorTitle:    "エラー",
	FilterTitle:   "絞り込み",
	AnyAttribute:  "すべての属性",
	AnyCreator:    "すべての作者",
	Attribute:     "属性",
	Creator:       "作者",
	FavoritesOnly: "お気に入りのみ",
	Ascending:     "昇順",
	Descending:    "降順",
	Random:        "ランダム",
	Favorite:      "お気に入り",
	Notes:         "備考",
	AvatarName:    "アバター名",
	Nickname:      "通称",
	AvatarPage:    "アバターURL",
	Image:         "画像",
	NoImage:       "画像なし",
	Untitled:      "？",
	Added:         "%s を追加しました",
	Removed:       "%s を削除しました",
	HelpTitle:     "操作方法",
}

var english = Messages{ //nolint:gochecknoglobals
	Lang:          domain.LangEnglish,
	Title:         "Akyodex",
	SearchPrompt:  "Search: ",
	Loading:       "Loading…",
	Cached:        "cached",
	Truncated:     "the dataset may be truncated",
	Count:         "%d / %d entries",
	Empty:         "No Akyo match",
	Retry:         "press r to reload",
	ErrorTitle:    "Error",
	FilterTitle:   "Filter",
	AnyAttribute:  "Any attribute",
	AnyCreator:    "Any creator",
	Attribute:     "Attribute",
	Creator:       "Creator",
	FavoritesOnly: "Favorites only",
	Ascending:     "ascending",
	Descending:    "descending",
	Random:        "random",
	Favorite:      "Favorite",
	Notes:         "Notes",
	AvatarName:    "Avatar name",
	Nickname:      "Nickname",
	AvatarPage:    "Avatar URL",
	Image:         "Image",
	NoImage:       "No image",
	Untitled:      "?",
	Added:         "added %s",
	Removed:       "removed %s",
	HelpTitle:     "Keys",
}

var matcher = language.NewMatcher([]language.Tag{language.Japanese, language.English}) //nolint:gochecknoglobals

// For returns the messages for lang, defaulting to Japanese.
func For(lang string) Messages {
	if lang == domain.LangEnglish {
		return english
	}

	return japanese
}

// Labels adapts For to the fragment painter.
func Labels(lang string) render.Labels {
	m := For(lang)

	return render.Labels{Creator: m.Creator, NoImage: m.NoImage, Untitled: m.Untitled}
}

// Supported reports whether lang has a dataset.
func Supported(lang string) bool {
	return lang == domain.LangJapanese || lang == domain.LangEnglish
}

// Other returns the alternate language.
func Other(lang string) string {
	if lang == domain.LangEnglish {
		return domain.LangJapanese
	}

	return domain.LangEnglish
}

// Detect picks a supported language from a locale string such as the LANG
// environment variable ("en_US.UTF-8"). Unknown locales yield Japanese.
func Detect(locale string) string {
	locale, _, _ = strings.Cut(locale, ".")
	locale = strings.ReplaceAll(locale, "_", "-")

	if locale == "" || locale == "C" || locale == "POSIX" {
		return domain.LangJapanese
	}

	_, index, confidence := matcher.Match(language.Make(locale))
	if confidence == language.No || index != 1 {
		return domain.LangJapanese
	}

	return domain.LangEnglish
}
