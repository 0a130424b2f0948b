// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package dataset fetches the delimited catalog text, network first, with
// the local cache and the other language as fallbacks.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/akyodex/akyodex/internal/adapters/network"
	"github.com/akyodex/akyodex/internal/catalog"
	"github.com/akyodex/akyodex/internal/domain"
	"go.uber.org/zap"
)

// RowCountHeader carries the number of data rows the server published.
const RowCountHeader = "X-Akyo-Row-Count"

// Fetcher is the HTTP surface used by Source.
type Fetcher interface {
	Get(ctx context.Context, url string) (*network.Response, error)
}

// Source implements domain.DatasetSource.
type Source struct {
	baseURL string
	http    Fetcher
	cache   domain.DatasetCache
	logger  *zap.Logger
	now     func() time.Time
}

// NewSource creates a source reading {baseURL}/akyo-data-{lang}.csv. cache
// may be nil.
func NewSource(baseURL string, http Fetcher, cache domain.DatasetCache, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Source{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http,
		cache:   cache,
		logger:  logger,
		now:     time.Now,
	}
}

// URL returns the dataset location for lang.
func (s *Source) URL(lang string) string {
	return s.baseURL + "/akyo-data-" + lang + ".csv"
}

// Fetch tries, in order: network for lang, cache for lang, network for the
// other language, cache for the other language.
func (s *Source) Fetch(ctx context.Context, lang string) (domain.Dataset, error) {
	var errs []error

	for _, candidate := range fallbackLangs(lang) {
		dataset, err := s.fetchRemote(ctx, candidate)
		if err == nil {
			return dataset, nil
		}

		if ctx.Err() != nil {
			return domain.Dataset{}, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, ctx.Err())
		}

		errs = append(errs, err)
		s.logger.Warn("dataset fetch failed, trying cache",
			zap.String("lang", candidate),
			zap.Error(err))

		dataset, ok := s.fetchCached(ctx, candidate)
		if ok {
			return dataset, nil
		}
	}

	return domain.Dataset{}, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, errors.Join(errs...))
}

// FetchRemote fetches lang from the network only and refreshes the cache.
// Used for the background refetch after a truncated response.
func (s *Source) FetchRemote(ctx context.Context, lang string) (domain.Dataset, error) {
	return s.fetchRemote(ctx, lang)
}

func (s *Source) fetchRemote(ctx context.Context, lang string) (domain.Dataset, error) {
	if s.baseURL == "" {
		return domain.Dataset{}, errors.New("no dataset base URL configured")
	}

	resp, err := s.http.Get(ctx, s.URL(lang))
	if err != nil {
		return domain.Dataset{}, err
	}

	text := strings.TrimPrefix(string(resp.Body), "\ufeff")
	if strings.TrimSpace(text) == "" {
		return domain.Dataset{}, fmt.Errorf("%s: empty body", s.URL(lang))
	}

	// A 200 that is not the dataset (maintenance page, proxy error) must not
	// replace the last good cached copy.
	if !hasEntries(text) {
		return domain.Dataset{}, fmt.Errorf("%s: %w", s.URL(lang), domain.ErrEmptyDataset)
	}

	dataset := domain.Dataset{
		Text:         text,
		Lang:         lang,
		RowCountHint: rowCountHint(resp.Header.Get(RowCountHeader)),
		FetchedAt:    s.now(),
	}

	if s.cache != nil {
		if err := s.cache.SaveDataset(ctx, dataset); err != nil {
			s.logger.Warn("failed to cache dataset", zap.String("lang", lang), zap.Error(err))
		}
	}

	return dataset, nil
}

func (s *Source) fetchCached(ctx context.Context, lang string) (domain.Dataset, bool) {
	if s.cache == nil {
		return domain.Dataset{}, false
	}

	dataset, ok, err := s.cache.LoadDataset(ctx, lang)
	if err != nil {
		s.logger.Warn("failed to read cached dataset", zap.String("lang", lang), zap.Error(err))

		return domain.Dataset{}, false
	}

	if !ok || !hasEntries(dataset.Text) {
		return domain.Dataset{}, false
	}

	dataset.FromCache = true

	return dataset, true
}

func hasEntries(text string) bool {
	return len(catalog.Parse(text)) > 0
}

func rowCountHint(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}

	return n
}

// fallbackLangs returns lang followed by the other published language.
func fallbackLangs(lang string) []string {
	switch lang {
	case domain.LangEnglish:
		return []string{domain.LangEnglish, domain.LangJapanese}
	case domain.LangJapanese, "":
		return []string{domain.LangJapanese, domain.LangEnglish}
	default:
		return []string{lang, domain.LangJapanese}
	}
}
