// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package library

import (
	"context"
	"fmt"

	"github.com/akyodex/akyodex/internal/domain"
	"go.uber.org/zap"
)

// Loader fetches datasets and commits them to a Store.
type Loader struct {
	store     *Store
	source    domain.DatasetSource
	favorites domain.IDStore
	logger    *zap.Logger
}

// NewLoader wires a loader. favorites may be nil.
func NewLoader(store *Store, source domain.DatasetSource, favorites domain.IDStore, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Loader{store: store, source: source, favorites: favorites, logger: logger}
}

// Store returns the store the loader commits to.
func (l *Loader) Store() *Store {
	return l.store
}

// Load fetches lang and publishes it. Errors leave the previous snapshot
// published.
func (l *Loader) Load(ctx context.Context, lang string) (*Snapshot, error) {
	token := l.store.Begin()

	dataset, err := l.source.Fetch(ctx, lang)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", lang, err)
	}

	snapshot, err := l.store.Commit(token, dataset, l.Favorites())
	if err != nil {
		return nil, err
	}

	report := snapshot.Report
	if len(report.Repaired) > 0 {
		// Over-length rows are guessed at; keep them visible for review.
		l.logger.Debug("repaired over-length rows", zap.Strings("ids", report.Repaired))
	}

	l.logger.Info("catalog loaded",
		zap.String("lang", snapshot.Lang),
		zap.Int("entries", snapshot.Len()),
		zap.Int("dropped", report.Dropped),
		zap.Int("duplicates", len(report.Duplicates)),
		zap.Bool("from_cache", snapshot.FromCache),
		zap.Bool("truncated", snapshot.Truncated),
		zap.Uint64("token", token))

	return snapshot, nil
}

// Favorites reads the favorites store, degrading to an empty set.
func (l *Loader) Favorites() domain.IDSet {
	if l.favorites == nil {
		return domain.NewIDSet()
	}

	favorites, err := l.favorites.Get()
	if err != nil {
		l.logger.Warn("failed to read favorites", zap.Error(err))

		return domain.NewIDSet()
	}

	return favorites
}

// RefreshFavorites re-reads favorites and republishes the current snapshot.
func (l *Loader) RefreshFavorites() *Snapshot {
	return l.store.ApplyFavorites(l.Favorites())
}
