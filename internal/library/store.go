// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package library owns the loaded catalog: the entry collection and its
// search index, published together as immutable snapshots.
package library

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/akyodex/akyodex/internal/catalog"
	"github.com/akyodex/akyodex/internal/domain"
)

// Snapshot is one consistent view of the catalog. Never modify a published
// snapshot; the store replaces it wholesale.
type Snapshot struct {
	Entries   []catalog.Entry
	Index     []catalog.IndexRow
	Lang      string
	Token     uint64
	Report    catalog.Report
	FromCache bool
	// Truncated is set when the source announced more rows than were parsed.
	Truncated bool
	LoadedAt  time.Time

	byID map[string]int
}

// Apply runs the filter pipeline over the snapshot.
func (s *Snapshot) Apply(engine *catalog.Engine, view catalog.ViewState) []catalog.Entry {
	if engine == nil {
		return catalog.Apply(s.Entries, s.Index, view)
	}

	return engine.Apply(s.Entries, s.Index, view)
}

// Find returns the entry with id.
func (s *Snapshot) Find(id string) (catalog.Entry, bool) {
	i, ok := s.byID[id]
	if !ok {
		return catalog.Entry{}, false
	}

	return s.Entries[i], true
}

// Len returns the entry count.
func (s *Snapshot) Len() int {
	return len(s.Entries)
}

func newSnapshot(entries []catalog.Entry, index []catalog.IndexRow) *Snapshot {
	byID := make(map[string]int, len(entries))
	for i, entry := range entries {
		byID[entry.ID] = i
	}

	return &Snapshot{Entries: entries, Index: index, byID: byID}
}

// Store publishes snapshots atomically. Readers never see entries from one
// load paired with the index of another. Safe for concurrent use.
type Store struct {
	current atomic.Pointer[Snapshot]
	tokens  atomic.Uint64
	now     func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Begin issues the token for a new load. Tokens increase monotonically.
func (s *Store) Begin() uint64 {
	return s.tokens.Add(1)
}

// Current returns the published snapshot, or nil before the first load.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Commit parses dataset, builds its index and publishes the result unless a
// load with a newer token was already committed. On error the current
// snapshot stays in place.
func (s *Store) Commit(token uint64, dataset domain.Dataset, favorites domain.IDSet) (*Snapshot, error) {
	entries, report := catalog.ParseReport(dataset.Text)
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s dataset: %w", dataset.Lang, domain.ErrEmptyDataset)
	}

	entries = catalog.WithFavorites(entries, favorites)

	snapshot := newSnapshot(entries, catalog.BuildIndex(entries))
	snapshot.Lang = dataset.Lang
	snapshot.Token = token
	snapshot.Report = report
	snapshot.FromCache = dataset.FromCache
	snapshot.Truncated = dataset.RowCountHint > 0 && len(entries) < dataset.RowCountHint
	snapshot.LoadedAt = s.now()

	for {
		current := s.current.Load()
		if current != nil && current.Token > token {
			return nil, fmt.Errorf("load %d after %d: %w", token, current.Token, domain.ErrStaleLoad)
		}

		if s.current.CompareAndSwap(current, snapshot) {
			return snapshot, nil
		}
	}
}

// ApplyFavorites republishes the current snapshot with favorite flags taken
// from favorites. The index is shared since favorites are not searchable.
// It returns nil when nothing is loaded.
func (s *Store) ApplyFavorites(favorites domain.IDSet) *Snapshot {
	for {
		current := s.current.Load()
		if current == nil {
			return nil
		}

		next := *current
		next.Entries = catalog.WithFavorites(current.Entries, favorites)

		if s.current.CompareAndSwap(current, &next) {
			return &next
		}
	}
}
