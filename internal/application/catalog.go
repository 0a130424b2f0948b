// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package application

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/akyodex/akyodex/internal/catalog"
	"github.com/akyodex/akyodex/internal/domain"
	"github.com/akyodex/akyodex/internal/imageres"
	"github.com/akyodex/akyodex/internal/library"
)

var numericID = regexp.MustCompile(`^\d+$`)

// CatalogService is the use-case layer over Services.
type CatalogService struct {
	*Services

	now func() time.Time
}

// NewCatalogService creates the service.
func NewCatalogService(s *Services) *CatalogService {
	return &CatalogService{Services: s, now: time.Now}
}

// NormalizeID validates a user-supplied id and pads it to three digits.
func NormalizeID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if !numericID.MatchString(id) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidID, raw)
	}

	return imageres.ID3(id), nil
}

// Snapshot returns the published catalog, or nil before the first load.
func (c *CatalogService) Snapshot() *library.Snapshot {
	return c.Loader.Store().Current()
}

// Load fetches lang and refreshes the image sources.
func (c *CatalogService) Load(ctx context.Context, lang string) (*library.Snapshot, error) {
	loadCtx, cancel := c.WithTimeout(ctx)
	defer cancel()

	snapshot, err := c.Loader.Load(loadCtx, lang)
	if err != nil {
		return nil, err
	}

	c.RefreshImages(ctx)

	return snapshot, nil
}

// EnsureLoaded returns the current snapshot when it matches lang, loading
// otherwise.
func (c *CatalogService) EnsureLoaded(ctx context.Context, lang string) (*library.Snapshot, error) {
	if current := c.Snapshot(); current != nil && current.Lang == lang {
		return current, nil
	}

	return c.Load(ctx, lang)
}

// RefreshImages reloads tombstones, the manifest and the version token into
// the image resolver. Failures degrade to the previous state.
func (c *CatalogService) RefreshImages(ctx context.Context) {
	c.reloadTombstones()

	if c.Manifest != nil {
		fetchCtx, cancel := c.WithTimeout(ctx)
		m, err := c.Manifest.Fetch(fetchCtx)

		cancel()

		if err != nil {
			c.Logger.Warn("image manifest unavailable", zap.Error(err))
		} else {
			c.Images.SetManifest(m.Images)

			if m.Version != "" {
				if err := c.Cache.SetImageVersion(ctx, m.Version); err != nil {
					c.Logger.Warn("failed to store image version", zap.Error(err))
				}
			}
		}
	}

	version, err := c.Cache.ImageVersion(ctx)
	if err != nil {
		c.Logger.Warn("failed to read image version", zap.Error(err))

		return
	}

	c.Images.SetVersion(version)
}

func (c *CatalogService) reloadTombstones() domain.IDSet {
	tombstones, err := c.Tombstones.Get()
	if err != nil {
		c.Logger.Warn("failed to read tombstones", zap.Error(err))

		return nil
	}

	c.Images.SetTombstones(tombstones)

	return tombstones
}

// Search runs view over the current snapshot and returns one page. A
// non-positive limit returns everything after offset.
func (c *CatalogService) Search(view catalog.ViewState, offset, limit int) (domain.SearchResult, error) {
	snapshot := c.Snapshot()
	if snapshot == nil {
		return domain.SearchResult{}, fmt.Errorf("catalog not loaded: %w", domain.ErrEmptyDataset)
	}

	matches := snapshot.Apply(c.Engine, view)
	page := Page(matches, offset, limit)

	result := domain.SearchResult{
		Entries:   make([]domain.EntryResult, len(page)),
		Total:     len(matches),
		Offset:    max(offset, 0),
		Lang:      snapshot.Lang,
		FromCache: snapshot.FromCache,
		Truncated: snapshot.Truncated,
		Timestamp: c.now(),
	}

	for i, entry := range page {
		result.Entries[i] = c.Result(entry)
	}

	return result, nil
}

// Filter runs view over the current snapshot. It returns nil before the
// first load.
func (c *CatalogService) Filter(view catalog.ViewState) []catalog.Entry {
	snapshot := c.Snapshot()
	if snapshot == nil {
		return nil
	}

	return snapshot.Apply(c.Engine, view)
}

// Page slices entries by offset and limit.
func Page[T any](entries []T, offset, limit int) []T {
	offset = min(max(offset, 0), len(entries))
	entries = entries[offset:]

	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	return entries
}

// Result converts an entry using the synchronous image path.
func (c *CatalogService) Result(entry catalog.Entry) domain.EntryResult {
	return ToResult(entry, c.Images.Resolve(entry.ID, entry.AvatarURL))
}

// ToResult converts an entry with a known image URL.
func ToResult(entry catalog.Entry, imageURL string) domain.EntryResult {
	return domain.EntryResult{
		ID:         entry.ID,
		Name:       entry.DisplayName(),
		Nickname:   entry.Nickname,
		AvatarName: entry.AvatarName,
		Attributes: entry.Attributes(),
		Creators:   entry.Creators(),
		Notes:      entry.Notes,
		AvatarURL:  entry.SafeAvatarURL(),
		ImageURL:   imageURL,
		Favorite:   entry.IsFavorite,
	}
}

// Find returns the entry with id from the current snapshot.
func (c *CatalogService) Find(rawID string) (catalog.Entry, error) {
	id, err := NormalizeID(rawID)
	if err != nil {
		return catalog.Entry{}, err
	}

	snapshot := c.Snapshot()
	if snapshot == nil {
		return catalog.Entry{}, fmt.Errorf("catalog not loaded: %w", domain.ErrEmptyDataset)
	}

	entry, ok := snapshot.Find(id)
	if !ok {
		return catalog.Entry{}, fmt.Errorf("%s: %w", id, domain.ErrNotFound)
	}

	return entry, nil
}

// Show returns one entry with a probed image URL.
func (c *CatalogService) Show(ctx context.Context, rawID string) (domain.EntryResult, error) {
	entry, err := c.Find(rawID)
	if err != nil {
		return domain.EntryResult{}, err
	}

	imageURL, err := c.Images.Verify(ctx, c.HTTP, entry.ID, entry.AvatarURL)
	if err != nil {
		c.Logger.Debug("image verification interrupted", zap.String("id", entry.ID), zap.Error(err))

		imageURL = c.Images.Resolve(entry.ID, entry.AvatarURL)
	}

	return ToResult(entry, imageURL), nil
}

// Attributes lists the distinct attributes of the current snapshot.
func (c *CatalogService) Attributes() []string {
	if snapshot := c.Snapshot(); snapshot != nil {
		return catalog.Attributes(snapshot.Entries)
	}

	return []string{}
}

// Creators lists the distinct creators of the current snapshot.
func (c *CatalogService) Creators() []string {
	if snapshot := c.Snapshot(); snapshot != nil {
		return catalog.Creators(snapshot.Entries)
	}

	return []string{}
}

// ToggleFavorite flips id in the favorites file and republishes the snapshot.
func (c *CatalogService) ToggleFavorite(rawID string) (bool, error) {
	id, err := NormalizeID(rawID)
	if err != nil {
		return false, err
	}

	on, err := c.Favorites.Toggle(id)
	if err != nil {
		return false, fmt.Errorf("toggle favorite %s: %w", id, err)
	}

	c.Loader.RefreshFavorites()

	return on, nil
}

// AddFavorites adds ids to the favorites file.
func (c *CatalogService) AddFavorites(rawIDs ...string) (domain.IDSet, error) {
	return c.editIDs(rawIDs, c.Favorites.Add, func(domain.IDSet) { c.Loader.RefreshFavorites() })
}

// RemoveFavorites removes ids from the favorites file.
func (c *CatalogService) RemoveFavorites(rawIDs ...string) (domain.IDSet, error) {
	return c.editIDs(rawIDs, c.Favorites.Remove, func(domain.IDSet) { c.Loader.RefreshFavorites() })
}

// AddTombstones marks ids whose hosted images were deleted.
func (c *CatalogService) AddTombstones(rawIDs ...string) (domain.IDSet, error) {
	return c.editIDs(rawIDs, c.Tombstones.Add, c.Images.SetTombstones)
}

// RemoveTombstones clears tombstones for ids.
func (c *CatalogService) RemoveTombstones(rawIDs ...string) (domain.IDSet, error) {
	return c.editIDs(rawIDs, c.Tombstones.Remove, c.Images.SetTombstones)
}

func (c *CatalogService) editIDs(
	rawIDs []string,
	edit func(...string) (domain.IDSet, error),
	after func(domain.IDSet),
) (domain.IDSet, error) {
	ids := make([]string, 0, len(rawIDs))

	for _, raw := range rawIDs {
		id, err := NormalizeID(raw)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	set, err := edit(ids...)
	if err != nil {
		return nil, err
	}

	after(set)

	return set, nil
}

// FavoriteIDs reads the favorites file.
func (c *CatalogService) FavoriteIDs() (domain.IDSet, error) {
	return c.Favorites.Get()
}

// TombstoneIDs reads the tombstone file.
func (c *CatalogService) TombstoneIDs() (domain.IDSet, error) {
	return c.Tombstones.Get()
}

// WatchPaths are the preference files other processes may change.
func (c *CatalogService) WatchPaths() []string {
	return []string{c.Favorites.Path(), c.Tombstones.Path()}
}

// PreferencesChanged re-reads the preference file at path and republishes.
// It returns the snapshot to render, or nil when nothing is loaded.
func (c *CatalogService) PreferencesChanged(path string) *library.Snapshot {
	switch filepath.Clean(path) {
	case filepath.Clean(c.Tombstones.Path()):
		c.reloadTombstones()

		return c.Snapshot()
	default:
		return c.Loader.RefreshFavorites()
	}
}

// Prefetch warms avatar lookups for entries about to be shown.
func (c *CatalogService) Prefetch(ctx context.Context, entries []catalog.Entry) (int, error) {
	return c.Images.Prefetch(ctx, entries)
}

// PullImages downloads the resolved image of each entry into the local
// cache so later sessions can show it offline. It returns how many images
// were stored.
func (c *CatalogService) PullImages(ctx context.Context, entries []catalog.Entry) (int, error) {
	var stored atomic.Int64

	p := pool.New().WithContext(ctx).WithMaxGoroutines(max(c.Config.PrefetchWorkers, 1))

	for _, entry := range entries {
		p.Go(func(ctx context.Context) error {
			imageURL, err := c.Images.ResolveAsync(ctx, entry.ID, entry.AvatarURL)
			if err != nil {
				return err
			}

			if imageURL == "" || strings.HasPrefix(imageURL, "data:") {
				return nil
			}

			dataURI, err := c.HTTP.DownloadDataURI(ctx, imageURL)
			if err != nil {
				c.Logger.Debug("image download failed", zap.String("id", entry.ID), zap.Error(err))

				return nil
			}

			if err := c.Cache.PutImage(entry.ID, dataURI); err != nil {
				return fmt.Errorf("cache image %s: %w", entry.ID, err)
			}

			stored.Add(1)

			return nil
		})
	}

	err := p.Wait()

	return int(stored.Load()), err
}
