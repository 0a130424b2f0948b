// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package imageres picks the image URL for an entry through an ordered chain
// of sources: manifest, CDN, VRChat page, local cache and static path.
package imageres

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/akyodex/akyodex/internal/catalog"
	"github.com/akyodex/akyodex/internal/domain"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds one VRChat lookup.
	DefaultTimeout = 30 * time.Second
	// DefaultPrefetchWorkers bounds concurrent VRChat lookups during Prefetch.
	DefaultPrefetchWorkers = 4
	// DefaultRetryAfter is how long a failed avatar lookup is skipped.
	DefaultRetryAfter = 10 * time.Minute
	// AvatarImageSize is the width hint passed to the avatar resolver.
	AvatarImageSize = 512

	versionParam = "v"
	imageExt     = ".webp"
)

var avatarIDPattern = regexp.MustCompile(`avtr_[0-9a-fA-F-]+`)

// AvatarID extracts the VRChat avatar id from hint, or "".
func AvatarID(hint string) string {
	return avatarIDPattern.FindString(hint)
}

// Config holds the URL conventions.
type Config struct {
	CDNBase    string // {CDNBase}/{id3}.webp, gated by tombstones
	StaticBase string // {StaticBase}/{id3}.webp, last resort
	Timeout    time.Duration
	Workers    int
	RetryAfter time.Duration
}

// Resolver resolves entry images. Resolve is synchronous and never blocks on
// the network; ResolveAsync additionally consults the avatar resolver.
// Safe for concurrent use.
type Resolver struct {
	cfg    Config
	cache  domain.ImageCache
	avatar domain.AvatarResolver
	logger *zap.Logger

	mu         sync.RWMutex
	manifest   map[string]string
	tombstones domain.IDSet
	version    string
	avatars    map[string]string    // avatar id -> resolved URL
	failed     map[string]time.Time // avatar id -> last failed lookup
	missing    map[string]struct{}
}

// New creates a resolver. cache and avatar may be nil.
func New(cfg Config, cache domain.ImageCache, avatar domain.AvatarResolver, logger *zap.Logger) *Resolver {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.Workers <= 0 {
		cfg.Workers = DefaultPrefetchWorkers
	}

	if cfg.RetryAfter <= 0 {
		cfg.RetryAfter = DefaultRetryAfter
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	cfg.CDNBase = strings.TrimRight(cfg.CDNBase, "/")
	cfg.StaticBase = strings.TrimRight(cfg.StaticBase, "/")

	return &Resolver{
		cfg:        cfg,
		cache:      cache,
		avatar:     avatar,
		logger:     logger,
		manifest:   map[string]string{},
		tombstones: domain.NewIDSet(),
		avatars:    map[string]string{},
		failed:     map[string]time.Time{},
		missing:    map[string]struct{}{},
	}
}

// SetManifest replaces the id to URL mapping.
func (r *Resolver) SetManifest(manifest map[string]string) {
	clone := make(map[string]string, len(manifest))
	for id, u := range manifest {
		clone[id] = u
	}

	r.mu.Lock()
	r.manifest = clone
	r.mu.Unlock()
}

// SetTombstones replaces the set of ids whose hosted image must not be used.
func (r *Resolver) SetTombstones(ids domain.IDSet) {
	clone := ids.Clone()

	r.mu.Lock()
	r.tombstones = clone
	r.mu.Unlock()
}

// SetVersion sets the cache-busting token appended as v=.
func (r *Resolver) SetVersion(token string) {
	r.mu.Lock()
	r.version = strings.TrimSpace(token)
	r.mu.Unlock()
}

// MarkMissing records that url failed to load. Resolution skips it from now
// on, so an entry whose only candidate is missing gets the placeholder.
func (r *Resolver) MarkMissing(rawURL string) {
	if rawURL == "" {
		return
	}

	r.mu.Lock()
	r.missing[rawURL] = struct{}{}
	r.mu.Unlock()
}

// Resolve returns the image URL for id, or "" for the placeholder. Only
// avatar URLs resolved earlier by ResolveAsync or Prefetch are used.
func (r *Resolver) Resolve(id, avatarHint string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resolved, _ := r.chain(id, avatarHint, false)

	return resolved
}

// ResolveAsync is Resolve with a live avatar lookup for step three. It
// fails only when ctx is done.
func (r *Resolver) ResolveAsync(ctx context.Context, id, avatarHint string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.RLock()
	resolved, needsLookup := r.chain(id, avatarHint, true)
	r.mu.RUnlock()

	if !needsLookup {
		return resolved, nil
	}

	avatarURL, err := r.lookup(ctx, avatarHint)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		r.logger.Debug("avatar lookup failed",
			zap.String("id", id),
			zap.Error(err))
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if avatarURL != "" {
		if candidate := r.usable(avatarURL, false); candidate != "" {
			return candidate, nil
		}
	}

	resolved, _ = r.tail(id)

	return resolved, nil
}

// chain walks steps one to five. When live is set and step three has an
// unresolved avatar id, it stops there and reports needsLookup. Callers hold
// r.mu for reading.
func (r *Resolver) chain(id, hint string, live bool) (string, bool) {
	tombstoned := r.tombstones.Has(id)

	if !tombstoned {
		if candidate := r.usable(r.manifest[id], true); candidate != "" {
			return candidate, false
		}

		if r.cfg.CDNBase != "" {
			if candidate := r.usable(r.cfg.CDNBase+"/"+ID3(id)+imageExt, true); candidate != "" {
				return candidate, false
			}
		}
	}

	if avatarID := AvatarID(hint); avatarID != "" {
		if resolved, ok := r.avatars[avatarID]; ok {
			if candidate := r.usable(resolved, false); candidate != "" {
				return candidate, false
			}
		} else if live && r.avatar != nil && !r.recentlyFailed(avatarID) {
			return "", true
		}
	}

	return r.tail(id)
}

// tail is steps four and five.
func (r *Resolver) tail(id string) (string, bool) {
	if r.cache != nil {
		if dataURI, ok := r.cache.GetImage(id); ok && dataURI != "" {
			return dataURI, false
		}
	}

	if r.cfg.StaticBase != "" {
		return r.usable(r.cfg.StaticBase+"/"+ID3(id)+imageExt, true), false
	}

	return "", false
}

func (r *Resolver) recentlyFailed(avatarID string) bool {
	at, ok := r.failed[avatarID]

	return ok && time.Since(at) < r.cfg.RetryAfter
}

// usable returns candidate, versioned when requested, unless it is empty or
// known missing.
func (r *Resolver) usable(candidate string, versioned bool) string {
	if candidate == "" {
		return ""
	}

	if versioned {
		candidate = WithVersion(candidate, r.version)
	}

	if _, bad := r.missing[candidate]; bad {
		return ""
	}

	return candidate
}

// lookup runs step three and remembers the outcome. Failures are skipped
// for RetryAfter unless the caller's ctx was cancelled.
func (r *Resolver) lookup(ctx context.Context, hint string) (string, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	avatarID := AvatarID(hint)

	avatarURL, err := r.avatar.Resolve(lookupCtx, hint, AvatarImageSize)
	if err == nil {
		avatarURL = catalog.SanitizeURL(avatarURL)
		if avatarURL == "" {
			err = domain.ErrNoAvatarImage
		}
	}

	if err != nil {
		if ctx.Err() == nil {
			r.mu.Lock()
			r.failed[avatarID] = time.Now()
			r.mu.Unlock()
		}

		return "", err
	}

	r.mu.Lock()
	r.avatars[avatarID] = avatarURL
	delete(r.failed, avatarID)
	r.mu.Unlock()

	return avatarURL, nil
}

// Prefetch resolves avatar images for entries that would reach step three,
// with bounded concurrency. It returns how many lookups succeeded.
func (r *Resolver) Prefetch(ctx context.Context, entries []catalog.Entry) (int, error) {
	if r.avatar == nil {
		return 0, nil
	}

	var (
		mu       sync.Mutex
		resolved int
		queued   = make(map[string]struct{})
	)

	p := pool.New().WithContext(ctx).WithMaxGoroutines(r.cfg.Workers)

	for _, entry := range entries {
		avatarID := AvatarID(entry.AvatarURL)
		if avatarID == "" {
			continue
		}

		if _, dup := queued[avatarID]; dup {
			continue
		}

		r.mu.RLock()
		_, needsLookup := r.chain(entry.ID, entry.AvatarURL, true)
		r.mu.RUnlock()

		if !needsLookup {
			continue
		}

		queued[avatarID] = struct{}{}
		hint := entry.AvatarURL

		p.Go(func(ctx context.Context) error {
			if _, err := r.lookup(ctx, hint); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}

				return nil
			}

			mu.Lock()
			resolved++
			mu.Unlock()

			return nil
		})
	}

	err := p.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resolved, err
	}

	return resolved, nil
}

// ID3 pads numeric ids to at least three digits.
func ID3(id string) string {
	if len(id) >= 3 {
		return id
	}

	return strings.Repeat("0", 3-len(id)) + id
}

// WithVersion appends v=token unless token is empty, rawURL is a data URI,
// or rawURL already carries a v parameter.
func WithVersion(rawURL, token string) string {
	if token == "" || rawURL == "" || strings.HasPrefix(rawURL, "data:") {
		return rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	if parsed.Query().Has(versionParam) {
		return rawURL
	}

	param := versionParam + "=" + url.QueryEscape(token)
	if parsed.RawQuery == "" {
		parsed.RawQuery = param
	} else {
		parsed.RawQuery += "&" + param
	}

	return parsed.String()
}
