// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package imageres_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akyodex/akyodex/internal/catalog"
	"github.com/akyodex/akyodex/internal/domain"
	"github.com/akyodex/akyodex/internal/imageres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vrchatHint = "https://vrchat.com/home/avatar/avtr_0123abcd-ef45"

type memCache map[string]string

func (m memCache) GetImage(id string) (string, bool) {
	v, ok := m[id]

	return v, ok
}

func (m memCache) PutImage(id, uri string) error {
	m[id] = uri

	return nil
}

type fakeAvatar struct {
	url   string
	err   error
	calls atomic.Int32
}

func (f *fakeAvatar) Resolve(_ context.Context, hint string, size int) (string, error) {
	f.calls.Add(1)

	if imageres.AvatarID(hint) == "" || size <= 0 {
		return "", errors.New("bad call")
	}

	return f.url, f.err
}

func newResolver(avatar domain.AvatarResolver, cache domain.ImageCache) *imageres.Resolver {
	return imageres.New(imageres.Config{
		CDNBase:    "https://cdn.example/images/",
		StaticBase: "https://static.example/images",
	}, cache, avatar, nil)
}

func TestResolvePriorityChain(t *testing.T) {
	t.Parallel()

	resolver := newResolver(nil, memCache{"001": "data:image/webp;base64,AA=="})
	resolver.SetManifest(map[string]string{"001": "https://r2.example/001.webp"})

	assert.Equal(t, "https://r2.example/001.webp", resolver.Resolve("001", ""), "manifest first")
	assert.Equal(t, "https://cdn.example/images/002.webp", resolver.Resolve("002", ""), "cdn convention")

	resolver.SetTombstones(domain.NewIDSet("001"))
	assert.Equal(t, "data:image/webp;base64,AA==", resolver.Resolve("001", ""), "tombstone skips manifest and cdn")

	resolver.SetTombstones(domain.NewIDSet("002"))
	assert.Equal(t, "https://static.example/images/002.webp", resolver.Resolve("002", ""), "static last")
}

func TestResolveVersionToken(t *testing.T) {
	t.Parallel()

	resolver := newResolver(nil, nil)
	resolver.SetVersion("42")
	resolver.SetManifest(map[string]string{
		"001": "https://r2.example/001.webp?v=7",
		"003": "https://r2.example/003.webp?size=s",
	})

	assert.Equal(t, "https://r2.example/001.webp?v=7", resolver.Resolve("001", ""), "never duplicated")
	assert.Equal(t, "https://cdn.example/images/002.webp?v=42", resolver.Resolve("002", ""))
	assert.Equal(t, "https://r2.example/003.webp?size=s&v=42", resolver.Resolve("003", ""))
}

func TestWithVersion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://x/a.webp", imageres.WithVersion("https://x/a.webp", ""))
	assert.Equal(t, "data:image/png;base64,AA", imageres.WithVersion("data:image/png;base64,AA", "1"))
	assert.Equal(t, "https://x/a.webp?v=a+b", imageres.WithVersion("https://x/a.webp", "a b"))
	assert.Equal(t, "https://x/a.webp?s=1&v=2", imageres.WithVersion("https://x/a.webp?s=1", "2"))
	assert.Equal(t, "https://x/a.webp?v=2#top", imageres.WithVersion("https://x/a.webp#top", "2"))
	assert.Equal(t, "https://x/a.webp?v=1", imageres.WithVersion("https://x/a.webp?v=1", "2"))
}

func TestResolveMissingFallsToPlaceholder(t *testing.T) {
	t.Parallel()

	resolver := imageres.New(imageres.Config{StaticBase: "https://static.example"}, nil, nil, nil)

	url := resolver.Resolve("010", "")
	require.Equal(t, "https://static.example/010.webp", url)

	resolver.MarkMissing(url)
	assert.Empty(t, resolver.Resolve("010", ""))
	assert.Equal(t, "https://static.example/011.webp", resolver.Resolve("011", ""), "missing is per url")
}

func TestResolveAsyncUsesAvatarResolver(t *testing.T) {
	t.Parallel()

	avatar := &fakeAvatar{url: "https://api.vrchat.cloud/file_1/image.png"}
	resolver := imageres.New(imageres.Config{StaticBase: "https://static.example"}, nil, avatar, nil)
	resolver.SetTombstones(domain.NewIDSet("001"))

	assert.Equal(t, "https://static.example/001.webp", resolver.Resolve("001", vrchatHint), "sync path never looks up")

	got, err := resolver.ResolveAsync(context.Background(), "001", vrchatHint)
	require.NoError(t, err)
	assert.Equal(t, avatar.url, got)
	assert.Equal(t, avatar.url, resolver.Resolve("001", vrchatHint), "cached after lookup")

	_, err = resolver.ResolveAsync(context.Background(), "001", vrchatHint)
	require.NoError(t, err)
	assert.Equal(t, int32(1), avatar.calls.Load())
}

func TestResolveAsyncFallsThroughOnFailure(t *testing.T) {
	t.Parallel()

	avatar := &fakeAvatar{err: errors.New("timeout")}
	resolver := imageres.New(imageres.Config{StaticBase: "https://static.example"}, memCache{"005": "data:x"}, avatar, nil)

	got, err := resolver.ResolveAsync(context.Background(), "005", vrchatHint)
	require.NoError(t, err)
	assert.Equal(t, "data:x", got)
}

func TestResolveAsyncCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newResolver(&fakeAvatar{}, nil).ResolveAsync(ctx, "001", vrchatHint)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPrefetch(t *testing.T) {
	t.Parallel()

	avatar := &fakeAvatar{url: "https://api.vrchat.cloud/file_2/image.png"}
	resolver := imageres.New(imageres.Config{}, nil, avatar, nil)

	entries := []catalog.Entry{
		{ID: "001", AvatarURL: vrchatHint},
		{ID: "002", AvatarURL: vrchatHint},
		{ID: "003", AvatarURL: "https://example.com/no-avatar"},
		{ID: "004", AvatarURL: "https://vrchat.com/home/avatar/avtr_ffff"},
	}

	resolved, err := resolver.Prefetch(context.Background(), entries)
	require.NoError(t, err)
	assert.Equal(t, 2, resolved)
	assert.Equal(t, int32(2), avatar.calls.Load())
	assert.Equal(t, avatar.url, resolver.Resolve("002", vrchatHint))
}

func TestPrefetchSkipsRecentFailures(t *testing.T) {
	t.Parallel()

	avatar := &fakeAvatar{err: errors.New("page gone")}
	resolver := imageres.New(imageres.Config{StaticBase: "https://static.example"}, nil, avatar, nil)
	entries := []catalog.Entry{{ID: "001", AvatarURL: vrchatHint}}

	for range 2 {
		resolved, err := resolver.Prefetch(context.Background(), entries)
		require.NoError(t, err)
		assert.Zero(t, resolved)
	}

	assert.Equal(t, int32(1), avatar.calls.Load())

	got, err := resolver.ResolveAsync(context.Background(), "001", vrchatHint)
	require.NoError(t, err)
	assert.Equal(t, "https://static.example/001.webp", got)
	assert.Equal(t, int32(1), avatar.calls.Load())
}

func TestFailedLookupRetriedAfterExpiry(t *testing.T) {
	t.Parallel()

	avatar := &fakeAvatar{err: errors.New("page gone")}
	resolver := imageres.New(imageres.Config{RetryAfter: time.Millisecond}, nil, avatar, nil)
	entries := []catalog.Entry{{ID: "001", AvatarURL: vrchatHint}}

	_, err := resolver.Prefetch(context.Background(), entries)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = resolver.Prefetch(context.Background(), entries)
	require.NoError(t, err)
	assert.Equal(t, int32(2), avatar.calls.Load())
}

// ctxAvatar fails only while the caller's context is done.
type ctxAvatar struct {
	url   string
	calls atomic.Int32
}

func (c *ctxAvatar) Resolve(ctx context.Context, _ string, _ int) (string, error) {
	c.calls.Add(1)

	if err := ctx.Err(); err != nil {
		return "", err
	}

	return c.url, nil
}

func TestCancelledLookupNotRemembered(t *testing.T) {
	t.Parallel()

	avatar := &ctxAvatar{url: "https://api.vrchat.cloud/file_3/image.png"}
	resolver := imageres.New(imageres.Config{}, nil, avatar, nil)
	entries := []catalog.Entry{{ID: "001", AvatarURL: vrchatHint}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _ = resolver.Prefetch(ctx, entries)

	resolved, err := resolver.Prefetch(context.Background(), entries)
	require.NoError(t, err)
	assert.Equal(t, 1, resolved)
	assert.Equal(t, avatar.url, resolver.Resolve("001", vrchatHint))
}

func TestResolveConcurrentUse(t *testing.T) {
	t.Parallel()

	resolver := newResolver(&fakeAvatar{url: "https://x.example/a.png"}, nil)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			resolver.SetVersion("v")
			_ = resolver.Resolve("001", vrchatHint)
			_, _ = resolver.ResolveAsync(context.Background(), "001", vrchatHint)
			resolver.MarkMissing("https://nowhere/" + imageres.ID3(string(rune('0'+i))))
		}()
	}

	wg.Wait()
}

type statusProber map[string]int

func (p statusProber) Head(_ context.Context, url string) (int, error) {
	if status, ok := p[url]; ok {
		return status, nil
	}

	return http.StatusOK, nil
}

func TestVerifyMarksMissing(t *testing.T) {
	t.Parallel()

	resolver := newResolver(nil, nil)
	prober := statusProber{
		"https://cdn.example/images/010.webp":    http.StatusNotFound,
		"https://static.example/images/010.webp": http.StatusNotFound,
	}

	got, err := resolver.Verify(context.Background(), prober, "010", "")
	require.NoError(t, err)
	assert.Empty(t, got, "placeholder once every candidate is missing")
	assert.Empty(t, resolver.Resolve("010", ""))

	got, err = resolver.Verify(context.Background(), prober, "011", "")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/images/011.webp", got)
}

func TestID3(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "001", imageres.ID3("1"))
	assert.Equal(t, "012", imageres.ID3("12"))
	assert.Equal(t, "1234", imageres.ID3("1234"))
}
