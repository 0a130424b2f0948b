// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package dataset_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akyodex/akyodex/internal/adapters/network"
	"github.com/akyodex/akyodex/internal/dataset"
	"github.com/akyodex/akyodex/internal/domain"
	"github.com/akyodex/akyodex/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const body = "ID,見た目,通称,アバター名,属性,備考,作者,アバターURL\n001,,a,b,c,,d,\n"

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return server
}

func openCache(t *testing.T) *store.Store {
	t.Helper()

	cache, err := store.Open(store.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	return cache
}

func TestFetchNetworkFirst(t *testing.T) {
	t.Parallel()

	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/akyo-data-ja.csv", r.URL.Path)
		w.Header().Set(dataset.RowCountHeader, "1")
		_, _ = w.Write([]byte("\ufeff" + body))
	})

	cache := openCache(t)
	source := dataset.NewSource(server.URL+"/data/", network.NewHTTPClient(5*time.Second), cache, nil)

	got, err := source.Fetch(context.Background(), "ja")
	require.NoError(t, err)
	assert.Equal(t, body, got.Text, "byte order mark stripped")
	assert.Equal(t, 1, got.RowCountHint)
	assert.False(t, got.FromCache)

	cached, ok, err := cache.LoadDataset(context.Background(), "ja")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, body, cached.Text)
}

func TestFetchFallsBackToCache(t *testing.T) {
	t.Parallel()

	server := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	cache := openCache(t)
	require.NoError(t, cache.SaveDataset(context.Background(), domain.Dataset{Text: body, Lang: "ja"}))

	source := dataset.NewSource(server.URL, network.NewHTTPClient(5*time.Second), cache, nil)

	got, err := source.Fetch(context.Background(), "ja")
	require.NoError(t, err)
	assert.True(t, got.FromCache)
	assert.Equal(t, "ja", got.Lang)
}

func TestFetchFallsBackToOtherLanguage(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32

	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)

		if r.URL.Path == "/akyo-data-en.csv" {
			http.NotFound(w, r)

			return
		}

		_, _ = w.Write([]byte(body))
	})

	source := dataset.NewSource(server.URL, network.NewHTTPClient(5*time.Second), nil, nil)

	got, err := source.Fetch(context.Background(), "en")
	require.NoError(t, err)
	assert.Equal(t, "ja", got.Lang)
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetchAllFallbacksExhausted(t *testing.T) {
	t.Parallel()

	server := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("  \n"))
	})

	source := dataset.NewSource(server.URL, network.NewHTTPClient(5*time.Second), openCache(t), nil)

	_, err := source.Fetch(context.Background(), "ja")
	require.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestFetchWithoutBaseURLUsesCache(t *testing.T) {
	t.Parallel()

	cache := openCache(t)
	require.NoError(t, cache.SaveDataset(context.Background(), domain.Dataset{Text: body, Lang: "en"}))

	source := dataset.NewSource("", network.NewHTTPClient(time.Second), cache, nil)

	got, err := source.Fetch(context.Background(), "ja")
	require.NoError(t, err)
	assert.Equal(t, "en", got.Lang)
	assert.True(t, got.FromCache)
}

func TestURL(t *testing.T) {
	t.Parallel()

	source := dataset.NewSource("https://akyodex.example/data/", nil, nil, nil)
	assert.Equal(t, "https://akyodex.example/data/akyo-data-en.csv", source.URL("en"))
}

func TestFetchRejectsNonDatasetBody(t *testing.T) {
	t.Parallel()

	var phase atomic.Int32

	server := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		switch phase.Load() {
		case 0:
			_, _ = w.Write([]byte(body))
		case 1:
			_, _ = w.Write([]byte("<html><body>Scheduled maintenance</body></html>\n"))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	})

	cache := openCache(t)
	source := dataset.NewSource(server.URL, network.NewHTTPClient(5*time.Second), cache, nil)

	got, err := source.Fetch(context.Background(), "ja")
	require.NoError(t, err)
	assert.False(t, got.FromCache)

	// The maintenance page falls through to the cached copy and leaves it intact.
	phase.Store(1)

	got, err = source.Fetch(context.Background(), "ja")
	require.NoError(t, err)
	assert.True(t, got.FromCache)
	assert.Equal(t, body, got.Text)

	phase.Store(2)

	got, err = source.Fetch(context.Background(), "ja")
	require.NoError(t, err)
	assert.True(t, got.FromCache)
	assert.Equal(t, body, got.Text)

	cached, ok, err := cache.LoadDataset(context.Background(), "ja")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, body, cached.Text)
}

func TestFetchSkipsUnusableCache(t *testing.T) {
	t.Parallel()

	server := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	cache := openCache(t)
	require.NoError(t, cache.SaveDataset(context.Background(), domain.Dataset{Text: "<html></html>", Lang: "ja"}))
	require.NoError(t, cache.SaveDataset(context.Background(), domain.Dataset{Text: body, Lang: "en"}))

	source := dataset.NewSource(server.URL, network.NewHTTPClient(5*time.Second), cache, nil)

	got, err := source.Fetch(context.Background(), "ja")
	require.NoError(t, err)
	assert.Equal(t, "en", got.Lang)
	assert.True(t, got.FromCache)
}
