// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akyodex/akyodex/internal/catalog"
	"github.com/akyodex/akyodex/internal/domain"
	"github.com/akyodex/akyodex/internal/library"
)

const csv = "ID,見た目,通称,アバター名,属性,備考,作者,アバターURL\n" +
	"001,,チョコAkyo,ChocoAvatar,チョコミント,,ugai,\n" +
	"002,,キツネAkyo,FoxAvatar,動物,,someone,\n" +
	"010,,ドーナツAkyo,DonutAvatar,食べ物,,ugai,\n"

type fakeCatalog struct {
	snapshot *library.Snapshot
	lastView catalog.ViewState
	lastPage [2]int
}

func (f *fakeCatalog) Snapshot() *library.Snapshot { return f.snapshot }

func (f *fakeCatalog) Search(view catalog.ViewState, offset, limit int) (domain.SearchResult, error) {
	f.lastView = view
	f.lastPage = [2]int{offset, limit}

	if f.snapshot == nil {
		return domain.SearchResult{}, fmt.Errorf("not loaded: %w", domain.ErrEmptyDataset)
	}

	matches := f.snapshot.Apply(nil, view)
	result := domain.SearchResult{Total: len(matches), Lang: f.snapshot.Lang}

	for _, entry := range matches {
		result.Entries = append(result.Entries, domain.EntryResult{ID: entry.ID, Name: entry.DisplayName()})
	}

	return result, nil
}

func (f *fakeCatalog) Show(_ context.Context, id string) (domain.EntryResult, error) {
	if id == "bad" {
		return domain.EntryResult{}, domain.ErrInvalidID
	}

	entry, ok := f.snapshot.Find(id)
	if !ok {
		return domain.EntryResult{}, domain.ErrNotFound
	}

	return domain.EntryResult{ID: entry.ID, Name: entry.DisplayName()}, nil
}

func (f *fakeCatalog) Attributes() []string { return catalog.Attributes(f.snapshot.Entries) }

func (f *fakeCatalog) Creators() []string { return catalog.Creators(f.snapshot.Entries) }

func loaded(t *testing.T) *fakeCatalog {
	t.Helper()

	store := library.NewStore()
	snapshot, err := store.Commit(store.Begin(), domain.Dataset{Text: csv, Lang: "ja"}, nil)
	require.NoError(t, err)

	return &fakeCatalog{snapshot: snapshot}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rec := get(t, New(":0", &fakeCatalog{}, zap.NewNop()).Handler(), "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = get(t, New(":0", loaded(t), zap.NewNop()).Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"entries":3`)
}

func TestListAppliesQuery(t *testing.T) {
	t.Parallel()

	cat := loaded(t)
	h := New(":0", cat, zap.NewNop()).Handler()

	rec := get(t, h, "/api/akyo?creator=ugai&order=desc&limit=5&offset=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data domain.SearchResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Data.Total)
	require.Len(t, body.Data.Entries, 2)
	assert.Equal(t, "010", body.Data.Entries[0].ID)

	assert.Equal(t, "ugai", cat.lastView.Creator)
	assert.False(t, cat.lastView.SortAscending)
	assert.Equal(t, [2]int{1, 5}, cat.lastPage)

	get(t, h, "/api/akyo?q="+url.QueryEscape("ＣＨＯＣＯ"))
	assert.Equal(t, []string{"choco"}, cat.lastView.SearchTerms)

	get(t, h, "/api/akyo?limit=0")
	assert.Equal(t, maxLimit, cat.lastPage[1])
}

func TestListRejectsBadParameters(t *testing.T) {
	t.Parallel()

	h := New(":0", loaded(t), zap.NewNop()).Handler()

	for _, query := range []string{"order=up", "favorites=maybe", "limit=-1", "offset=x", "random=2"} {
		rec := get(t, h, "/api/akyo?"+query)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
		assert.Contains(t, rec.Body.String(), `"code":"bad_request"`, query)
	}
}

func TestListBeforeLoad(t *testing.T) {
	t.Parallel()

	rec := get(t, New(":0", &fakeCatalog{}, zap.NewNop()).Handler(), "/api/akyo")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetEntry(t *testing.T) {
	t.Parallel()

	h := New(":0", loaded(t), zap.NewNop()).Handler()

	tests := []struct {
		path string
		code int
	}{
		{"/api/akyo/002", http.StatusOK},
		{"/api/akyo/999", http.StatusNotFound},
		{"/api/akyo/bad", http.StatusBadRequest},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.code, get(t, h, tt.path).Code, tt.path)
	}

	assert.Contains(t, get(t, h, "/api/akyo/002").Body.String(), "キツネAkyo")
}

func TestValueLists(t *testing.T) {
	t.Parallel()

	h := New(":0", loaded(t), zap.NewNop()).Handler()

	rec := get(t, h, "/api/creators")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "someone")

	rec = get(t, h, "/api/attributes")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "動物")
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	srv := New("127.0.0.1:0", loaded(t), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)

	go func() { done <- srv.Run(ctx) }()

	cancel()
	require.NoError(t, <-done)
}
