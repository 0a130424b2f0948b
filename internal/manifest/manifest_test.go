// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package manifest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akyodex/akyodex/internal/adapters/network"
	"github.com/akyodex/akyodex/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		images  map[string]string
		version string
	}{
		{
			name:   "bare object",
			doc:    `{"001": "https://r2.example/001.webp", "002": "javascript:alert(1)", "003": 7}`,
			images: map[string]string{"001": "https://r2.example/001.webp"},
		},
		{
			name:    "wrapped with version",
			doc:     `{"images": {"010": "https://r2.example/010.webp"}, "version": "20250501"}`,
			images:  map[string]string{"010": "https://r2.example/010.webp"},
			version: "20250501",
		},
		{
			name:   "empty",
			doc:    `{}`,
			images: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := manifest.Decode([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.images, m.Images)
			assert.Equal(t, tt.version, m.Version)
		})
	}

	_, err := manifest.Decode([]byte(`[1,2]`))
	require.Error(t, err)
}

func TestHTTPProvider(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"images": {"001": "https://r2.example/001.webp"}, "version": "7"}`))
	}))
	t.Cleanup(server.Close)

	provider := manifest.NewHTTPProvider(server.URL+"/manifest.json", network.NewHTTPClient(5*time.Second))

	images, err := provider.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://r2.example/001.webp", images["001"])

	m, err := provider.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "7", m.Version)
}

func TestHTTPProviderFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	_, err := manifest.NewHTTPProvider(server.URL, network.NewHTTPClient(5*time.Second)).Get(context.Background())
	require.ErrorIs(t, err, network.ErrUnexpectedStatus)
}

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	t.Parallel()

	_, err := manifest.NewRedisClient(context.Background(), "not-a-redis-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestNewRedisClientUnreachable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	_, err := manifest.NewRedisClient(ctx, "redis://127.0.0.1:1/0")
	require.Error(t, err)
}
