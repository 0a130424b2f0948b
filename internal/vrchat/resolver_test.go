// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package vrchat_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akyodex/akyodex/internal/adapters/network"
	"github.com/akyodex/akyodex/internal/vrchat"
)

const page = `<!doctype html><html><head>
<meta property="og:title" content="Choco Akyo">
<meta property="og:image" content="https://files.vrchat.example/thumb/avtr_01.png">
</head><body></body></html>`

func TestExtractImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
		err  error
	}{
		{name: "og image", html: page, want: "https://files.vrchat.example/thumb/avtr_01.png"},
		{
			name: "twitter fallback",
			html: `<meta property="og:image" content="javascript:void(0)"><meta name="twitter:image" content="https://t.example/a.png">`,
			want: "https://t.example/a.png",
		},
		{name: "none", html: `<html><head></head></html>`, err: vrchat.ErrNoImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := vrchat.ExtractImage([]byte(tt.html))
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://a.example/x.png", vrchat.WithSize("https://a.example/x.png", 0))
	assert.Equal(t, "https://a.example/x.png?width=256", vrchat.WithSize("https://a.example/x.png", 256))
}

func TestResolveScrapesPage(t *testing.T) {
	t.Parallel()

	var requested atomic.Value

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested.Store(r.URL.Path)
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(server.Close)

	resolver := vrchat.NewResolver(network.NewHTTPClient(5*time.Second), zap.NewNop(),
		vrchat.WithBaseURL(server.URL+"/avatar"),
		vrchat.WithRate(time.Millisecond, 10))

	got, err := resolver.Resolve(context.Background(), "https://vrchat.com/home/avatar/avtr_01", 0)
	require.NoError(t, err)
	assert.Equal(t, "https://files.vrchat.example/thumb/avtr_01.png", got)
	assert.Equal(t, "/avatar/avtr_01", requested.Load())
}

func TestResolveErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "avtr_404") {
			w.WriteHeader(http.StatusNotFound)

			return
		}

		_, _ = w.Write([]byte("<html></html>"))
	}))
	t.Cleanup(server.Close)

	resolver := vrchat.NewResolver(network.NewHTTPClient(5*time.Second), zap.NewNop(),
		vrchat.WithBaseURL(server.URL),
		vrchat.WithRate(time.Millisecond, 10))

	_, err := resolver.Resolve(context.Background(), "no id here", 0)
	require.ErrorIs(t, err, vrchat.ErrNoAvatarID)

	_, err = resolver.Resolve(context.Background(), "avtr_404", 0)
	require.ErrorIs(t, err, network.ErrUnexpectedStatus)

	_, err = resolver.Resolve(context.Background(), "avtr_200", 0)
	require.ErrorIs(t, err, vrchat.ErrNoImage)
}

func TestResolveHonorsCancellation(t *testing.T) {
	t.Parallel()

	resolver := vrchat.NewResolver(network.NewHTTPClient(time.Second), zap.NewNop(),
		vrchat.WithRate(time.Hour, 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := resolver.Resolve(ctx, "avtr_01", 0)
	require.Error(t, err)
}
