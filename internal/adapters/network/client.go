// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package network provides the HTTP client shared by the remote adapters.
package network

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultMaxBody caps response bodies read into memory.
const DefaultMaxBody = 32 << 20

// ErrUnexpectedStatus is wrapped by errors for non-2xx responses.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Response is a fully read HTTP response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// HTTPClient wraps http.Client with proxy support and bounded reads.
type HTTPClient struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// NewHTTPClient creates a new HTTP client with timeout.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
			},
		},
		userAgent: "akyodex/1.0",
		maxBody:   DefaultMaxBody,
	}
}

// WithHTTPClient replaces the underlying client, e.g. with an httptest one.
func (c *HTTPClient) WithHTTPClient(client *http.Client) *HTTPClient {
	c.client = client

	return c
}

// WithUserAgent sets the User-Agent header.
func (c *HTTPClient) WithUserAgent(userAgent string) *HTTPClient {
	c.userAgent = userAgent

	return c
}

// Get fetches url and reads the body. Non-2xx statuses return the response
// together with an error wrapping ErrUnexpectedStatus.
func (c *HTTPClient) Get(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	result := &Response{Status: resp.StatusCode, Header: resp.Header, Body: body}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, fmt.Errorf("%w %d from %s", ErrUnexpectedStatus, resp.StatusCode, url)
	}

	return result, nil
}

// Head returns the status code of a HEAD request to url.
func (c *HTTPClient) Head(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to probe %s: %w", url, err)
	}

	_ = resp.Body.Close()

	return resp.StatusCode, nil
}

// DownloadDataURI fetches url and encodes the body as a base64 data URI.
func (c *HTTPClient) DownloadDataURI(ctx context.Context, url string) (string, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}

	mediaType := resp.Header.Get("Content-Type")
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = mediaType[:i]
	}

	if mediaType == "" {
		mediaType = http.DetectContentType(resp.Body)
	}

	if !strings.HasPrefix(mediaType, "image/") {
		return "", fmt.Errorf("download %s: not an image (%s)", url, mediaType)
	}

	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(resp.Body), nil
}
