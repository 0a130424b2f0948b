// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package vrchat derives avatar thumbnail URLs from public VRChat avatar pages.
package vrchat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/akyodex/akyodex/internal/adapters/network"
	"github.com/akyodex/akyodex/internal/catalog"
	"github.com/akyodex/akyodex/internal/imageres"
)

const (
	// DefaultBaseURL hosts the public avatar pages.
	DefaultBaseURL = "https://vrchat.com/home/avatar/"

	// DefaultTimeout bounds one lookup.
	DefaultTimeout = 30 * time.Second

	defaultInterval = 500 * time.Millisecond
	defaultBurst    = 2
)

// ErrNoAvatarID is returned when the hint carries no avtr_ identifier.
var ErrNoAvatarID = errors.New("no avatar id in hint")

// ErrNoImage is returned when the page has no usable og:image.
var ErrNoImage = errors.New("avatar page has no image")

// Fetcher is the HTTP surface used by the resolver.
type Fetcher interface {
	Get(ctx context.Context, url string) (*network.Response, error)
}

// Resolver scrapes og:image from avatar pages. Requests are throttled by a
// token bucket shared across goroutines.
type Resolver struct {
	http    Fetcher
	limiter *rate.Limiter
	logger  *zap.Logger
	baseURL string
	timeout time.Duration
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithBaseURL overrides the avatar page base URL.
func WithBaseURL(base string) Option {
	return func(r *Resolver) {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}

		r.baseURL = base
	}
}

// WithRate overrides the request rate.
func WithRate(interval time.Duration, burst int) Option {
	return func(r *Resolver) {
		r.limiter = rate.NewLimiter(rate.Every(interval), burst)
	}
}

// WithTimeout overrides the per-lookup timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Resolver) {
		r.timeout = timeout
	}
}

// NewResolver creates a resolver over http.
func NewResolver(http Fetcher, logger *zap.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		http:    http,
		limiter: rate.NewLimiter(rate.Every(defaultInterval), defaultBurst),
		logger:  logger,
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// PageURL returns the avatar page for id.
func (r *Resolver) PageURL(id string) string {
	return r.baseURL + id
}

// Resolve implements domain.AvatarResolver.
func (r *Resolver) Resolve(ctx context.Context, hint string, size int) (string, error) {
	id := imageres.AvatarID(hint)
	if id == "" {
		return "", ErrNoAvatarID
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("vrchat rate limit: %w", err)
	}

	resp, err := r.http.Get(ctx, r.PageURL(id))
	if err != nil {
		return "", fmt.Errorf("vrchat page %s: %w", id, err)
	}

	image, err := ExtractImage(resp.Body)
	if err != nil {
		r.logger.Debug("Avatar page without image", zap.String("avatar", id), zap.Error(err))

		return "", fmt.Errorf("vrchat page %s: %w", id, err)
	}

	r.logger.Debug("Avatar image resolved", zap.String("avatar", id), zap.String("url", image))

	return WithSize(image, size), nil
}

// ExtractImage returns the first absolute http(s) og:image or twitter:image
// URL in an HTML document.
func ExtractImage(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	selectors := []string{
		`meta[property="og:image"]`,
		`meta[property="og:image:url"]`,
		`meta[name="twitter:image"]`,
	}

	for _, selector := range selectors {
		var found string

		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			content, _ := s.Attr("content")
			found = catalog.SanitizeURL(strings.TrimSpace(content))

			return found == ""
		})

		if found != "" {
			return found, nil
		}
	}

	return "", ErrNoImage
}

// WithSize sets a width query parameter on thumbnail URLs. Zero leaves the
// URL untouched.
func WithSize(rawURL string, size int) string {
	if size <= 0 {
		return rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	query := parsed.Query()
	query.Set("width", strconv.Itoa(size))
	parsed.RawQuery = query.Encode()

	return parsed.String()
}
