// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package application wires adapters into the catalog service shared by the
// CLI, the TUI and the JSON API.
package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/akyodex/akyodex/internal/adapters/network"
	"github.com/akyodex/akyodex/internal/catalog"
	"github.com/akyodex/akyodex/internal/config"
	"github.com/akyodex/akyodex/internal/dataset"
	"github.com/akyodex/akyodex/internal/imageres"
	"github.com/akyodex/akyodex/internal/library"
	"github.com/akyodex/akyodex/internal/manifest"
	"github.com/akyodex/akyodex/internal/prefs"
	"github.com/akyodex/akyodex/internal/store"
	"github.com/akyodex/akyodex/internal/vrchat"
)

// ManifestSource yields the image manifest together with its version.
type ManifestSource interface {
	Fetch(ctx context.Context) (manifest.Manifest, error)
}

// Services holds the constructed adapters.
type Services struct {
	Config     *config.Config
	Logger     *zap.Logger
	HTTP       *network.HTTPClient
	Cache      *store.Store
	Source     *dataset.Source
	Loader     *library.Loader
	Favorites  *prefs.FileStore
	Tombstones *prefs.FileStore
	Images     *imageres.Resolver
	Avatars    *vrchat.Resolver
	Manifest   ManifestSource
	Engine     *catalog.Engine

	redis *redis.Client
}

// NewServices builds every adapter from cfg. Optional backends that fail to
// start (cache database, Redis) are logged and replaced by a degraded mode.
func NewServices(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Services, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Services{
		Config: cfg,
		Logger: logger,
		HTTP:   network.NewHTTPClient(cfg.Timeout.Duration),
		Engine: &catalog.Engine{SampleSize: cfg.SampleSize},
	}

	cache, err := store.Open(cfg.CacheDB)
	if err != nil {
		logger.Warn("cache database unavailable, using memory", zap.String("path", cfg.CacheDB), zap.Error(err))

		cache, err = store.Open(store.MemoryPath)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
	}

	s.Cache = cache
	s.Favorites = prefs.NewFileStore(cfg.FavoritesFile)
	s.Tombstones = prefs.NewFileStore(cfg.TombstonesFile)
	s.Source = dataset.NewSource(cfg.DataBaseURL, s.HTTP, cache, logger.Named("dataset"))
	s.Loader = library.NewLoader(library.NewStore(), s.Source, s.Favorites, logger.Named("library"))

	s.Avatars = vrchat.NewResolver(s.HTTP, logger.Named("vrchat"),
		vrchat.WithBaseURL(cfg.VRChatBaseURL),
		vrchat.WithTimeout(cfg.ImageTimeout.Duration))

	s.Images = imageres.New(imageres.Config{
		CDNBase:    cfg.CDNBase,
		StaticBase: cfg.StaticBase,
		Timeout:    cfg.ImageTimeout.Duration,
		Workers:    cfg.PrefetchWorkers,
	}, cache, s.Avatars, logger.Named("images"))

	s.Manifest = s.manifestSource(ctx)

	return s, nil
}

func (s *Services) manifestSource(ctx context.Context) ManifestSource {
	if s.Config.RedisURL != "" {
		client, err := manifest.NewRedisClient(ctx, s.Config.RedisURL)
		if err == nil {
			s.redis = client

			return manifest.NewRedisProvider(client, s.Config.RedisKey)
		}

		s.Logger.Warn("redis manifest unavailable", zap.Error(err))
	}

	if s.Config.ManifestURL != "" {
		return manifest.NewHTTPProvider(s.Config.ManifestURL, s.HTTP)
	}

	return nil
}

// Close releases the cache database and the Redis client.
func (s *Services) Close() error {
	var errs []error

	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}

	if s.Cache != nil {
		errs = append(errs, s.Cache.Close())
	}

	_ = s.Logger.Sync()

	return errors.Join(errs...)
}

// WithTimeout applies the configured network timeout to ctx.
func (s *Services) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Config.Timeout.Duration > 0 {
		return context.WithTimeout(ctx, s.Config.Timeout.Duration)
	}

	return ctx, func() {}
}
