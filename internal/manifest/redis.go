// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package manifest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash holding id to URL pairs; the version token is
// stored under DefaultRedisKey+":version".
const DefaultRedisKey = "akyodex:images"

const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
	pingTimeout  = 2 * time.Second
)

// NewRedisClient parses a Redis URL and returns a client that answered PING.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.PoolSize = 4
	options.MinIdleConns = 1
	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout

	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("redis: ping failed: %w", err)
	}

	return client, nil
}

// RedisProvider reads the manifest from a Redis hash.
type RedisProvider struct {
	client redis.UniversalClient
	key    string
}

// NewRedisProvider creates a provider over client. An empty key uses
// DefaultRedisKey.
func NewRedisProvider(client redis.UniversalClient, key string) *RedisProvider {
	if key == "" {
		key = DefaultRedisKey
	}

	return &RedisProvider{client: client, key: key}
}

// Get implements domain.ManifestProvider.
func (p *RedisProvider) Get(ctx context.Context) (map[string]string, error) {
	m, err := p.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	return m.Images, nil
}

// Fetch returns the manifest with its version.
func (p *RedisProvider) Fetch(ctx context.Context) (Manifest, error) {
	images, err := p.client.HGetAll(ctx, p.key).Result()
	if err != nil {
		return Manifest{}, fmt.Errorf("redis manifest %s: %w", p.key, err)
	}

	version, err := p.client.Get(ctx, p.key+":version").Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Manifest{}, fmt.Errorf("redis manifest version: %w", err)
	}

	return Manifest{Images: clean(images), Version: version}, nil
}

// Publish writes a manifest to Redis, replacing the previous hash.
func (p *RedisProvider) Publish(ctx context.Context, m Manifest) error {
	_, err := p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, p.key)

		if len(m.Images) > 0 {
			pipe.HSet(ctx, p.key, m.Images)
		}

		if m.Version != "" {
			pipe.Set(ctx, p.key+":version", m.Version, 0)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("publish manifest: %w", err)
	}

	return nil
}
