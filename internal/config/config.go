// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package config loads runtime settings. Later layers override earlier ones:
// built-in defaults, config.toml, .env, AKYODEX_* environment, CLI flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/akyodex/akyodex/internal/domain"
	"github.com/akyodex/akyodex/internal/platform"
	"github.com/akyodex/akyodex/internal/prefs"
	"github.com/akyodex/akyodex/internal/scroll"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "AKYODEX_"

// FileName is the config file name under the XDG config directory.
const FileName = "config.toml"

// ErrInvalidConfig wraps validation failures.
var ErrInvalidConfig = errors.New("invalid configuration")

// Duration is a time.Duration read from strings such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("duration %q: %w", text, err)
	}

	d.Duration = parsed

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// RenderConfig tunes the virtual scroll controller.
type RenderConfig struct {
	Initial   int `toml:"initial"   env:"INITIAL"`
	Step      int `toml:"step"      env:"STEP"`
	Threshold int `toml:"threshold" env:"THRESHOLD"`
}

// LogConfig selects the log level and file.
type LogConfig struct {
	Level string `toml:"level" env:"LEVEL"`
	File  string `toml:"file"  env:"FILE"`
}

// Config holds every runtime setting.
type Config struct {
	Language string `toml:"language" env:"LANGUAGE"`

	DataBaseURL   string `toml:"data_base_url"   env:"DATA_BASE_URL"`
	CDNBase       string `toml:"cdn_base"        env:"CDN_BASE"`
	StaticBase    string `toml:"static_base"     env:"STATIC_BASE"`
	ManifestURL   string `toml:"manifest_url"    env:"MANIFEST_URL"`
	RedisURL      string `toml:"redis_url"       env:"REDIS_URL"`
	RedisKey      string `toml:"redis_key"       env:"REDIS_KEY"`
	VRChatBaseURL string `toml:"vrchat_base_url" env:"VRCHAT_BASE_URL"`

	CacheDB        string `toml:"cache_db"        env:"CACHE_DB"`
	FavoritesFile  string `toml:"favorites_file"  env:"FAVORITES_FILE"`
	TombstonesFile string `toml:"tombstones_file" env:"TOMBSTONES_FILE"`

	Render           RenderConfig `toml:"render" envPrefix:"RENDER_"`
	SampleSize       int          `toml:"sample_size"       env:"SAMPLE_SIZE"`
	PrefetchWorkers  int          `toml:"prefetch_workers"  env:"PREFETCH_WORKERS"`
	Timeout          Duration     `toml:"timeout"           env:"TIMEOUT"`
	ImageTimeout     Duration     `toml:"image_timeout"     env:"IMAGE_TIMEOUT"`
	WatchDebounce    Duration     `toml:"watch_debounce"    env:"WATCH_DEBOUNCE"`
	ServeAddr        string       `toml:"serve_addr"        env:"SERVE_ADDR"`
	Log              LogConfig    `toml:"log" envPrefix:"LOG_"`
	DisableWatch     bool         `toml:"disable_watch"     env:"DISABLE_WATCH"`
	DisableImageScan bool         `toml:"disable_image_scan" env:"DISABLE_IMAGE_SCAN"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Language:       domain.LangJapanese,
		DataBaseURL:    "https://akyodex.com/data",
		CDNBase:        "https://images.akyodex.com",
		StaticBase:     "https://akyodex.com/images",
		VRChatBaseURL:  "https://vrchat.com/home/avatar/",
		CacheDB:        filepath.Join(platform.CacheDir(), "cache.db"),
		FavoritesFile:  filepath.Join(platform.DataDir(), prefs.FavoritesFile),
		TombstonesFile: filepath.Join(platform.DataDir(), prefs.TombstonesFile),
		Render: RenderConfig{
			Initial:   scroll.DefaultInitial,
			Step:      scroll.DefaultStep,
			Threshold: scroll.DefaultThreshold,
		},
		SampleSize:      20,
		PrefetchWorkers: 4,
		Timeout:         Duration{15 * time.Second},
		ImageTimeout:    Duration{30 * time.Second},
		WatchDebounce:   Duration{prefs.DefaultDebounce},
		ServeAddr:       "127.0.0.1:8080",
		Log:             LogConfig{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/akyodex/config.toml.
func DefaultPath() string {
	return filepath.Join(platform.ConfigDir(), FileName)
}

// Load layers config.toml at path (DefaultPath when empty), a .env file in
// the working directory and AKYODEX_* variables over Default. A missing file
// is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}

	if err := cfg.loadFile(platform.ExpandPath(path)); err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env: %w", err)
	}

	if err := cfg.LoadEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadEnv applies AKYODEX_* variables; unset variables leave fields unchanged.
func (c *Config) LoadEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return nil
}

// Validate checks ranges and normalizes paths.
func (c *Config) Validate() error {
	c.Language = strings.ToLower(strings.TrimSpace(c.Language))
	if c.Language != domain.LangJapanese && c.Language != domain.LangEnglish {
		return fmt.Errorf("%w: language %q must be ja or en", ErrInvalidConfig, c.Language)
	}

	if c.DataBaseURL == "" {
		return fmt.Errorf("%w: data_base_url is empty", ErrInvalidConfig)
	}

	if c.Render.Initial <= 0 || c.Render.Step <= 0 || c.Render.Threshold < 0 {
		return fmt.Errorf("%w: render limits must be positive", ErrInvalidConfig)
	}

	if c.SampleSize <= 0 {
		return fmt.Errorf("%w: sample_size must be positive", ErrInvalidConfig)
	}

	c.CacheDB = platform.ExpandPath(c.CacheDB)
	c.FavoritesFile = platform.ExpandPath(c.FavoritesFile)
	c.TombstonesFile = platform.ExpandPath(c.TombstonesFile)
	c.Log.File = platform.ExpandPath(c.Log.File)

	return nil
}

// Save writes the config as TOML to path.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := platform.AtomicWriteFile(path, data); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
