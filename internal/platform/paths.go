// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package platform provides XDG paths and file helpers for Akyodex.
package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName names the per-application XDG subdirectories.
const AppName = "akyodex"

// GetXDGConfigHome returns XDG config directory.
func GetXDGConfigHome() string {
	return GetXDGConfigHomeWithEnv(os.Getenv("XDG_CONFIG_HOME"))
}

// GetXDGConfigHomeWithEnv returns XDG config directory with custom environment override for testing.
func GetXDGConfigHomeWithEnv(xdgConfigHome string) string {
	return xdgDir(xdgConfigHome, ".config")
}

// GetXDGDataHome returns XDG data directory.
func GetXDGDataHome() string {
	return GetXDGDataHomeWithEnv(os.Getenv("XDG_DATA_HOME"))
}

// GetXDGDataHomeWithEnv returns XDG data directory with custom environment override for testing.
func GetXDGDataHomeWithEnv(xdgDataHome string) string {
	return xdgDir(xdgDataHome, ".local", "share")
}

// GetXDGStateHome returns XDG state directory.
func GetXDGStateHome() string {
	return GetXDGStateHomeWithEnv(os.Getenv("XDG_STATE_HOME"))
}

// GetXDGStateHomeWithEnv returns XDG state directory with custom environment override for testing.
func GetXDGStateHomeWithEnv(xdgStateHome string) string {
	return xdgDir(xdgStateHome, ".local", "state")
}

// GetXDGCacheHome returns XDG cache directory.
func GetXDGCacheHome() string {
	return GetXDGCacheHomeWithEnv(os.Getenv("XDG_CACHE_HOME"))
}

// GetXDGCacheHomeWithEnv returns XDG cache directory with custom environment override for testing.
func GetXDGCacheHomeWithEnv(xdgCacheHome string) string {
	return xdgDir(xdgCacheHome, ".cache")
}

func xdgDir(override string, fallback ...string) string {
	if override != "" {
		return override
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(append([]string{home}, fallback...)...)
	}

	return ""
}

// ConfigDir is where config.toml lives.
func ConfigDir() string {
	return filepath.Join(GetXDGConfigHome(), AppName)
}

// DataDir holds favorites and tombstones.
func DataDir() string {
	return filepath.Join(GetXDGDataHome(), AppName)
}

// StateDir holds the log file.
func StateDir() string {
	return filepath.Join(GetXDGStateHome(), AppName)
}

// CacheDir holds the SQLite cache.
func CacheDir() string {
	return filepath.Join(GetXDGCacheHome(), AppName)
}

// ExpandPath expands ~ and the XDG variables.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}

	prefixes := []struct {
		name string
		dir  func() string
	}{
		{"$XDG_CONFIG_HOME", GetXDGConfigHome},
		{"$XDG_DATA_HOME", GetXDGDataHome},
		{"$XDG_STATE_HOME", GetXDGStateHome},
		{"$XDG_CACHE_HOME", GetXDGCacheHome},
	}

	for _, prefix := range prefixes {
		if after, found := strings.CutPrefix(path, prefix.name); found {
			return prefix.dir() + after
		}
	}

	return path
}
