// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package prefs persists the favorites and image tombstone id sets as TOML
// files shared between akyodex processes.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/akyodex/akyodex/internal/domain"
	"github.com/akyodex/akyodex/internal/platform"
	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
)

// File names under platform.DataDir.
const (
	FavoritesFile  = "favorites.toml"
	TombstonesFile = "tombstones.toml"
)

// ErrLocked is returned when the preference file lock cannot be taken.
var ErrLocked = errors.New("preference file is locked")

type document struct {
	IDs       []string  `toml:"ids"`
	UpdatedAt time.Time `toml:"updated_at"`
}

// FileStore is a domain.IDStore backed by a TOML file. Every operation
// takes an advisory lock on path+".lock", so concurrent processes never
// interleave a read-modify-write. The last writer wins.
type FileStore struct {
	path string
	mu   sync.Mutex // flock is per process; mu orders goroutines
	lock *flock.Flock
	now  func() time.Time
}

// NewFileStore creates a store for path. The file is created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
		now:  time.Now,
	}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the stored set; a missing file is an empty set.
func (s *FileStore) Get() (domain.IDSet, error) {
	if err := s.ensureDir(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.RLock(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLocked, s.path, err)
	}

	defer func() {
		_ = s.lock.Unlock()
	}()

	return s.read()
}

// Set replaces the stored set.
func (s *FileStore) Set(ids domain.IDSet) error {
	return s.update(func(domain.IDSet) domain.IDSet { return ids })
}

// Add inserts ids and returns the resulting set.
func (s *FileStore) Add(ids ...string) (domain.IDSet, error) {
	var result domain.IDSet

	err := s.update(func(current domain.IDSet) domain.IDSet {
		for _, id := range ids {
			current[id] = struct{}{}
		}

		result = current

		return current
	})

	return result, err
}

// Remove deletes ids and returns the resulting set.
func (s *FileStore) Remove(ids ...string) (domain.IDSet, error) {
	var result domain.IDSet

	err := s.update(func(current domain.IDSet) domain.IDSet {
		for _, id := range ids {
			delete(current, id)
		}

		result = current

		return current
	})

	return result, err
}

// Toggle flips membership of id and reports whether it is now present.
func (s *FileStore) Toggle(id string) (bool, error) {
	var present bool

	err := s.update(func(current domain.IDSet) domain.IDSet {
		if current.Has(id) {
			delete(current, id)
		} else {
			current[id] = struct{}{}
			present = true
		}

		return current
	})

	return present, err
}

func (s *FileStore) update(mutate func(domain.IDSet) domain.IDSet) error {
	if err := s.ensureDir(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLocked, s.path, err)
	}

	defer func() {
		_ = s.lock.Unlock()
	}()

	current, err := s.read()
	if err != nil {
		return err
	}

	next := mutate(current)

	data, err := toml.Marshal(document{IDs: next.Sorted(), UpdatedAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.path, err)
	}

	return platform.AtomicWriteFile(s.path, data)
}

func (s *FileStore) read() (domain.IDSet, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NewIDSet(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}

	return domain.NewIDSet(doc.IDs...), nil
}

func (s *FileStore) ensureDir() error {
	if err := platform.EnsureDir(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", s.path, err)
	}

	return nil
}
