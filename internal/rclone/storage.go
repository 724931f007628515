// Package rclone provides rclone integration functionality.
// This file implements config.Storage over an in-memory section table, used
// when the configuration is given as text or structured data instead of a file.
package rclone

import (
	"encoding/json"
	"maps"
	"slices"
	"sync"

	"github.com/rclone/rclone/fs/cache"
	"github.com/rclone/rclone/fs/config"
)

// MemoryStorage implements config.Storage for configuration that never
// touches disk. Values rclone writes back (refreshed OAuth tokens, for
// instance) live for the lifetime of the process only.
type MemoryStorage struct {
	mu       sync.RWMutex
	sections Sections
}

// NewMemoryStorage creates a storage holding a copy of sections.
func NewMemoryStorage(sections Sections) *MemoryStorage {
	return &MemoryStorage{sections: sections.Clone()}
}

// Install sets this storage as the active rclone configuration storage.
func (s *MemoryStorage) Install() {
	config.SetData(s)
}

// GetSectionList returns the remote names in sorted order.
func (s *MemoryStorage) GetSectionList() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.sections))
}

// HasSection checks if a remote with the given name exists.
func (s *MemoryStorage) HasSection(section string) bool {
	if section == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sections[section]
	return ok
}

// DeleteSection removes a remote and clears its cached Fs instances.
func (s *MemoryStorage) DeleteSection(section string) {
	s.mu.Lock()
	delete(s.sections, section)
	s.mu.Unlock()

	cache.ClearConfig(section)
}

// GetKeyList returns all configuration keys for a remote.
func (s *MemoryStorage) GetKeyList(section string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.sections[section]))
}

// GetValue retrieves a configuration value for a remote.
func (s *MemoryStorage) GetValue(section, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values, ok := s.sections[section]
	if !ok {
		return "", false
	}
	value, ok := values[key]
	return value, ok
}

// SetValue sets a configuration value, creating the remote if needed.
func (s *MemoryStorage) SetValue(section, key, value string) {
	s.mu.Lock()
	if s.sections == nil {
		s.sections = make(Sections)
	}
	values, ok := s.sections[section]
	if !ok {
		values = make(map[string]string)
		s.sections[section] = values
	}
	values[key] = value
	s.mu.Unlock()

	// Clear cache so rclone reloads the config
	cache.ClearConfig(section)
}

// DeleteKey removes a configuration key from a remote.
func (s *MemoryStorage) DeleteKey(section, key string) bool {
	s.mu.Lock()
	values, ok := s.sections[section]
	if ok {
		_, ok = values[key]
		delete(values, key)
	}
	s.mu.Unlock()

	if ok {
		cache.ClearConfig(section)
	}
	return ok
}

// Load is a no-op: the sections are already in memory.
func (s *MemoryStorage) Load() error {
	return nil
}

// Save is a no-op: there is nowhere to persist to.
func (s *MemoryStorage) Save() error {
	return nil
}

// Serialize returns all remotes as JSON, as `rclone config dump` does.
func (s *MemoryStorage) Serialize() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.sections) == 0 {
		return "{}", nil
	}

	data, err := json.MarshalIndent(s.sections, "", "  ")
	if err != nil {
		return "{}", err
	}
	return string(data), nil
}

// Sections returns a copy of the stored remotes.
func (s *MemoryStorage) Sections() Sections {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sections.Clone()
}

// Ensure MemoryStorage implements config.Storage interface
var _ config.Storage = (*MemoryStorage)(nil)
