package memory

import (
	"sync"

	"github.com/custodia-labs/chatsift/internal/core/domain"
	"github.com/custodia-labs/chatsift/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps configuration in memory. It serves tests and stands in
// for the TOML file when ~/.chatsift cannot be used.
//
// Values are layered: explicit Sets override seeded defaults, and Delete
// drops the override so the default shows through again.
type ConfigStore struct {
	mu        sync.RWMutex
	defaults  map[string]any
	overrides map[string]any
}

// NewConfigStore creates an empty store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		defaults:  map[string]any{},
		overrides: map[string]any{},
	}
}

// NewDefaultConfigStore creates a store seeded with the chatsift defaults,
// so readers see the same values a fresh config file would produce.
func NewDefaultConfigStore() *ConfigStore {
	s := NewConfigStore()
	d := domain.DefaultSettings()
	s.defaults[domain.SettingSearchLimit] = d.SearchLimit
	s.defaults[domain.SettingUseIndex] = d.UseIndex
	s.defaults[domain.SettingPreviewLength] = d.PreviewLength
	return s
}

// Get returns the override for key, else its default.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.overrides[key]; ok {
		return v, true
	}
	v, ok := s.defaults[key]
	return v, ok
}

// GetString returns key as a string, or "" when absent or not a string.
func (s *ConfigStore) GetString(key string) string {
	v, _ := lookup[string](s, key)
	return v
}

// GetInt returns key as an int. Any integer width is accepted, as are
// whole float64 values from decoded documents.
func (s *ConfigStore) GetInt(key string) int {
	raw, ok := s.Get(key)
	if !ok {
		return 0
	}
	switch v := raw.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// GetBool returns key as a bool, or false.
func (s *ConfigStore) GetBool(key string) bool {
	v, _ := lookup[bool](s, key)
	return v
}

// Set overrides key.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[key] = value
	return nil
}

// Delete removes the override for key.
func (s *ConfigStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, key)
	return nil
}

// Overridden reports whether key was set explicitly.
func (s *ConfigStore) Overridden(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.overrides[key]
	return ok
}

// Load is a no-op; there is nothing to read.
func (s *ConfigStore) Load() error {
	return nil
}

// Path reports that settings are not persisted.
func (s *ConfigStore) Path() string {
	return ":memory:"
}

func lookup[T any](s *ConfigStore, key string) (T, bool) {
	var zero T
	raw, ok := s.Get(key)
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}
