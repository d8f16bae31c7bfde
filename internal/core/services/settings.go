package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/chatsift/internal/core/domain"
	"github.com/custodia-labs/chatsift/internal/core/ports/driven"
	"github.com/custodia-labs/chatsift/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Bounds for numeric settings.
const (
	maxSearchLimit   = 1000
	minPreviewLength = 20
	maxPreviewLength = 2000
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing or out-of-range
// values fall back to their defaults.
func (s *SettingsService) Get() domain.Settings {
	defaults := domain.DefaultSettings()

	return domain.Settings{
		DefaultArchive: s.configStore.GetString(domain.SettingDefaultArchive),
		SearchLimit:    s.getInt(domain.SettingSearchLimit, defaults.SearchLimit, 1, maxSearchLimit),
		UseIndex:       s.getBool(domain.SettingUseIndex, defaults.UseIndex),
		PreviewLength: s.getInt(
			domain.SettingPreviewLength, defaults.PreviewLength, minPreviewLength, maxPreviewLength,
		),
	}
}

// Set validates and persists a single setting.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case domain.SettingDefaultArchive:
		if value == "" {
			return fmt.Errorf("%w: %s must not be empty", domain.ErrInvalidInput, key)
		}
		return s.save(key, value)

	case domain.SettingSearchLimit:
		n, err := parseBounded(key, value, 1, maxSearchLimit)
		if err != nil {
			return err
		}
		return s.save(key, n)

	case domain.SettingPreviewLength:
		n, err := parseBounded(key, value, minPreviewLength, maxPreviewLength)
		if err != nil {
			return err
		}
		return s.save(key, n)

	case domain.SettingUseIndex:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		return s.save(key, b)

	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

// Reset removes a setting so its default applies.
func (s *SettingsService) Reset(key string) error {
	if !isSettingKey(key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := s.configStore.Delete(key); err != nil {
		return fmt.Errorf("reset %s: %w", key, err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func (s *SettingsService) save(key string, value any) error {
	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *SettingsService) getInt(key string, defaultVal, lo, hi int) int {
	val := s.configStore.GetInt(key)
	if val < lo || val > hi {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func parseBounded(key, value string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%w: %s must be between %d and %d", domain.ErrInvalidInput, key, lo, hi)
	}
	return n, nil
}

func isSettingKey(key string) bool {
	for _, k := range domain.SettingKeys() {
		if k == key {
			return true
		}
	}
	return false
}
