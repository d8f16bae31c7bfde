package driving

import "github.com/custodia-labs/chatsift/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings with defaults applied.
	Get() domain.Settings

	// Set validates and persists a single setting by key.
	Set(key, value string) error

	// Reset removes a setting so its default applies.
	Reset(key string) error

	// Path returns where settings are stored.
	Path() string
}
