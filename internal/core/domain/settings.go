package domain

// Configuration keys persisted by the ConfigStore.
const (
	SettingDefaultArchive = "archive.default"
	SettingSearchLimit    = "search.limit"
	SettingUseIndex       = "search.use_index"
	SettingPreviewLength  = "preview.length"
)

// Default setting values.
const (
	DefaultSearchLimit   = 20
	DefaultPreviewLength = 150
)

// Settings holds user-configurable behaviour.
type Settings struct {
	// DefaultArchive is loaded when no --archive flag is given.
	DefaultArchive string

	// SearchLimit is the default number of results shown.
	SearchLimit int

	// UseIndex enables token-index candidate pruning during search.
	UseIndex bool

	// PreviewLength is the snippet width used for smart previews.
	PreviewLength int
}

// DefaultSettings returns settings with defaults applied.
func DefaultSettings() Settings {
	return Settings{
		SearchLimit:   DefaultSearchLimit,
		UseIndex:      true,
		PreviewLength: DefaultPreviewLength,
	}
}

// SettingKeys lists every known configuration key.
func SettingKeys() []string {
	return []string{
		SettingDefaultArchive,
		SettingSearchLimit,
		SettingUseIndex,
		SettingPreviewLength,
	}
}
