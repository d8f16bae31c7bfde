package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chatsift/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/chatsift/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NotNil(t, service)
	assert.Equal(t, ":memory:", service.Path())
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	assert.Equal(t, domain.DefaultSettings(), service.Get())
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set(domain.SettingDefaultArchive, "/data/export.zip")
	_ = store.Set(domain.SettingSearchLimit, int64(50))
	_ = store.Set(domain.SettingUseIndex, false)
	_ = store.Set(domain.SettingPreviewLength, 80)

	settings := NewSettingsService(store).Get()

	assert.Equal(t, domain.Settings{
		DefaultArchive: "/data/export.zip",
		SearchLimit:    50,
		UseIndex:       false,
		PreviewLength:  80,
	}, settings)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set(domain.SettingSearchLimit, -3)
	_ = store.Set(domain.SettingPreviewLength, "wide")

	settings := NewSettingsService(store).Get()

	assert.Equal(t, domain.DefaultSearchLimit, settings.SearchLimit)
	assert.Equal(t, domain.DefaultPreviewLength, settings.PreviewLength)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  any
	}{
		{domain.SettingDefaultArchive, " ~/export.zip ", "~/export.zip"},
		{domain.SettingSearchLimit, "25", 25},
		{domain.SettingPreviewLength, "200", 200},
		{domain.SettingUseIndex, "false", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store)

			require.NoError(t, service.Set(tt.key, tt.value))

			got, ok := store.Get(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSettingsService_Set_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "search.mode", "fast"},
		{"empty archive", domain.SettingDefaultArchive, "  "},
		{"limit not a number", domain.SettingSearchLimit, "many"},
		{"limit zero", domain.SettingSearchLimit, "0"},
		{"preview too short", domain.SettingPreviewLength, "5"},
		{"bool garbage", domain.SettingUseIndex, "sometimes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store)

			err := service.Set(tt.key, tt.value)

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			_, ok := store.Get(tt.key)
			assert.False(t, ok)
		})
	}
}

func TestSettingsService_Reset(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)
	require.NoError(t, service.Set(domain.SettingSearchLimit, "5"))

	require.NoError(t, service.Reset(domain.SettingSearchLimit))

	assert.Equal(t, domain.DefaultSearchLimit, service.Get().SearchLimit)
	assert.ErrorIs(t, service.Reset("nope"), domain.ErrInvalidInput)
}
