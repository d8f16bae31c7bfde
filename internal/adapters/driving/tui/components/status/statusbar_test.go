package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Contains(t, bar.View(), "Ready")
}

func TestBar_States(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		message  string
		contains []string
	}{
		{name: "ready", state: StateReady, contains: []string{"Ready", "enter: search"}},
		{name: "searching", state: StateSearching, contains: []string{"Searching..."}},
		{name: "results", state: StateResults, contains: []string{"5 results", "enter: open"}},
		{name: "reading", state: StateReading, contains: []string{"esc: back", "g: top"}},
		{name: "error with message", state: StateError, message: "boom", contains: []string{"Error: boom"}},
		{name: "error without message", state: StateError, contains: []string{"Error"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(160)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)
			bar.SetResultCount(5)

			view := bar.View()
			for _, want := range tt.contains {
				assert.Contains(t, view, want)
			}
		})
	}
}

func TestBar_ShowsCorpusSizeAndMessage(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(160)
	bar.SetConversations(42)
	bar.SetMessage("Archive reloaded")

	view := bar.View()
	assert.Contains(t, view, "42 conversations loaded")
	assert.Contains(t, view, "Archive reloaded")
}
