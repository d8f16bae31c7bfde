// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/chatsift/internal/core/domain"
)

// SearchCompleted carries a ranked search back to the model.
type SearchCompleted struct {
	Query    string
	Response *domain.SearchResponse
	Err      error
}

// ConversationSelected is sent when a result is opened.
type ConversationSelected struct {
	Conversation *domain.FlatConversation
	Query        string
}

// TranscriptLoaded carries a rendered transcript.
type TranscriptLoaded struct {
	ConversationID string
	Markdown       string
	Err            error
}

// ArchiveReloaded is sent when the archive was reloaded in the background.
type ArchiveReloaded struct {
	Record *domain.ArchiveRecord
	Err    error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the query input and ranked results view.
	ViewSearch ViewType = iota
	// ViewTranscript shows one conversation.
	ViewTranscript
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewTranscript:
		return "transcript"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
