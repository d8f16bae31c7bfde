// Package tui provides an interactive terminal user interface for chatsift.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/chatsift/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search ranks conversations against a query.
	Search driving.SearchService

	// Conversation renders transcripts.
	Conversation driving.ConversationService

	// Ingest reports the loaded archive. Optional.
	Ingest driving.IngestService

	// Settings supplies the result limit. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(search driving.SearchService, conversation driving.ConversationService) *Ports {
	return &Ports{
		Search:       search,
		Conversation: conversation,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Conversation == nil {
		return ErrMissingConversationService
	}
	return nil
}
