package mcp

import (
	"github.com/custodia-labs/chatsift/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search ranks conversations.
	Search driving.SearchService

	// Conversation lists conversations and renders transcripts.
	Conversation driving.ConversationService

	// Ingest reports the active archive load.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Conversation and Ingest are optional
	return nil
}
