package driving

import (
	"context"

	"github.com/custodia-labs/chatsift/internal/core/domain"
)

// ConversationService exposes the loaded conversations.
type ConversationService interface {
	// List returns every conversation in ingest order.
	List(ctx context.Context) ([]*domain.FlatConversation, error)

	// Get returns a conversation by ID.
	Get(ctx context.Context, id string) (*domain.FlatConversation, error)

	// Transcript renders a conversation as Markdown.
	Transcript(ctx context.Context, id string) (string, error)
}
