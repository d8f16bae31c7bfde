package driving

import (
	"context"

	"github.com/custodia-labs/chatsift/internal/core/domain"
)

// SearchService provides ranked search over the loaded corpus.
type SearchService interface {
	// Search ranks conversations matching every query term and attaches
	// query-aware previews. Metadata describes the full ranked set; Limit and
	// Offset only trim Results.
	Search(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResponse, error)

	// SmartPreview returns a query-aware snippet for a conversation.
	SmartPreview(conv *domain.FlatConversation, query string) string
}
