package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/chatsift/internal/core/domain"
)

// defaultSearchLimit caps results when the caller gives no limit.
const defaultSearchLimit = 10

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query  string `json:"query" jsonschema:"words to find in conversation titles and messages; every word must match"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Offset int    `json:"offset,omitempty" jsonschema:"number of ranked results to skip"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results               []SearchResultOutput `json:"results"`
	Count                 int                  `json:"count"`
	MatchingConversations int                  `json:"matching_conversations"`
	TotalMatches          int                  `json:"total_matches"`
}

// SearchResultOutput represents a single ranked conversation.
type SearchResultOutput struct {
	ConversationID string    `json:"conversation_id"`
	Title          string    `json:"title"`
	CreatedAt      time.Time `json:"created_at"`
	Score          float64   `json:"score"`
	MatchCount     int       `json:"match_count"`
	Preview        string    `json:"preview,omitempty"`
	URI            string    `json:"uri"`
}

// TranscriptInput is the input schema for the transcript tool.
type TranscriptInput struct {
	ConversationID string `json:"conversation_id" jsonschema:"id of the conversation to render"`
}

// TranscriptOutput is the output schema for the transcript tool.
type TranscriptOutput struct {
	ConversationID string `json:"conversation_id"`
	Markdown       string `json:"markdown"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the loaded conversations. Results are ranked by match quality, newest first on ties.",
	}, s.handleSearch)

	if s.ports.Conversation != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "transcript",
			Description: "Render one conversation as a Markdown transcript",
		}, s.handleTranscript)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	opts := domain.SearchOptions{Limit: limit, Offset: input.Offset}
	resp, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results:               make([]SearchResultOutput, len(resp.Results)),
		Count:                 len(resp.Results),
		MatchingConversations: resp.Metadata.MatchingConversations,
		TotalMatches:          resp.Metadata.TotalMatches,
	}

	for i := range resp.Results {
		conv := resp.Results[i].Conversation
		output.Results[i] = SearchResultOutput{
			ConversationID: conv.ID,
			Title:          conv.Title,
			CreatedAt:      conv.CreatedAt,
			Score:          resp.Results[i].Score,
			MatchCount:     resp.Results[i].MatchCount,
			Preview:        resp.Results[i].Preview,
			URI:            conversationURI(conv.ID),
		}
	}

	return nil, output, nil
}

// handleTranscript handles the transcript tool invocation.
func (s *Server) handleTranscript(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TranscriptInput,
) (*mcp.CallToolResult, TranscriptOutput, error) {
	if input.ConversationID == "" {
		return nil, TranscriptOutput{}, errors.New("conversation_id is required")
	}

	md, err := s.ports.Conversation.Transcript(ctx, input.ConversationID)
	if err != nil {
		return nil, TranscriptOutput{}, err
	}

	return nil, TranscriptOutput{ConversationID: input.ConversationID, Markdown: md}, nil
}
