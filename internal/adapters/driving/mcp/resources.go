package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/chatsift/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for chatsift resources.
	uriScheme = "chatsift://"
)

// conversationURI returns the resource URI of a conversation transcript.
func conversationURI(id string) string {
	return uriScheme + "conversations/" + id
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource describing the active archive.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "archive",
		Name:        "archive",
		Description: "The currently loaded export archive",
		MIMEType:    "application/json",
	}, s.handleArchiveResource)

	// Static resource listing conversations.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "conversations",
		Name:        "conversations",
		Description: "All loaded conversations in export order",
		MIMEType:    "application/json",
	}, s.handleConversationsResource)

	// Template for conversation transcripts.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "conversations/{id}",
		Name:        "conversation-transcript",
		Description: "Markdown transcript of a conversation",
		MIMEType:    "text/markdown",
	}, s.handleTranscriptResource)
}

// handleArchiveResource returns the active load record, or null.
func (s *Server) handleArchiveResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	var rec *domain.ArchiveRecord
	if s.ports.Ingest != nil {
		rec = s.ports.Ingest.Current()
	}

	type archiveInfo struct {
		Path          string    `json:"path"`
		Checksum      string    `json:"checksum"`
		Conversations int       `json:"conversations"`
		Dropped       int       `json:"dropped"`
		MediaFiles    int       `json:"media_files"`
		LoadedAt      time.Time `json:"loaded_at"`
	}

	text := "null"
	if rec != nil {
		data, err := json.MarshalIndent(archiveInfo{
			Path:          rec.Path,
			Checksum:      rec.Checksum,
			Conversations: rec.Conversations,
			Dropped:       rec.Dropped,
			MediaFiles:    rec.MediaFiles,
			LoadedAt:      rec.LoadedAt,
		}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshalling archive: %w", err)
		}
		text = string(data)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     text,
		}},
	}, nil
}

// handleConversationsResource returns a summary of every loaded conversation.
func (s *Server) handleConversationsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Conversation == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	convs, err := s.ports.Conversation.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}

	type conversationInfo struct {
		ID        string    `json:"id"`
		Title     string    `json:"title"`
		CreatedAt time.Time `json:"created_at"`
		Messages  int       `json:"messages"`
		Preview   string    `json:"preview"`
		URI       string    `json:"uri"`
	}

	infos := make([]conversationInfo, len(convs))
	for i, c := range convs {
		infos[i] = conversationInfo{
			ID:        c.ID,
			Title:     c.Title,
			CreatedAt: c.CreatedAt,
			Messages:  len(c.Messages),
			Preview:   c.Preview,
			URI:       conversationURI(c.ID),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling conversations: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleTranscriptResource returns the Markdown transcript of a conversation.
func (s *Server) handleTranscriptResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Conversation == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract id from URI: chatsift://conversations/{id}
	id := extractConversationID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	md, err := s.ports.Conversation.Transcript(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("rendering transcript: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     md,
		}},
	}, nil
}

// extractConversationID extracts the id from a URI like chatsift://conversations/{id}.
func extractConversationID(uri string) string {
	const prefix = uriScheme + "conversations/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
