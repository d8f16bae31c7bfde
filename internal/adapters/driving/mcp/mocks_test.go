package mcp

import (
	"context"

	"github.com/custodia-labs/chatsift/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	response *domain.SearchResponse
	err      error
	gotOpts  domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) (*domain.SearchResponse, error) {
	m.gotOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.response == nil {
		return &domain.SearchResponse{Metadata: domain.SearchResultMetadata{Query: query}}, nil
	}
	return m.response, nil
}

func (m *mockSearchService) SmartPreview(conv *domain.FlatConversation, _ string) string {
	return conv.Preview
}

// mockConversationService is a mock implementation of driving.ConversationService.
type mockConversationService struct {
	conversations []*domain.FlatConversation
	transcript    string
	err           error
}

func (m *mockConversationService) List(_ context.Context) ([]*domain.FlatConversation, error) {
	return m.conversations, m.err
}

func (m *mockConversationService) Get(_ context.Context, id string) (*domain.FlatConversation, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, c := range m.conversations {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockConversationService) Transcript(_ context.Context, _ string) (string, error) {
	return m.transcript, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	current *domain.ArchiveRecord
}

func (m *mockIngestService) Load(_ context.Context, _ string) (*domain.ArchiveRecord, error) {
	return m.current, nil
}

func (m *mockIngestService) Current() *domain.ArchiveRecord {
	return m.current
}

func (m *mockIngestService) History(_ context.Context) ([]domain.ArchiveRecord, error) {
	return nil, nil
}
