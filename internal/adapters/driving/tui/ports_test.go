package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/chatsift/internal/core/domain"
	"github.com/custodia-labs/chatsift/internal/core/ports/driving"
)

// MockSearchService implements driving.SearchService for testing.
type MockSearchService struct {
	Response *domain.SearchResponse
	Err      error
	Queries  []string
}

func (m *MockSearchService) Search(
	_ context.Context, query string, _ domain.SearchOptions,
) (*domain.SearchResponse, error) {
	m.Queries = append(m.Queries, query)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Response == nil {
		return &domain.SearchResponse{}, nil
	}
	return m.Response, nil
}

func (m *MockSearchService) SmartPreview(conv *domain.FlatConversation, _ string) string {
	return conv.Preview
}

// MockConversationService implements driving.ConversationService for testing.
type MockConversationService struct {
	Transcripts map[string]string
}

func (m *MockConversationService) List(_ context.Context) ([]*domain.FlatConversation, error) {
	return nil, nil
}

func (m *MockConversationService) Get(_ context.Context, id string) (*domain.FlatConversation, error) {
	if _, ok := m.Transcripts[id]; !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.FlatConversation{ID: id}, nil
}

func (m *MockConversationService) Transcript(_ context.Context, id string) (string, error) {
	md, ok := m.Transcripts[id]
	if !ok {
		return "", domain.ErrNotFound
	}
	return md, nil
}

// MockIngestService implements driving.IngestService for testing.
type MockIngestService struct {
	Record *domain.ArchiveRecord
}

func (m *MockIngestService) Load(_ context.Context, _ string) (*domain.ArchiveRecord, error) {
	return m.Record, nil
}

func (m *MockIngestService) Current() *domain.ArchiveRecord {
	return m.Record
}

func (m *MockIngestService) History(_ context.Context) ([]domain.ArchiveRecord, error) {
	return nil, nil
}

// MockSettingsService implements driving.SettingsService for testing.
type MockSettingsService struct {
	Settings domain.Settings
}

func (m *MockSettingsService) Get() domain.Settings { return m.Settings }

func (m *MockSettingsService) Set(_, _ string) error { return nil }

func (m *MockSettingsService) Reset(_ string) error { return nil }

func (m *MockSettingsService) Path() string { return "" }

var (
	_ driving.SearchService       = (*MockSearchService)(nil)
	_ driving.ConversationService = (*MockConversationService)(nil)
	_ driving.IngestService       = (*MockIngestService)(nil)
	_ driving.SettingsService     = (*MockSettingsService)(nil)
)

func TestNewPorts(t *testing.T) {
	search := &MockSearchService{}
	conv := &MockConversationService{}

	ports := NewPorts(search, conv)

	assert.Equal(t, search, ports.Search)
	assert.Equal(t, conv, ports.Conversation)
	assert.Nil(t, ports.Ingest)
	assert.Nil(t, ports.Settings)
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name  string
		ports *Ports
		want  error
	}{
		{"valid", NewPorts(&MockSearchService{}, &MockConversationService{}), nil},
		{"nil ports", nil, ErrInvalidPorts},
		{"missing search", &Ports{Conversation: &MockConversationService{}}, ErrMissingSearchService},
		{"missing conversation", &Ports{Search: &MockSearchService{}}, ErrMissingConversationService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
