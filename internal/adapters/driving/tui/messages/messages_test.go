package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/chatsift/internal/core/domain"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view     ViewType
		expected string
	}{
		{ViewSearch, "search"},
		{ViewTranscript, "transcript"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.view.String())
		})
	}
}

func TestMessages_CarryPayloads(t *testing.T) {
	resp := &domain.SearchResponse{Metadata: domain.SearchResultMetadata{Query: "go"}}
	done := SearchCompleted{Query: "go", Response: resp}
	assert.Equal(t, "go", done.Response.Metadata.Query)

	conv := &domain.FlatConversation{ID: "c1"}
	sel := ConversationSelected{Conversation: conv, Query: "go"}
	assert.Same(t, conv, sel.Conversation)

	errBoom := errors.New("boom")
	assert.ErrorIs(t, ArchiveReloaded{Err: errBoom}.Err, errBoom)
	assert.ErrorIs(t, ErrorOccurred{Err: errBoom}.Err, errBoom)
	assert.Equal(t, ViewTranscript, ViewChanged{View: ViewTranscript}.View)
}
