package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSearchResponse_Conversations tests that ranking order is preserved
func TestSearchResponse_Conversations(t *testing.T) {
	a := &FlatConversation{ID: "a"}
	b := &FlatConversation{ID: "b"}
	resp := &SearchResponse{Results: []SearchResult{
		{Conversation: b, Score: 2},
		{Conversation: a, Score: 1},
	}}

	assert.Equal(t, []*FlatConversation{b, a}, resp.Conversations())
	assert.Empty(t, (&SearchResponse{}).Conversations())
}

// TestMatchType_Values tests the match type strings
func TestMatchType_Values(t *testing.T) {
	assert.Equal(t, "exact", string(MatchExact))
	assert.Equal(t, "substring", string(MatchSubstring))
}

// TestPartKind_String tests PartKind names
func TestPartKind_String(t *testing.T) {
	assert.Equal(t, "text", PartPlainText.String())
	assert.Equal(t, "structured", PartStructured.String())
	assert.Equal(t, "asset_pointer", PartAssetPointer.String())
	assert.Equal(t, "unknown", PartKind(42).String())
}
