package domain

// MatchType classifies how a query matched a piece of text.
type MatchType string

const (
	// MatchExact is a full phrase hit or a whole-word equality.
	MatchExact MatchType = "exact"

	// MatchSubstring is a query term found inside a longer word.
	MatchSubstring MatchType = "substring"
)

// MatchResult is a single lexical occurrence of a query inside a text.
// Start and End are character (rune) offsets into the source text.
type MatchResult struct {
	// Word is the matched substring as it appears in the source.
	Word string

	// Score is in (0, 1]; exact matches score 1.
	Score float64

	// Type is the matching scheme that produced the hit.
	Type MatchType

	// Start is the offset of the first matched character.
	Start int

	// End is the offset one past the last matched character.
	End int
}

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results. Zero means no limit.
	Limit int

	// Offset is the number of results to skip.
	Offset int
}

// SearchResult is one ranked conversation.
type SearchResult struct {
	// Conversation is the matched conversation. It is shared with the corpus
	// and must not be modified.
	Conversation *FlatConversation

	// Score is the mean of the per-term scores.
	Score float64

	// MatchCount is the sum of the per-term match counts.
	MatchCount int

	// Preview is a query-aware snippet.
	Preview string
}

// SearchResultMetadata summarises a ranked search.
type SearchResultMetadata struct {
	// TotalMatches is the sum of match counts across all returned conversations.
	TotalMatches int

	// Query is the query text as given.
	Query string

	// MatchingConversations is the number of returned conversations.
	MatchingConversations int
}

// SearchResponse bundles ranked results with their metadata.
type SearchResponse struct {
	Results  []SearchResult
	Metadata SearchResultMetadata
}

// Conversations returns the ranked conversations without scores.
func (r *SearchResponse) Conversations() []*FlatConversation {
	out := make([]*FlatConversation, len(r.Results))
	for i := range r.Results {
		out[i] = r.Results[i].Conversation
	}
	return out
}
