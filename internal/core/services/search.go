package services

import (
	"context"
	"sort"
	"strings"

	"github.com/custodia-labs/chatsift/internal/core/domain"
	"github.com/custodia-labs/chatsift/internal/core/ports/driving"
	"github.com/custodia-labs/chatsift/internal/fuzzy"
	"github.com/custodia-labs/chatsift/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// TitleWeight multiplies the score of matches found in a title.
const TitleWeight = 2.0

// scoredConversation holds intermediate results before ranking.
type scoredConversation struct {
	conv       *domain.FlatConversation
	score      float64
	matchCount int
}

// SearchService ranks corpus conversations against multi-term queries.
type SearchService struct {
	corpus        *Corpus
	useIndex      bool
	previewLength int
}

// NewSearchService creates a search service over corpus with default settings.
func NewSearchService(corpus *Corpus) *SearchService {
	s := &SearchService{corpus: corpus}
	s.Configure(domain.DefaultSettings())
	return s
}

// Configure applies search-related settings.
func (s *SearchService) Configure(settings domain.Settings) {
	s.useIndex = settings.UseIndex
	s.previewLength = settings.PreviewLength
	if s.previewLength <= 0 {
		s.previewLength = domain.DefaultPreviewLength
	}
}

// Search ranks conversations for query, attaches smart previews and applies
// pagination. Metadata always describes the full ranked set.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) (*domain.SearchResponse, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q, Limit: %d, Offset: %d", query, opts.Limit, opts.Offset)
	defer logger.Timed("search")()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp := s.SearchWithMetadata(query)
	resp.Results = applyPagination(resp.Results, opts.Offset, opts.Limit)
	for i := range resp.Results {
		resp.Results[i].Preview = s.SmartPreview(resp.Results[i].Conversation, query)
	}

	logger.Info("Final results: %d of %d", len(resp.Results), resp.Metadata.MatchingConversations)
	return resp, nil
}

// SearchConversations returns the ranked conversations for query.
// A blank query returns the whole corpus in ingest order.
func (s *SearchService) SearchConversations(query string) []*domain.FlatConversation {
	resp := s.SearchWithMetadata(query)
	return resp.Conversations()
}

// SearchWithMetadata ranks conversations for query.
//
// Every query term must match a conversation (title or message text) for it
// to be included. Per term, title match scores count double; a
// conversation's score is the mean of its per-term scores and its match
// count the sum. Results are ordered by score, then newest first.
//
// A query without terms returns the whole corpus, unranked, with empty metadata.
func (s *SearchService) SearchWithMetadata(query string) *domain.SearchResponse {
	st := s.corpus.snapshot()

	terms := fuzzy.TokenizeQuery(query)
	if strings.TrimSpace(query) == "" || len(terms) == 0 {
		logger.Debug("No search terms, returning full corpus")
		return allConversations(st)
	}
	logger.Debug("Terms: %v (index pruning: %t)", terms, s.useIndex)

	ranked := s.rank(st, terms)

	resp := &domain.SearchResponse{
		Results: make([]domain.SearchResult, len(ranked)),
		Metadata: domain.SearchResultMetadata{
			Query:                 query,
			MatchingConversations: len(ranked),
		},
	}
	for i, r := range ranked {
		resp.Results[i] = domain.SearchResult{
			Conversation: r.conv,
			Score:        r.score,
			MatchCount:   r.matchCount,
		}
		resp.Metadata.TotalMatches += r.matchCount
	}
	return resp
}

func allConversations(st *corpusState) *domain.SearchResponse {
	resp := &domain.SearchResponse{
		Results: make([]domain.SearchResult, len(st.conversations)),
	}
	for i, conv := range st.conversations {
		resp.Results[i] = domain.SearchResult{Conversation: conv}
	}
	return resp
}

// rank scores every conversation that matches all terms and sorts them.
func (s *SearchService) rank(st *corpusState, terms []string) []scoredConversation {
	var pruned []map[string]struct{}
	if s.useIndex {
		pruned = make([]map[string]struct{}, len(terms))
		for i, term := range terms {
			if ids, ok := st.candidates(term); ok {
				pruned[i] = ids
			}
		}
	}

	var results []scoredConversation
	for _, conv := range st.conversations {
		var (
			total float64
			count int
			miss  bool
		)
		for i, term := range terms {
			if pruned != nil && pruned[i] != nil {
				if _, ok := pruned[i][conv.ID]; !ok {
					miss = true
					break
				}
			}
			score, n := scoreTerm(conv, term)
			if score <= 0 {
				miss = true
				break
			}
			total += score
			count += n
		}
		if miss {
			continue
		}
		results = append(results, scoredConversation{
			conv:       conv,
			score:      total / float64(len(terms)),
			matchCount: count,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].conv.CreatedAt.After(results[j].conv.CreatedAt)
	})

	logger.Debug("Matched %d of %d conversations", len(results), len(st.conversations))
	return results
}

// scoreTerm sums the match scores of term over a conversation's title
// (weighted by TitleWeight) and every text-bearing part.
func scoreTerm(conv *domain.FlatConversation, term string) (float64, int) {
	titleMatches := fuzzy.FindMatches(conv.Title, term)
	score := fuzzy.TotalScore(titleMatches) * TitleWeight
	count := len(titleMatches)

	forEachText(conv, func(text string) {
		m := fuzzy.FindMatches(text, term)
		score += fuzzy.TotalScore(m)
		count += len(m)
	})
	return score, count
}

// SmartPreview returns a snippet around the query's first match, preferring
// the title over message text. Without a match, or for a blank query, the
// conversation's default preview is returned.
func (s *SearchService) SmartPreview(conv *domain.FlatConversation, query string) string {
	if conv == nil {
		return ""
	}
	if strings.TrimSpace(query) == "" {
		return conv.Preview
	}
	if fuzzy.HasMatch(conv.Title, query) {
		return fuzzy.ExtractPreview(conv.Title, query, s.previewLength)
	}
	for i := range conv.Messages {
		for _, p := range conv.Messages[i].Parts {
			if p.Text != "" && fuzzy.HasMatch(p.Text, query) {
				return fuzzy.ExtractPreview(p.Text, query, s.previewLength)
			}
		}
	}
	return conv.Preview
}

// applyPagination slices results by offset and limit. A non-positive limit
// means no limit.
func applyPagination(results []domain.SearchResult, offset, limit int) []domain.SearchResult {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(results) {
		return []domain.SearchResult{}
	}
	results = results[offset:]
	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	return results
}
