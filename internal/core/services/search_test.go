package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chatsift/internal/core/domain"
)

func newTestSearch(convs []*domain.FlatConversation) *SearchService {
	corpus := NewCorpus()
	corpus.Ingest(convs)
	return NewSearchService(corpus)
}

func resultIDs(resp *domain.SearchResponse) []string {
	ids := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		ids = append(ids, r.Conversation.ID)
	}
	return ids
}

func TestSearchWithMetadata_AllTermsMustMatch(t *testing.T) {
	svc := newTestSearch(typescriptCorpus())

	resp := svc.SearchWithMetadata("typescript project")

	require.Equal(t, []string{"c3"}, resultIDs(resp))
	// "typescript" scores 1 (one body hit), "project" scores 2 (two body hits).
	assert.InDelta(t, 1.5, resp.Results[0].Score, 1e-9)
	assert.Equal(t, 3, resp.Results[0].MatchCount)
	assert.Equal(t, domain.SearchResultMetadata{
		TotalMatches:          3,
		Query:                 "typescript project",
		MatchingConversations: 1,
	}, resp.Metadata)
}

func TestSearchWithMetadata_TitleWeighted(t *testing.T) {
	svc := newTestSearch(typescriptCorpus())

	resp := svc.SearchWithMetadata("TypeScript")

	require.Equal(t, []string{"c1", "c3"}, resultIDs(resp))
	// Title hit counts double, plus one body hit.
	assert.InDelta(t, 3.0, resp.Results[0].Score, 1e-9)
	assert.Equal(t, 2, resp.Results[0].MatchCount)
	assert.InDelta(t, 1.0, resp.Results[1].Score, 1e-9)
	assert.Equal(t, 3, resp.Metadata.TotalMatches)
	assert.Equal(t, 2, resp.Metadata.MatchingConversations)
}

func TestSearchWithMetadata_ScoreIsMeanOfTerms(t *testing.T) {
	svc := newTestSearch(typescriptCorpus())

	single := svc.SearchWithMetadata("project")
	doubled := svc.SearchWithMetadata("project project")

	require.Equal(t, resultIDs(single), resultIDs(doubled))
	for i := range single.Results {
		assert.InDelta(t, single.Results[i].Score, doubled.Results[i].Score, 1e-9)
		assert.Equal(t, 2*single.Results[i].MatchCount, doubled.Results[i].MatchCount)
	}
}

func TestSearchWithMetadata_TieBrokenByNewest(t *testing.T) {
	svc := newTestSearch([]*domain.FlatConversation{
		conv("old", "Notes", day(1), "channels in go"),
		conv("new", "Notes", day(9), "channels in go"),
		conv("mid", "Notes", day(5), "channels in go"),
	})

	resp := svc.SearchWithMetadata("channels")

	assert.Equal(t, []string{"new", "mid", "old"}, resultIDs(resp))
}

func TestSearchWithMetadata_NoMatch(t *testing.T) {
	svc := newTestSearch(typescriptCorpus())

	resp := svc.SearchWithMetadata("xyzzynotfound")

	assert.Empty(t, resp.Results)
	assert.Equal(t, domain.SearchResultMetadata{Query: "xyzzynotfound"}, resp.Metadata)
}

func TestSearchWithMetadata_EmptyQueryReturnsCorpus(t *testing.T) {
	svc := newTestSearch(typescriptCorpus())

	for _, q := range []string{"", "   ", "?!"} {
		resp := svc.SearchWithMetadata(q)
		assert.Equal(t, []string{"c1", "c2", "c3", "c4"}, resultIDs(resp), "query %q", q)
		assert.Equal(t, domain.SearchResultMetadata{}, resp.Metadata, "query %q", q)
	}
}

func TestSearchWithMetadata_ShortTerms(t *testing.T) {
	svc := newTestSearch(typescriptCorpus())

	resp := svc.SearchWithMetadata("go")

	require.Equal(t, []string{"c4"}, resultIDs(resp))
	// Title "Go concurrency" (x2) plus "goroutines" in both messages.
	assert.InDelta(t, 4.0, resp.Results[0].Score, 1e-9)
	assert.Equal(t, 3, resp.Results[0].MatchCount)
}

func TestSearchWithMetadata_AddingTermsNeverWidens(t *testing.T) {
	svc := newTestSearch(typescriptCorpus())

	wide := map[string]bool{}
	for _, id := range resultIDs(svc.SearchWithMetadata("typescript")) {
		wide[id] = true
	}
	for _, id := range resultIDs(svc.SearchWithMetadata("typescript project compile")) {
		assert.True(t, wide[id], "%s not in single-term results", id)
	}
}

func TestSearchWithMetadata_IndexPruningMatchesFullScan(t *testing.T) {
	convs := append(typescriptCorpus(),
		conv("c5", "Scripting", day(5), "A shell script that deploys the project"),
		conv("c6", "Naïve Bayes", day(6), "naïve classifiers are fast"),
	)

	indexed := newTestSearch(convs)
	scan := newTestSearch(convs)
	settings := domain.DefaultSettings()
	settings.UseIndex = false
	scan.Configure(settings)

	queries := []string{
		"typescript", "script", "project", "pro", "go", "rou", "typescript project",
		"naïve", "ïve", "shell project", "xyzzynotfound", "a", "the project",
	}
	for _, q := range queries {
		assert.Equal(t, scan.SearchWithMetadata(q), indexed.SearchWithMetadata(q), "query %q", q)
	}
}

func TestSearch_PaginatesAndAddsPreviews(t *testing.T) {
	svc := newTestSearch(typescriptCorpus())
	ctx := context.Background()

	resp, err := svc.Search(ctx, "typescript", domain.SearchOptions{Limit: 1})
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, "c1", resp.Results[0].Conversation.ID)
	assert.Equal(t, "TypeScript generics", resp.Results[0].Preview)
	assert.Equal(t, 2, resp.Metadata.MatchingConversations)

	resp, err = svc.Search(ctx, "typescript", domain.SearchOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"c3"}, resultIDs(resp))

	resp, err = svc.Search(ctx, "typescript", domain.SearchOptions{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.Equal(t, 2, resp.Metadata.MatchingConversations)
}

func TestSearch_CancelledContext(t *testing.T) {
	svc := newTestSearch(typescriptCorpus())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Search(ctx, "typescript", domain.SearchOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchConversations(t *testing.T) {
	svc := newTestSearch(typescriptCorpus())

	got := svc.SearchConversations("project")

	require.Len(t, got, 2)
	assert.Equal(t, "c3", got[0].ID)
	assert.Equal(t, "c2", got[1].ID)
}

func TestSmartPreview(t *testing.T) {
	svc := newTestSearch(nil)
	c := typescriptCorpus()[2]

	assert.Equal(t, "My typescript project fails to compile", svc.SmartPreview(c, "compile"))
	assert.Equal(t, "Build tooling", svc.SmartPreview(c, "tooling"))
	assert.Equal(t, c.Preview, svc.SmartPreview(c, "absent"))
	assert.Equal(t, c.Preview, svc.SmartPreview(c, "  "))
	assert.Empty(t, svc.SmartPreview(nil, "x"))
}

func TestApplyPagination(t *testing.T) {
	results := make([]domain.SearchResult, 5)

	assert.Len(t, applyPagination(results, 0, 0), 5)
	assert.Len(t, applyPagination(results, 0, 2), 2)
	assert.Len(t, applyPagination(results, 4, 2), 1)
	assert.Len(t, applyPagination(results, -1, 3), 3)
	assert.Empty(t, applyPagination(results, 5, 2))
}
